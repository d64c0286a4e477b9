package codec

import "errors"

// ErrDecode is returned (wrapped) for any payload that cannot be turned into
// a snapshot: malformed JSON, a schema mismatch, or an unsupported timestamp.
var ErrDecode = errors.New("snapshot decode error")
