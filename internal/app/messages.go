// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app implements the producer's command layer: the write, signout,
// show, doctor and version commands run by cmd/producer on top of the
// snapshot writer and loader.
//
// All Msg* constants are human-readable strings written to the command's
// output. Keeping them in one place keeps the wording consistent and lets
// tests match on it.
package app

const (
	// MsgWritten reports a successful write; it is followed by the version.
	MsgWritten = "snapshot written"

	// MsgWrittenPartially reports a write that reached only one backend.
	MsgWrittenPartially = "snapshot written with storage errors"

	// MsgSignedOut reports a completed sign-out.
	MsgSignedOut = "snapshot cleared"

	// MsgRejectedDowngrade explains an ordinary write refused because it
	// would sign the user out; signout is the command for that.
	MsgRejectedDowngrade = "refused: an ordinary write cannot clear authentication, use signout"

	// MsgAccessOK reports a writable shared container.
	MsgAccessOK = "container access ok"

	// MsgAccessFailed reports a container that cannot be written.
	MsgAccessFailed = "container access failed"

	// MsgClearedMarkerSet reports that a sign-out marker is present.
	MsgClearedMarkerSet = "sign-out marker set, mirrors are ignored"

	// MsgSourceSkipped marks a mirror skipped because of a sign-out marker.
	MsgSourceSkipped = "skipped"

	// MsgSourceEmpty marks a source that holds no snapshot.
	MsgSourceEmpty = "empty"
)
