package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

const maxErrorBody = 256

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		if strings.Contains(strings.ToLower(body), "jwt expired") {
			return fmt.Errorf("%w: %w: %s", ErrUnauthorized, ErrTokenExpired, body)
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	default:
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("%w: http %d: %s", ErrNetwork, resp.StatusCode(), body)
	}
}
