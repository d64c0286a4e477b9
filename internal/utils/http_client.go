package utils

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an HTTPClient for baseURL with the given per-request
// timeout. Redirects are not followed: the remote backend answers directly
// or not at all.
//
// Example usage:
//
//	client := utils.NewHTTPClient("https://example.supabase.co", 5*time.Second)
//	resp, err := client.R().
//	    SetHeader("Accept", "application/json").
//	    Get("/rest/v1/promises")
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRedirectPolicy(resty.NoRedirectPolicy()).
		SetHeader("Accept", "application/json")

	return &HTTPClient{Client: client}
}
