package utils

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient(utils.HTTPClientOptions{BaseURL: "https://example.com"})
//	resp, err := client.R().Get("/api/requests")
type HTTPClient struct {
	*resty.Client
}

// HTTPClientOptions configures a client bound to one remote base URL.
type HTTPClientOptions struct {
	// BaseURL is prefixed to every relative request path.
	BaseURL string
	// Timeout bounds every request. Zero disables the timeout.
	Timeout time.Duration
	// UserAgent is sent with every request when non-empty.
	UserAgent string
	// Headers are sent with every request.
	Headers map[string]string
}

// NewHTTPClient creates and returns a new HTTPClient instance configured
// from opts.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient(opts HTTPClientOptions) *HTTPClient {
	client := resty.New()

	if opts.BaseURL != "" {
		client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	if len(opts.Headers) > 0 {
		client.SetHeaders(opts.Headers)
	}

	return &HTTPClient{Client: client}
}
