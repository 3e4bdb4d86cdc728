package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/utils"
	"github.com/MKhiriev/go-case-sync/models"
)

// MemberKey is the collection key of hydra-style list responses.
const MemberKey = "hydra:member"

type httpCaller struct {
	timeout   time.Duration
	userAgent string

	mu      sync.Mutex
	clients map[string]*utils.HTTPClient

	logger *logger.Logger
}

// NewHTTPCaller constructs an HTTP/REST implementation of [Caller]. A source
// without its own timeout uses cfg.RequestTimeout.
func NewHTTPCaller(cfg config.Adapter, logger *logger.Logger) Caller {
	return &httpCaller{
		timeout:   cfg.RequestTimeout,
		userAgent: cfg.UserAgent,
		clients:   make(map[string]*utils.HTTPClient),
		logger:    logger,
	}
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// client returns the cached client of source, building it on first use.
// Clients are keyed by reference and location so a changed registry entry
// gets a fresh client.
func (h *httpCaller) client(source models.Source) (*utils.HTTPClient, error) {
	baseURL, err := normalizeBaseURL(source.Location)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSource, source.Reference, err)
	}

	key := source.Reference + "|" + baseURL

	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[key]; ok {
		return c, nil
	}

	timeout := source.Timeout
	if timeout <= 0 {
		timeout = h.timeout
	}

	c := utils.NewHTTPClient(utils.HTTPClientOptions{
		BaseURL:   baseURL,
		Timeout:   timeout,
		UserAgent: h.userAgent,
		Headers:   source.Headers,
	})
	h.clients[key] = c

	return c, nil
}

// Call implements [Caller].
func (h *httpCaller) Call(ctx context.Context, source models.Source, endpoint, method string, opts CallOptions) (*Response, error) {
	log := logger.FromContext(ctx)

	client, err := h.client(source)
	if err != nil {
		log.Err(err).Str("func", "httpCaller.Call").Str("source", source.Reference).Msg("invalid source")
		return nil, err
	}

	req := client.R().SetContext(ctx)
	if len(opts.Headers) > 0 {
		req.SetHeaders(opts.Headers)
	}
	if len(opts.Query) > 0 {
		req.SetQueryParams(opts.Query)
	}

	switch {
	case opts.Multipart != nil:
		for _, f := range opts.Multipart.Files {
			req.SetMultipartField(f.Field, f.Filename, f.ContentType, bytes.NewReader(f.Content))
		}
		if len(opts.Multipart.Fields) > 0 {
			req.SetFormData(opts.Multipart.Fields)
		}
	case opts.Body != nil:
		req.SetHeader("Content-Type", "application/json").SetBody(opts.Body)
	}
	req.SetHeader("Accept", "application/json")

	resp, err := req.Execute(method, endpoint)
	if err != nil {
		log.Err(err).
			Str("func", "httpCaller.Call").
			Str("source", source.Reference).
			Str("method", method).
			Str("endpoint", endpoint).
			Msg("remote call failed")
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRemoteCall, method, endpoint, err)
	}

	if err = mapHTTPError(resp); err != nil {
		log.Err(err).
			Str("func", "httpCaller.Call").
			Str("source", source.Reference).
			Int("status", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Msg("remote call returned an error status")
		return nil, err
	}

	log.Debug().
		Str("func", "httpCaller.Call").
		Str("source", source.Reference).
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Msg("remote call succeeded")

	return &Response{
		Status: resp.StatusCode(),
		Header: resp.Header(),
		Body:   resp.Body(),
	}, nil
}

// Decode implements [Caller].
func (h *httpCaller) Decode(source models.Source, resp *Response) (map[string]any, error) {
	if resp == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return map[string]any{}, nil
	}

	var decoded any
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return nil, fmt.Errorf("%w from %s: %w", ErrDecodingResponse, source.Reference, err)
	}

	switch v := decoded.(type) {
	case map[string]any:
		return v, nil
	case []any:
		return map[string]any{MemberKey: v}, nil
	default:
		return nil, fmt.Errorf("%w from %s: unexpected %T", ErrDecodingResponse, source.Reference, decoded)
	}
}
