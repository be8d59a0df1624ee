// Package api implements the HTTP client for the PharmTrack backend. It is
// the single chokepoint for outbound requests: it attaches the bearer token
// from the session store, enforces the request timeout, and normalizes every
// failure shape into *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pharmtrack/pharmtrack/internal/client/session"
	"github.com/pharmtrack/pharmtrack/internal/logging"
)

// Client talks to the backend REST API. All paths passed to its methods are
// relative to the configured API root (e.g. "/stock/").
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   session.Store
	log        logging.Logger
}

// New creates a Client. The timeout bounds every request end to end;
// exceeding it surfaces as a network-kind failure, never a hang.
func New(baseURL string, timeout time.Duration, sessions session.Store, log logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		sessions: sessions,
		log:      log,
	}
}

// do performs a JSON request and decodes a 2xx response body into out
// (skipped when out is nil or the response has no content).
func (c *Client) do(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, query, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	respBody, _, err := c.execute(ctx, req)
	if err != nil {
		return err
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doForm performs a form-encoded POST (the login grant) and decodes a 2xx
// response into out.
func (c *Client) doForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	respBody, _, err := c.execute(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Download is an opaque binary payload returned by a document endpoint.
type Download struct {
	Data     []byte
	Size     int64
	Filename string
}

// download fetches a binary endpoint (generated documents), bypassing JSON
// decoding. Auth attachment and error normalization are identical to do.
func (c *Client) download(ctx context.Context, path string, query url.Values) (*Download, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	respBody, header, err := c.execute(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Download{
		Data:     respBody,
		Size:     int64(len(respBody)),
		Filename: dispositionFilename(header.Get("Content-Disposition")),
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("X-Request-ID", uuid.NewString())

	sess, err := c.sessions.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if sess.Valid() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	return req, nil
}

// execute sends the request and applies the error taxonomy. On 401 the
// session store is cleared before the error is returned. The bearer token is
// never logged.
func (c *Client) execute(ctx context.Context, req *http.Request) ([]byte, http.Header, error) {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed before response",
			"method", req.Method, "path", req.URL.Path, "error", err)
		return nil, nil, netError()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Warn(ctx, "response body read failed",
			"method", req.Method, "path", req.URL.Path, "error", err)
		return nil, nil, netError()
	}

	c.log.Debug(ctx, "request done",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", req.Header.Get("X-Request-ID"),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, resp.Header, nil
	}

	apiErr := normalizeError(resp.StatusCode, body)

	if apiErr.Kind == KindUnauthorized {
		if clearErr := c.sessions.Clear(ctx); clearErr != nil {
			c.log.Error(ctx, "session clear after 401 failed", "error", clearErr)
		}
	}

	return nil, nil, apiErr
}

// dispositionFilename extracts the filename parameter from a
// Content-Disposition header, or "" when absent.
func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
