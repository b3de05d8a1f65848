// Package api is the single chokepoint for calls to the wardrobe backend.
//
// Every operation returns a *Error classifying the failure as server,
// network, or client-side, so callers never branch on transport details.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// Client wraps an *http.Client with bearer auth, JSON codec handling and
// uniform error classification.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         *log.Logger
}

// NewClient builds a Client rooted at baseURL. A nil httpClient gets a
// default with a 60 second timeout.
func NewClient(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// SetTokenSource wires the credential provider. Requests made while the
// source returns "" go out unauthenticated.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// OnUnauthorized registers a hook invoked when the backend rejects a
// request with 401. The hook fires at most once per response, before the
// error is returned to the caller.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return err
	}

	return c.do(ctx, http.MethodPost, path, "application/json", reader, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return err
	}

	return c.do(ctx, http.MethodPut, path, "application/json", reader, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, out)
}

// PostForm sends a multipart upload built with NewForm.
func (c *Client) PostForm(ctx context.Context, path string, form *Form, out any) error {
	reader, err := form.Reader()
	if err != nil {
		return ClientError(err)
	}

	return c.do(ctx, http.MethodPost, path, form.ContentType(), reader, out)
}

// Download fetches an absolute or backend-relative URL and returns the
// raw response body. Used for result images rather than JSON payloads.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "/") {
		url = c.baseURL + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ClientError(err)
	}

	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NetworkError()
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ClientError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.reject(resp.StatusCode, body)
	}

	return body, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return ClientError(err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Debug("request failed before a response arrived", "method", method, "path", path, "error", err)
		}

		return NetworkError()
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ClientError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.reject(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return ClientError(fmt.Errorf("decoding %s %s response: %w", method, path, err))
	}

	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}

	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// reject converts a non-2xx response into a *Error, firing the
// unauthorized hook for 401s before returning.
func (c *Client) reject(status int, body []byte) *Error {
	if status == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	return ServerError(status, body)
}

func encodeJSON(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, ClientError(err)
	}

	return bytes.NewReader(data), nil
}
