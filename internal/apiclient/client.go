// Package apiclient talks to the CMR and dictionary REST backends on behalf of
// one user. A Client keeps default headers (auth token, language) that are
// applied to every request it makes.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stroyka/internal/config"
)

var ErrNotJSON = errors.New("response body is not JSON")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

type Client struct {
	http   *http.Client
	cfg    config.Config
	logger *zap.SugaredLogger

	mu       sync.RWMutex
	headers  http.Header
	language string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

func New(cfg *config.Config, logger *zap.SugaredLogger, opts ...Option) *Client {
	c := &Client{
		http:     http.DefaultClient,
		cfg:      *cfg,
		logger:   logger,
		headers:  http.Header{},
		language: cfg.Language,
	}
	c.headers.Set("Content-Type", "application/json")
	if c.language == "" {
		c.language = "kk"
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuthToken sets the bearer token sent with every request; an empty token removes it.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != "" {
		c.headers.Set("Authorization", "Bearer "+token)
	} else {
		c.headers.Del("Authorization")
	}
}

func (c *Client) SetLanguage(language string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = language
}

func (c *Client) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.language
}

func (c *Client) authorization() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.headers.Get("Authorization")
}

// Payload is a response body: decoded JSON when the body parses as JSON, raw text otherwise.
type Payload struct {
	ContentType string
	raw         []byte
	value       interface{}
	isJSON      bool
}

func newPayload(contentType string, raw []byte) *Payload {
	p := &Payload{ContentType: contentType, raw: raw}
	if json.Valid(raw) {
		d := json.NewDecoder(bytes.NewReader(raw))
		d.UseNumber()
		if err := d.Decode(&p.value); err == nil {
			p.isJSON = true
			return p
		}
	}
	p.value = string(raw)
	return p
}

func (p *Payload) IsJSON() bool { return p.isJSON }

func (p *Payload) Text() string { return string(p.raw) }

// Value is the decoded JSON document (json.Number for numbers) or the body text.
func (p *Payload) Value() interface{} { return p.value }

func (p *Payload) Decode(v interface{}) error {
	if !p.isJSON {
		return ErrNotJSON
	}
	return json.Unmarshal(p.raw, v)
}

// Do sends a request with the default headers overlaid by header.
// Failures are logged and returned to the caller unchanged.
func (c *Client) Do(ctx context.Context, method, url string, body io.Reader, header http.Header) (*Payload, error) {
	p, err := c.do(ctx, method, url, body, header)
	if err != nil {
		c.logger.Errorf("API request failed: %s %s: %v", method, url, err)
		return nil, err
	}
	return p, nil
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, header http.Header) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.mu.RLock()
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	c.mu.RUnlock()
	for k, v := range header {
		req.Header[k] = append([]string(nil), v...)
	}
	if req.Header.Get("X-Request-Id") == "" {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}
	return newPayload(resp.Header.Get("Content-Type"), raw), nil
}

func (c *Client) postJSON(ctx context.Context, url string, body interface{}, header http.Header) (*Payload, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, http.MethodPost, url, bytes.NewReader(b), header)
}
