package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/todoclient/internal/logging"
	"github.com/idilsaglam/todoclient/internal/model"
)

// TodosPath is the collection path served by the backend.
const TodosPath = "/api/todos/"

// DefaultBaseURL points at a backend running locally.
const DefaultBaseURL = "http://localhost:3000"

// RequestIDHeader carries a fresh uuid on every request.
const RequestIDHeader = "X-Request-Id"

// NewTodo is the create payload.
type NewTodo struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Patch is a partial update; nil fields are left out of the body.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Detail    *string `json:"detail,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type listResponse struct {
	Todos []model.Todo `json:"todos"`
}

// Client talks to the todo REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *logrus.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. It applies to a copy of the
// http.Client, so a client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for the API rooted at baseURL
// (scheme and host, e.g. "http://localhost:3000").
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.NewLogger("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches every todo in server order.
func (c *Client) List(ctx context.Context) ([]model.Todo, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, &out); err != nil {
		return nil, err
	}
	if out.Todos == nil {
		return []model.Todo{}, nil
	}
	return out.Todos, nil
}

// Create posts a new todo and returns the stored item.
func (c *Client) Create(ctx context.Context, in NewTodo) (model.Todo, error) {
	var out model.Todo
	err := c.do(ctx, http.MethodPost, c.collectionURL(), in, &out)
	return out, err
}

// Update patches the todo with the given id and returns the stored item.
func (c *Client) Update(ctx context.Context, id int, p Patch) (model.Todo, error) {
	var out model.Todo
	err := c.do(ctx, http.MethodPatch, c.itemURL(id), p, &out)
	return out, err
}

// Delete removes the todo with the given id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) collectionURL() string { return c.baseURL + TodosPath }

func (c *Client) itemURL(id int) string { return c.baseURL + TodosPath + strconv.Itoa(id) }

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.WithFields(logrus.Fields{
		"method":     method,
		"url":        url,
		"request_id": reqID,
	})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		rerr := &ResponseError{StatusCode: resp.StatusCode, Data: payloadText(raw, resp.Status)}
		log.WithField("data", rerr.Data).Warn("server returned an error")
		return rerr
	}
	log.Debug("request done")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
