package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoclient/internal/logging"
	"github.com/idilsaglam/todoclient/internal/model"
)

type recorded struct {
	method, path, requestID string
	body                    map[string]any
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) at(i int) recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[i]
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recorded{method: r.Method, path: r.URL.Path, requestID: r.Header.Get(RequestIDHeader)}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			assert.NoError(t, json.Unmarshal(b, &call.body))
		}
		rec.mu.Lock()
		rec.calls = append(rec.calls, call)
		rec.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", WithLogger(logging.Discard())), rec
}

func TestList(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"todos":[{"id":1,"title":"a","detail":"x","completed":false},{"id":2,"title":"b","detail":"y","completed":true}]}`)
	})

	todos, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Todo{
		{ID: 1, Title: "a", Detail: "x"},
		{ID: 2, Title: "b", Detail: "y", Completed: true},
	}, todos)

	require.Equal(t, 1, calls.len())
	got := calls.at(0)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/todos/", got.path)
	_, err = uuid.Parse(got.requestID)
	assert.NoError(t, err, "request id should be a uuid")
}

func TestListEmptyBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})

	todos, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestCreate(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":9,"title":"buy","detail":"milk","completed":false}`)
	})

	todo, err := c.Create(context.Background(), NewTodo{Title: "buy", Detail: "milk"})
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: 9, Title: "buy", Detail: "milk"}, todo)

	got := calls.at(0)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/todos/", got.path)
	assert.Equal(t, map[string]any{"title": "buy", "detail": "milk"}, got.body)
}

func TestUpdateSendsOnlySetFields(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":3,"title":"t","detail":"d","completed":true}`)
	})

	done := true
	todo, err := c.Update(context.Background(), 3, Patch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, todo.Completed)

	got := calls.at(0)
	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "/api/todos/3", got.path)
	assert.Equal(t, map[string]any{"completed": true}, got.body)
}

func TestUpdateSendsFalseCompleted(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":3,"completed":false}`)
	})

	undone := false
	_, err := c.Update(context.Background(), 3, Patch{Completed: &undone})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"completed": false}, calls.at(0).body)
}

func TestDelete(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `whatever`)
	})

	require.NoError(t, c.Delete(context.Background(), 5))
	assert.Equal(t, http.MethodDelete, calls.at(0).method)
	assert.Equal(t, "/api/todos/5", calls.at(0).path)
}

func TestResponseErrorPayload(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"plain text", http.StatusNotFound, "not found\n", "not found"},
		{"json string", http.StatusBadRequest, `"title is required"`, "title is required"},
		{"json data field", http.StatusConflict, `{"data":"already exists"}`, "already exists"},
		{"json error field", http.StatusInternalServerError, `{"error":"boom"}`, "boom"},
		{"empty body", http.StatusBadGateway, "", "502 Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := c.Delete(context.Background(), 1)
			var rerr *ResponseError
			require.True(t, errors.As(err, &rerr), "want *ResponseError, got %v", err)
			assert.Equal(t, tt.status, rerr.StatusCode)
			assert.Equal(t, tt.want, rerr.Data)
		})
	}
}

func TestTransportErrorIsNotResponseError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, WithLogger(logging.Discard()), WithTimeout(time.Second))
	_, err := c.List(context.Background())
	require.Error(t, err)

	var rerr *ResponseError
	assert.False(t, errors.As(err, &rerr))
}

func TestContextCancel(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", WithLogger(logging.Discard()))
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, "http://localhost:3000/api/todos/7", c.itemURL(7))
}

func TestWithTimeoutKeepsCallerClient(t *testing.T) {
	hc := &http.Client{}
	c := NewClient("", WithLogger(logging.Discard()), WithHTTPClient(hc), WithTimeout(3*time.Second))

	assert.Equal(t, time.Duration(0), hc.Timeout, "caller's client must not change")
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
	assert.NotSame(t, hc, c.httpClient)
}

func TestWithTimeoutBeforeHTTPClient(t *testing.T) {
	c := NewClient("", WithLogger(logging.Discard()), WithTimeout(3*time.Second), WithHTTPClient(&http.Client{}))

	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
}

func TestHTTPClientTimeoutKeptWithoutOption(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}
	c := NewClient("", WithLogger(logging.Discard()), WithHTTPClient(hc))

	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, time.Minute, c.httpClient.Timeout)
}
