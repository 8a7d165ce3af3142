package cli

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoclient/internal/backend"
	"github.com/idilsaglam/todoclient/internal/logging"
	"github.com/idilsaglam/todoclient/internal/state"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), append([]string{"--log-level", "error", "--no-color"}, args...), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func setup(t *testing.T) (*backend.Repository, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TODO_API_URL", "")
	t.Setenv("TODO_THEME", "")

	repo := backend.NewRepository()
	srv := httptest.NewServer(backend.NewServer(repo, logging.Discard()).Handler())
	t.Cleanup(srv.Close)
	return repo, srv.URL
}

func TestListFlatAndFiltered(t *testing.T) {
	repo, url := setup(t)
	_, _ = repo.Add("open", "a")
	done, _ := repo.Add("closed", "b")
	completed := true
	_, _ = repo.Update(done.ID, backend.Changes{Completed: &completed})

	r := run(t, "--api-url", url, "ls")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "open")
	assert.Contains(t, r.stdout, "closed")
	assert.Contains(t, r.stdout, "1/2 done")

	r = run(t, "--api-url", url, "ls", "--filter", "incomplete")
	require.Equal(t, ExitOK, r.code)
	assert.Contains(t, r.stdout, "open")
	assert.NotContains(t, r.stdout, "closed")
}

func TestListEmptyMessage(t *testing.T) {
	_, url := setup(t)

	r := run(t, "--api-url", url, "ls", "-f", "completed")

	require.Equal(t, ExitOK, r.code)
	assert.Contains(t, r.stdout, state.EmptyCompletedMessage)
}

func TestAddDoneEditRemove(t *testing.T) {
	repo, url := setup(t)

	r := run(t, "--api-url", url, "add", "buy", "oat", "milk")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added #1")
	stored, err := repo.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "oat milk", stored.Detail)

	r = run(t, "--api-url", url, "done", "1")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "completed #1")
	stored, _ = repo.Get(1)
	assert.True(t, stored.Completed)

	r = run(t, "--api-url", url, "edit", "1", "--title", "buy soon")
	require.Equal(t, ExitOK, r.code, r.stderr)
	stored, _ = repo.Get(1)
	assert.Equal(t, "buy soon", stored.Title)
	assert.Equal(t, "oat milk", stored.Detail)

	r = run(t, "--api-url", url, "rm", "1")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Empty(t, repo.List())
}

func TestServerErrorsExitOne(t *testing.T) {
	_, url := setup(t)

	r := run(t, "--api-url", url, "rm", "5")
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "todo with ID 5 not found")

	r = run(t, "--api-url", url, "done", "9")
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "todo with ID 9 not found")
}

func TestUnreachableServer(t *testing.T) {
	_, _ = setup(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	r := run(t, "--api-url", "http://"+addr, "ls")

	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, state.UnreachableMessage)
}

func TestUsageErrors(t *testing.T) {
	_, url := setup(t)
	tests := map[string][]string{
		"no command":     {},
		"unknown":        {"frobnicate"},
		"add one arg":    {"add", "title-only"},
		"bad id":         {"done", "abc"},
		"edit nothing":   {"edit", "1"},
		"unknown flag":   {"ls", "--bogus"},
		"extra argument": {"ls", "more"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			r := run(t, append([]string{"--api-url", url}, args...)...)
			assert.Equal(t, ExitUsage, r.code)
		})
	}
}

func TestInvalidConfigExitsOne(t *testing.T) {
	_, _ = setup(t)

	r := run(t, "--api-url", "not a url", "ls")

	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "invalid configuration")
}

func TestConfigFile(t *testing.T) {
	repo, url := setup(t)
	_, _ = repo.Add("from config", "x")
	path := filepath.Join(t.TempDir(), "todo.yml")
	require.NoError(t, writeFile(path, "api_url: "+url+"\ntheme: mono\n"))

	r := run(t, "--config", path, "ls")

	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "[ ] from config")
}

func TestVersion(t *testing.T) {
	_, _ = setup(t)
	r := run(t, "version")
	assert.Equal(t, ExitOK, r.code)
	assert.Equal(t, "todo dev\n", r.stdout)
}

func TestServeStopsOnCancel(t *testing.T) {
	_, _ = setup(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		var out, errOut bytes.Buffer
		done <- Execute(ctx, []string{"--log-level", "error", "serve", "--addr", addr, "--data", ""}, &out, &errOut)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, ExitOK, code)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestEditWithoutChangesSendsNothing(t *testing.T) {
	repo, url := setup(t)
	_, _ = repo.Add("same", "text")

	r := run(t, "--api-url", url, "edit", "1", "--title", "same")

	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "nothing to change for #1")
	assert.NotContains(t, r.stdout, "updated")
}

func TestVersionIgnoresBrokenConfig(t *testing.T) {
	_, _ = setup(t)
	path := filepath.Join(t.TempDir(), "todo.yml")
	require.NoError(t, writeFile(path, "api_url: [unclosed\n"))

	r := run(t, "--config", path, "version")

	assert.Equal(t, ExitOK, r.code, r.stderr)
	assert.Equal(t, "todo dev\n", r.stdout)

	r = run(t, "--config", path, "ls")
	assert.Equal(t, ExitFailure, r.code)
}
