package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/backdesk/internal/catalog"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

const testToken = "tok-123"

// fakeBackend is an in-memory REST backend serving the standard catalog
// under /api.
type fakeBackend struct {
	srv *httptest.Server

	mu          sync.Mutex
	records     map[string][]map[string]any
	nextID      int
	failList    map[string]int
	requireAuth bool
	requests    []string
	authHeaders []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		records:  map[string][]map[string]any{},
		nextID:   1,
		failList: map[string]int{},
	}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) baseURL() string { return b.srv.URL + "/api" }

// seed adds records and assigns ids.
func (b *fakeBackend) seed(resource string, recs ...map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range recs {
		r["id"] = b.nextID
		b.nextID++
		b.records[resource] = append(b.records[resource], r)
	}
}

func (b *fakeBackend) all(resource string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.records[resource]...)
}

func (b *fakeBackend) failListWith(resource string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failList[resource] = status
}

func (b *fakeBackend) count(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if strings.HasPrefix(r, method+" ") {
			n++
		}
	}
	return n
}

func (b *fakeBackend) reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))

	path := strings.TrimPrefix(r.URL.Path, "/api")
	switch path {
	case "/auth/login":
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret" {
			b.reply(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
			return
		}
		b.reply(w, http.StatusOK, map[string]string{"token": testToken})
		return
	case "/auth/refresh":
		b.reply(w, http.StatusOK, map[string]any{"data": map[string]string{"access_token": testToken + "-renewed"}})
		return
	}

	if b.requireAuth && r.Header.Get("Authorization") != "Bearer "+testToken {
		b.reply(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
		return
	}

	res, id := b.route(path)
	if res.Name == "" {
		b.reply(w, http.StatusNotFound, map[string]string{"message": "no such endpoint"})
		return
	}
	wrap := func(v any) any {
		if res.Envelope == types.EnvelopeData {
			return map[string]any{"data": v}
		}
		return v
	}

	switch {
	case r.Method == http.MethodGet && id == "":
		if status := b.failList[res.Name]; status != 0 {
			b.reply(w, status, map[string]string{"message": "list unavailable"})
			return
		}
		items := b.records[res.Name]
		if items == nil {
			items = []map[string]any{}
		}
		b.reply(w, http.StatusOK, wrap(items))
	case r.Method == http.MethodPost && id == "":
		var rec map[string]any
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			b.reply(w, http.StatusBadRequest, map[string]string{"message": "bad json"})
			return
		}
		if email, _ := rec["email"].(string); email == "taken@example.test" {
			b.reply(w, http.StatusUnprocessableEntity, map[string]any{
				"message": "validation failed",
				"errors":  map[string][]string{"email": {"has already been taken"}},
			})
			return
		}
		rec["id"] = b.nextID
		b.nextID++
		b.records[res.Name] = append(b.records[res.Name], rec)
		b.reply(w, http.StatusCreated, wrap(rec))
	case r.Method == http.MethodPut && id != "":
		i := b.index(res.Name, id)
		if i < 0 {
			b.reply(w, http.StatusNotFound, map[string]string{"message": "record not found"})
			return
		}
		var rec map[string]any
		_ = json.NewDecoder(r.Body).Decode(&rec)
		rec["id"] = b.records[res.Name][i]["id"]
		b.records[res.Name][i] = rec
		b.reply(w, http.StatusOK, wrap(rec))
	case r.Method == http.MethodDelete && id != "":
		i := b.index(res.Name, id)
		if i < 0 {
			b.reply(w, http.StatusNotFound, map[string]string{"message": "record not found"})
			return
		}
		items := b.records[res.Name]
		b.records[res.Name] = append(items[:i:i], items[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	default:
		b.reply(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	}
}

func (b *fakeBackend) route(path string) (types.Resource, string) {
	for _, res := range catalog.Standard().All() {
		if path == res.Path {
			return res, ""
		}
		if rest, ok := strings.CutPrefix(path, res.Path+"/"); ok && rest != "" {
			return res, rest
		}
	}
	return types.Resource{}, ""
}

func (b *fakeBackend) index(resource, id string) int {
	for i, r := range b.records[resource] {
		if strconv.Itoa(r["id"].(int)) == id {
			return i
		}
	}
	return -1
}

// testEnv is an isolated config and data directory pointed at a fake
// backend.
type testEnv struct {
	t         *testing.T
	backend   *fakeBackend
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T, extraConfig ...string) *testEnv {
	t.Helper()
	b := newFakeBackend(t)
	dir := t.TempDir()
	env := &testEnv{
		t:         t,
		backend:   b,
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
	}
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))

	lines := append([]string{
		"base_url: " + b.baseURL(),
		"timeout: 5s",
		"page_size: 10",
		"log:",
		"  level: error",
	}, extraConfig...)
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"),
		[]byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return env
}

// cmdResult holds the outcome of one command execution.
type cmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// run executes the command tree in process with stdin as input.
func (e *testEnv) run(stdin string, args ...string) cmdResult {
	e.t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))

	err := root.ExecuteContext(context.Background())
	if err != nil {
		report(&stderr, err)
	}
	return cmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: ExitCode(err),
		Err:      err,
	}
}

// mustRun executes the command tree and fails the test on a non-zero exit.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.run("", args...)
	if res.ExitCode != 0 {
		e.t.Fatalf("backdesk %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, res.ExitCode, res.Stdout, res.Stderr)
	}
	return res
}

// parseJSON decodes command output into T.
func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}
