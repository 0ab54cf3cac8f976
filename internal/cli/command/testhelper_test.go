package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

// mockServer is a stub backend with per-path handlers.
type mockServer struct {
	*httptest.Server
	handlers map[string]http.HandlerFunc
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{handlers: make(map[string]http.HandlerFunc)}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m.handlers[r.URL.Path]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mockServer) handle(path string, h http.HandlerFunc) {
	m.handlers[path] = h
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// testEnv is an isolated CLI installation: its own config file, data dir
// and master key, pointed at a mock server.
type testEnv struct {
	t          *testing.T
	server     *mockServer
	configPath string
	stdin      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	server := newMockServer(t)
	dir := t.TempDir()

	content := fmt.Sprintf(`
base_url: %s
data_dir: %s
security:
  master_key_file: %s
http:
  timeout: 5s
log:
  level: error
`, server.URL, filepath.Join(dir, "data"), filepath.Join(dir, "master.key"))

	path := filepath.Join(dir, "cli.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return &testEnv{t: t, server: server, configPath: path}
}

// result is the outcome of one CLI invocation.
type result struct {
	stdout string
	stderr string
	err    error
}

func (r result) exitCode() int {
	if r.err == nil {
		return 0
	}
	if ec, ok := r.err.(cli.ExitCoder); ok {
		return ec.ExitCode()
	}
	return -1
}

// run executes the CLI with args after the global --config flag.
func (e *testEnv) run(args ...string) result {
	e.t.Helper()

	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(e.stdin)
	app.ExitErrHandler = func(*cli.Context, error) {}

	full := append([]string{"famcheck-cli", "--config", e.configPath}, args...)
	err := app.Run(full)

	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// loginHandler accepts alice/pw and answers with role.
func loginHandler(t *testing.T, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode login body: %v", err)
		}
		if body.Username != "alice" || body.Password != "pw" {
			jsonResponse(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{
			"token":   "token-0123456789",
			"status":  200,
			"message": "ok",
			"role":    role,
		})
	}
}
