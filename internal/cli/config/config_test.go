package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/famcheck-go/internal/storage"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Output != OutputTable {
		t.Errorf("Output = %q, want %q", cfg.Output, OutputTable)
	}
	if cfg.Session.Token != "sessionToken" || cfg.Session.Username != "sessionUsername" || cfg.Session.IsAdmin != "sessionIsAdmin" {
		t.Errorf("Session keys = %+v", cfg.Session)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", cfg.Timeout())
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if !filepath.IsAbs(path) {
		t.Errorf("Path %q should be absolute", path)
	}
	if !strings.HasSuffix(path, filepath.Join(".famcheck", "cli.yaml")) {
		t.Errorf("Path = %q, should end with .famcheck/cli.yaml", path)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if err != nil {
		t.Fatalf("Load should not error for nonexistent file: %v", err)
	}
	if cfg.Environment != "development" || cfg.HTTP.Timeout != "30s" {
		t.Errorf("Load should return defaults, got %+v", cfg)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := `
environment: staging
output: json
http:
  timeout: 10s
session:
  token: fileToken
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FAMCHECK_OUTPUT", "yaml")
	t.Setenv("FAMCHECK_BASE_URL", "http://env.test:8080")

	cfg, err := Load(path, map[string]any{"output": "table"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"file over default", cfg.Environment, "staging"},
		{"file over default (nested)", cfg.HTTP.Timeout, "10s"},
		{"flag over env", cfg.Output, "table"},
		{"env over default", cfg.BaseURL, "http://env.test:8080"},
		{"partial section keeps defaults", cfg.Session.Username, "sessionUsername"},
		{"partial section override", cfg.Session.Token, "fileToken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		want      string
	}{
		{"environment", map[string]any{"environment": "moon"}, "unknown environment"},
		{"output", map[string]any{"output": "xml"}, "invalid output format"},
		{"timeout", map[string]any{"http.timeout": "soon"}, "invalid http.timeout"},
		{"cipher", map[string]any{"security.cipher": "des"}, "invalid security.cipher"},
		{"session keys", map[string]any{"session.is_admin": "sessionUsername"}, "distinct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(filepath.Join(t.TempDir(), "none.yaml"), tt.overrides)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	os.WriteFile(path, []byte("environment: [unclosed"), 0o600)

	if _, err := Load(path, nil); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "cli.yaml")

	cfg := Default()
	cfg.Environment = "production"
	cfg.Output = OutputJSON
	cfg.Security.Cipher = string(storage.CipherChaCha20)

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0o600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Environment != "production" || loaded.Output != OutputJSON || loaded.Security.Cipher != "chacha20-poly1305" {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestStorageOptions(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/tmp/fc-data"
	cfg.Security.MasterKeyFile = "/tmp/fc.key"

	opts := cfg.StorageOptions()
	if opts.KV.InMemory || opts.KV.Dir != "/tmp/fc-data" || opts.MasterKeyFile != "/tmp/fc.key" {
		t.Errorf("on-disk options = %+v", opts)
	}

	cfg.Ephemeral = true
	opts = cfg.StorageOptions()
	if !opts.KV.InMemory || opts.MasterKeyFile != "" {
		t.Errorf("ephemeral options = %+v", opts)
	}
}

func TestValidate_EphemeralSkipsPaths(t *testing.T) {
	cfg := Default()
	cfg.DataDir = ""
	cfg.Security.MasterKeyFile = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should require data_dir when not ephemeral")
	}

	cfg.Ephemeral = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() ephemeral error = %v", err)
	}
}

func TestTLSConfig(t *testing.T) {
	cfg := Default()
	tlsCfg, err := cfg.TLSConfig()
	if err != nil || tlsCfg != nil {
		t.Errorf("TLSConfig() without ca_file = %v, %v, want nil, nil", tlsCfg, err)
	}

	cfg.HTTP.CAFile = filepath.Join(t.TempDir(), "missing.pem")
	if _, err := cfg.TLSConfig(); err == nil || !strings.Contains(err.Error(), "http.ca_file") {
		t.Errorf("TLSConfig() missing file error = %v", err)
	}
}

func TestLoad_CAFileFromEnv(t *testing.T) {
	t.Setenv("FAMCHECK_HTTP_CA_FILE", "/etc/famcheck/ca.pem")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.CAFile != "/etc/famcheck/ca.pem" {
		t.Errorf("HTTP.CAFile = %q", cfg.HTTP.CAFile)
	}
}
