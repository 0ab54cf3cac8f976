package config

import (
	"os"
	"path/filepath"

	"github.com/yndnr/famcheck-go/internal/client/environment"
	"github.com/yndnr/famcheck-go/internal/session"
	"github.com/yndnr/famcheck-go/internal/telemetry/logger"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// CLIConfig is the configuration for famcheck-cli.
type CLIConfig struct {
	// Environment selects the backend (development, staging, production).
	Environment string `koanf:"environment" yaml:"environment" json:"environment"`

	// BaseURL overrides the environment's base URL when set.
	BaseURL string `koanf:"base_url" yaml:"base_url" json:"base_url"`

	// Output is the default output format (table, json, yaml).
	Output string `koanf:"output" yaml:"output" json:"output"`

	// DataDir holds the local session database.
	DataDir string `koanf:"data_dir" yaml:"data_dir" json:"data_dir"`

	// Ephemeral keeps the session in memory only.
	Ephemeral bool `koanf:"ephemeral" yaml:"ephemeral" json:"ephemeral"`

	HTTP     HTTPConfig     `koanf:"http" yaml:"http" json:"http"`
	Security SecurityConfig `koanf:"security" yaml:"security" json:"security"`
	Session  session.Keys   `koanf:"session" yaml:"session" json:"session"`
	Log      logger.Config  `koanf:"log" yaml:"log" json:"log"`
}

// HTTPConfig configures the network client.
type HTTPConfig struct {
	// Timeout is the per-request timeout (Go duration, e.g. "30s").
	Timeout   string `koanf:"timeout" yaml:"timeout" json:"timeout"`
	UserAgent string `koanf:"user_agent" yaml:"user_agent" json:"user_agent"`
	// CAFile is an extra PEM bundle (file or directory) trusted on top of
	// the system roots.
	CAFile string `koanf:"ca_file" yaml:"ca_file" json:"ca_file"`
}

// SecurityConfig configures the encrypted session store.
type SecurityConfig struct {
	// MasterKeyFile holds the 32-byte key; created on first use.
	MasterKeyFile string `koanf:"master_key_file" yaml:"master_key_file" json:"master_key_file"`

	// Cipher forces "aes-gcm" or "chacha20-poly1305"; empty picks per platform.
	Cipher string `koanf:"cipher" yaml:"cipher" json:"cipher"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	home := homeDir()
	return &CLIConfig{
		Environment: string(environment.Default),
		Output:      OutputTable,
		DataDir:     filepath.Join(home, ".famcheck", "data"),
		HTTP: HTTPConfig{
			Timeout:   "30s",
			UserAgent: "famcheck-cli/1.0",
		},
		Security: SecurityConfig{
			MasterKeyFile: filepath.Join(home, ".famcheck", "master.key"),
		},
		Session: session.DefaultKeys(),
		Log: logger.Config{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ".famcheck", "cli.yaml")
}

func homeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
