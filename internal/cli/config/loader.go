package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/famcheck-go/internal/client/environment"
	"github.com/yndnr/famcheck-go/internal/infra/confloader"
	"github.com/yndnr/famcheck-go/internal/infra/tlsroots"
	"github.com/yndnr/famcheck-go/internal/storage"
)

// Load loads CLI configuration.
//
// Sources, later wins: defaults, the YAML file at path (a missing file is
// not an error), FAMCHECK_* environment variables, then overrides (flag
// values keyed by dotted config path, e.g. "http.timeout").
func Load(path string, overrides map[string]any) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	defaults, err := toMap(Default())
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}

	l := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithOptionalFile(),
		confloader.WithDefaults(defaults),
	)

	cfg := &CLIConfig{}
	if err := l.Load(cfg); err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		if err := l.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := l.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks field values.
func (c *CLIConfig) Validate() error {
	var errs []error

	if _, err := environment.Parse(c.Environment); err != nil {
		errs = append(errs, err)
	}

	switch c.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		errs = append(errs, fmt.Errorf("invalid output format %q (want table, json or yaml)", c.Output))
	}

	if d, err := time.ParseDuration(c.HTTP.Timeout); err != nil || d <= 0 {
		errs = append(errs, fmt.Errorf("invalid http.timeout %q", c.HTTP.Timeout))
	}

	switch storage.CipherType(c.Security.Cipher) {
	case storage.CipherAuto, storage.CipherAESGCM, storage.CipherChaCha20:
	default:
		errs = append(errs, fmt.Errorf("invalid security.cipher %q", c.Security.Cipher))
	}

	if !c.Ephemeral {
		if c.DataDir == "" {
			errs = append(errs, errors.New("data_dir is required"))
		}
		if c.Security.MasterKeyFile == "" {
			errs = append(errs, errors.New("security.master_key_file is required"))
		}
	}

	if err := c.Session.Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Timeout returns the parsed HTTP timeout. Call after Validate.
func (c *CLIConfig) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.HTTP.Timeout)
	return d
}

// TLSConfig returns the client TLS config, or nil when no CA bundle is set.
func (c *CLIConfig) TLSConfig() (*tls.Config, error) {
	cfg, err := tlsroots.ClientConfig(c.HTTP.CAFile)
	if err != nil {
		return nil, fmt.Errorf("load http.ca_file: %w", err)
	}
	return cfg, nil
}

// StorageOptions returns the storage options for this configuration.
func (c *CLIConfig) StorageOptions() storage.Options {
	if c.Ephemeral {
		return storage.Options{
			KV:     storage.InMemoryKVConfig(),
			Cipher: storage.CipherType(c.Security.Cipher),
		}
	}
	return storage.Options{
		KV:            storage.DefaultKVConfig(c.DataDir),
		MasterKeyFile: c.Security.MasterKeyFile,
		Cipher:        storage.CipherType(c.Security.Cipher),
	}
}

// toMap round-trips v through YAML to get a nested map keyed like the
// koanf tags (both tag sets use the same names).
func toMap(v any) (map[string]any, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
