package command

import (
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/famcheck-go/internal/cli/config"
	"github.com/yndnr/famcheck-go/internal/cli/output"
	"github.com/yndnr/famcheck-go/internal/client/connection"
	"github.com/yndnr/famcheck-go/internal/client/environment"
	"github.com/yndnr/famcheck-go/internal/client/repository"
	"github.com/yndnr/famcheck-go/internal/infra/buildinfo"
	"github.com/yndnr/famcheck-go/internal/session"
	"github.com/yndnr/famcheck-go/internal/storage"
	"github.com/yndnr/famcheck-go/internal/telemetry/logger"
	"github.com/yndnr/famcheck-go/internal/telemetry/metric"
)

const runtimeKey = "runtime"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "famcheck-cli",
		Usage:   "Family checklist account and session tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			RegisterCommand(),
			LogoutCommand(),
			WhoamiCommand(),
			SessionCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: setup,
		After:  teardown,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file",
			EnvVars: []string{"FAMCHECK_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "env",
			Aliases: []string{"e"},
			Usage:   "Backend environment: development, staging, production",
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "Override the environment's base URL",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Directory of the local session store",
		},
		&cli.BoolFlag{
			Name:  "ephemeral",
			Usage: "Keep the session in memory only (nothing is written to disk)",
		},
		&cli.StringFlag{
			Name:  "timeout",
			Usage: "HTTP request timeout (e.g. 10s)",
		},
		&cli.StringFlag{
			Name:  "ca-file",
			Usage: "Extra CA bundle (PEM file or directory) to trust",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "metrics",
			Usage: "Print client metrics to stderr when the command finishes",
		},
	}
}

// flagOverrides maps explicitly set global flags to config keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	for flag, key := range map[string]string{
		"env":      "environment",
		"base-url": "base_url",
		"output":   "output",
		"data-dir": "data_dir",
		"timeout":  "http.timeout",
		"ca-file":  "http.ca_file",
	} {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	if c.IsSet("ephemeral") {
		overrides["ephemeral"] = c.Bool("ephemeral")
	}
	if c.Bool("verbose") {
		overrides["log.level"] = "debug"
	}
	return overrides
}

// Runtime holds what commands share during one invocation.
type Runtime struct {
	Config     *config.CLIConfig
	ConfigPath string
	BaseURL    string
	Logger     logger.Logger
	Registry   *prometheus.Registry
	Auth       repository.AuthRepository

	out       io.Writer
	formatter output.Formatter

	mu       sync.Mutex
	store    *storage.Store
	sessions *session.Manager
}

func setup(c *cli.Context) error {
	cfgPath := c.String("config")
	cfg, err := config.Load(cfgPath, flagOverrides(c))
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), exitUsage)
	}

	logCfg := cfg.Log
	logCfg.Output = c.App.ErrWriter
	log, err := logger.New(logCfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), exitUsage)
	}
	logger.SetDefault(log)
	c.Context = logger.WithLogger(c.Context, log)

	env, _ := environment.Parse(cfg.Environment)
	baseURL, err := environment.NewResolver(env, cfg.BaseURL).BaseURL()
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), exitUsage)
	}

	format, _ := output.ParseFormat(cfg.Output)

	tlsCfg, err := cfg.TLSConfig()
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), exitUsage)
	}

	reg := prometheus.NewRegistry()
	client := connection.NewClient(
		connection.WithTLSConfig(tlsCfg),
		connection.WithTimeout(cfg.Timeout()),
		connection.WithUserAgent(cfg.HTTP.UserAgent),
		connection.WithMetrics(metric.NewClientMetrics(reg)),
	)

	rt := &Runtime{
		Config:     cfg,
		ConfigPath: cfgPath,
		BaseURL:    baseURL,
		Logger:     log,
		Registry:   reg,
		Auth:       repository.NewAuth(baseURL, client),
		out:        c.App.Writer,
		formatter:  output.NewFormatter(format),
	}
	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[runtimeKey] = rt

	log.Debug("cli ready", "environment", env, "base_url", baseURL, "config", cfgPath)
	return nil
}

func teardown(c *cli.Context) error {
	rt := runtimeFrom(c)
	if rt == nil {
		return nil
	}
	if c.Bool("metrics") {
		if err := writeMetrics(c.App.ErrWriter, rt.Registry); err != nil {
			rt.Logger.Warn("metrics dump failed", "error", err)
		}
	}
	return rt.Close()
}

func runtimeFrom(c *cli.Context) *Runtime {
	rt, _ := c.App.Metadata[runtimeKey].(*Runtime)
	return rt
}

// Sessions opens the local store on first use and returns the session manager.
func (r *Runtime) Sessions() (*session.Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessions != nil {
		return r.sessions, nil
	}

	store, err := storage.Open(r.Config.StorageOptions(), r.Logger)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: open session store: %v", err), exitFailure)
	}
	if err := store.Engine().RegisterMetrics(r.Registry); err != nil {
		r.Logger.Warn("storage metrics unavailable", "error", err)
	}

	r.store = store
	r.sessions = session.NewManager(store, r.Config.Session, r.Logger)
	return r.sessions, nil
}

// Store returns the opened local store.
func (r *Runtime) Store() (*storage.Store, error) {
	if _, err := r.Sessions(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store, nil
}

// Print renders data in the configured output format.
func (r *Runtime) Print(data any) error {
	return r.formatter.Format(r.out, data)
}

// Close releases the session store, if it was opened.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store, r.sessions = nil, nil
	return err
}
