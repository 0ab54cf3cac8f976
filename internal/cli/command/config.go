package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/famcheck-go/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:  "init",
				Usage: "Write the effective configuration to the config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
		},
	}
}

type configView struct {
	File    string            `json:"file"`
	BaseURL string            `json:"resolved_base_url"`
	Config  *config.CLIConfig `json:"config"`
}

func configShow(c *cli.Context) error {
	rt := runtimeFrom(c)
	return rt.Print(configView{
		File:    rt.ConfigPath,
		BaseURL: rt.BaseURL,
		Config:  rt.Config,
	})
}

func configInit(c *cli.Context) error {
	rt := runtimeFrom(c)

	if _, err := os.Stat(rt.ConfigPath); err == nil && !c.Bool("force") {
		return cli.Exit(fmt.Sprintf("error: %s already exists (use --force to overwrite)", rt.ConfigPath), exitUsage)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cli.Exit(fmt.Sprintf("error: %v", err), exitFailure)
	}

	if err := config.Save(rt.Config, rt.ConfigPath); err != nil {
		return cli.Exit(fmt.Sprintf("error: write config: %v", err), exitFailure)
	}

	fmt.Fprintf(c.App.Writer, "wrote %s\n", rt.ConfigPath)
	return nil
}
