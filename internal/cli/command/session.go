package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/famcheck-go/internal/core/domain"
)

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Inspect the locally stored session",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the stored session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "show-token",
						Usage: "Print the full token instead of a masked hint",
					},
				},
				Action: sessionShow,
			},
			{
				Name:  "clear",
				Usage: "Delete the stored session without contacting the server",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Also wipe every encrypted entry (e.g. tokens saved under earlier session keys)",
					},
				},
				Action: sessionClear,
			},
		},
	}
}

func sessionShow(c *cli.Context) error {
	rt := runtimeFrom(c)

	sessions, err := rt.Sessions()
	if err != nil {
		return err
	}

	s, ok := sessions.GetSession(c.Context)
	if !ok {
		return cli.Exit("error: not logged in", exitUnauthorized)
	}
	return rt.Print(sessionView(s, c.Bool("show-token")))
}

func sessionClear(c *cli.Context) error {
	rt := runtimeFrom(c)

	sessions, err := rt.Sessions()
	if err != nil {
		return err
	}
	if err := sessions.ClearSession(c.Context); err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), exitFailure)
	}

	if c.Bool("all") {
		store, err := rt.Store()
		if err != nil {
			return err
		}
		if err := store.ClearAllSecure(c.Context); err != nil {
			return cli.Exit(fmt.Sprintf("error: %v", err), exitFailure)
		}
		fmt.Fprintln(c.App.Writer, "session and encrypted store cleared")
		return nil
	}

	fmt.Fprintln(c.App.Writer, "session cleared")
	return nil
}

type storedSession struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	Token    string `json:"token"`
}

func sessionView(s domain.Session, reveal bool) storedSession {
	token := s.Token
	if !reveal {
		token = maskToken(token)
	}
	return storedSession{Username: s.Username, IsAdmin: s.IsAdmin, Token: token}
}

// maskToken keeps a short hint of the token.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
