package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/famcheck-go/internal/core/domain"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Account username",
				Required: true,
			},
			passwordFlag(),
			passwordStdinFlag(),
		},
		Action: login,
	}
}

// RegisterCommand returns the register command.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and store the session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Account username",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "email",
				Usage:    "Account email",
				Required: true,
			},
			passwordFlag(),
			passwordStdinFlag(),
			&cli.StringFlag{
				Name:    "confirm-password",
				Usage:   "Repeat the password (with --password-stdin: the second line of stdin)",
				EnvVars: []string{"FAMCHECK_CONFIRM_PASSWORD"},
			},
		},
		Action: register,
	}
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Log out on the server and clear the local session",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Clear the local session without contacting the server",
			},
		},
		Action: logout,
	}
}

// WhoamiCommand returns the whoami command.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the account of the stored session",
		Action: whoami,
	}
}

func passwordFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "password",
		Aliases: []string{"p"},
		Usage:   "Account password",
		EnvVars: []string{"FAMCHECK_PASSWORD"},
	}
}

func passwordStdinFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "password-stdin",
		Usage: "Read the password from the first line of stdin",
	}
}

// readPassword returns the password from --password, $FAMCHECK_PASSWORD or
// stdin.
func readPassword(c *cli.Context) (string, error) {
	if c.Bool("password-stdin") {
		return readLine(bufio.NewReader(c.App.Reader), "no password on stdin")
	}
	if pw := c.String("password"); pw != "" {
		return pw, nil
	}
	return "", cli.Exit("error: password required (--password, FAMCHECK_PASSWORD or --password-stdin)", exitUsage)
}

// readRegistration returns the email and the confirmed password.
// With --password-stdin the first line is the password and the second its
// confirmation; otherwise --confirm-password must repeat --password.
func readRegistration(c *cli.Context) (email, password string, err error) {
	email = strings.TrimSpace(c.String("email"))
	if email == "" {
		return "", "", cli.Exit("error: email must not be empty", exitUsage)
	}

	var confirm string
	if c.Bool("password-stdin") {
		r := bufio.NewReader(c.App.Reader)
		if password, err = readLine(r, "no password on stdin"); err != nil {
			return "", "", err
		}
		if confirm, err = readLine(r, "no password confirmation on stdin (second line)"); err != nil {
			return "", "", err
		}
	} else {
		if password, err = readPassword(c); err != nil {
			return "", "", err
		}
		confirm = c.String("confirm-password")
		if confirm == "" {
			return "", "", cli.Exit("error: password confirmation required (--confirm-password)", exitUsage)
		}
	}

	if password != confirm {
		return "", "", cli.Exit("error: passwords do not match", exitUsage)
	}
	return email, password, nil
}

func readLine(r *bufio.Reader, missing string) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", cli.Exit("error: "+missing, exitUsage)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func login(c *cli.Context) error {
	rt := runtimeFrom(c)
	username := c.String("username")

	password, err := readPassword(c)
	if err != nil {
		return err
	}

	sessions, err := rt.Sessions()
	if err != nil {
		return err
	}

	resp, err := rt.Auth.Login(c.Context, username, password)
	if err != nil {
		return failure(opLogin, err)
	}
	if resp.Token == "" {
		return failure(opLogin, domain.ErrInvalidResponse.WithDetails("login response carries no token"))
	}

	s := domain.SessionFromLogin(username, resp)
	if err := sessions.SaveSession(c.Context, s); err != nil {
		return cli.Exit(fmt.Sprintf("error: logged in but the session could not be stored: %v", err), exitFailure)
	}

	rt.Logger.Info("logged in", "username", username, "is_admin", s.IsAdmin)
	return rt.Print(sessionView(s, false))
}

func register(c *cli.Context) error {
	rt := runtimeFrom(c)
	username := c.String("username")

	email, password, err := readRegistration(c)
	if err != nil {
		return err
	}

	sessions, err := rt.Sessions()
	if err != nil {
		return err
	}

	resp, err := rt.Auth.Register(c.Context, username, email, password)
	if err != nil {
		return failure(opRegister, err)
	}
	if resp.Token == "" {
		// Some deployments register without signing in.
		fmt.Fprintf(c.App.Writer, "registered %s, log in to continue\n", username)
		return nil
	}

	s := domain.SessionFromRegistration(username, resp)
	if err := sessions.SaveSession(c.Context, s); err != nil {
		return cli.Exit(fmt.Sprintf("error: registered but the session could not be stored: %v", err), exitFailure)
	}

	rt.Logger.Info("registered", "username", username)
	return rt.Print(sessionView(s, false))
}

func logout(c *cli.Context) error {
	rt := runtimeFrom(c)

	sessions, err := rt.Sessions()
	if err != nil {
		return err
	}

	s, ok := sessions.GetSession(c.Context)
	if !ok {
		// Nothing usable is stored; drop any leftovers of a partial session.
		if err := sessions.ClearSession(c.Context); err != nil {
			return cli.Exit(fmt.Sprintf("error: %v", err), exitFailure)
		}
		fmt.Fprintln(c.App.Writer, "not logged in")
		return nil
	}

	if c.Bool("local") {
		if err := sessions.ClearSession(c.Context); err != nil {
			return cli.Exit(fmt.Sprintf("error: %v", err), exitFailure)
		}
		rt.Logger.Info("local session cleared", "username", s.Username)
		fmt.Fprintln(c.App.Writer, "logged out locally")
		return nil
	}

	resp, err := rt.Auth.Logout(c.Context, s.Token)
	if err != nil && !canDropSession(err) {
		return failure(opLogout, err)
	}

	if cerr := sessions.ClearSession(context.WithoutCancel(c.Context)); cerr != nil {
		return cli.Exit(fmt.Sprintf("error: %v", cerr), exitFailure)
	}

	switch {
	case err != nil:
		rt.Logger.Warn("server logout failed, local session cleared", "error", err)
		fmt.Fprintf(c.App.Writer, "logged out locally (%s)\n", describe(opLogout, err))
	case resp.Message != "":
		fmt.Fprintf(c.App.Writer, "logged out: %s\n", resp.Message)
	default:
		fmt.Fprintln(c.App.Writer, "logged out")
	}
	return nil
}

func whoami(c *cli.Context) error {
	rt := runtimeFrom(c)

	sessions, err := rt.Sessions()
	if err != nil {
		return err
	}

	s, ok := sessions.GetSession(c.Context)
	if !ok {
		return cli.Exit("error: not logged in", exitUnauthorized)
	}

	info, err := rt.Auth.UserInfo(c.Context, s.Token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			if cerr := sessions.ClearSession(context.WithoutCancel(c.Context)); cerr != nil {
				rt.Logger.Error("clear invalidated session failed", "error", cerr)
			}
		}
		return failure(opWhoami, err)
	}

	return rt.Print(userView{
		Username: info.Username,
		Email:    info.Email,
		Role:     info.Role,
		IsAdmin:  domain.IsAdminRole(info.Role),
	})
}

// canDropSession reports whether a failed server logout still means the
// token is unusable, so the local session may go.
func canDropSession(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}

type userView struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}
