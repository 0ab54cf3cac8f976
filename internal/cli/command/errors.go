package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/famcheck-go/internal/client/connection"
	"github.com/yndnr/famcheck-go/internal/core/domain"
)

// Exit codes.
const (
	exitFailure      = 1
	exitUsage        = 2
	exitUnauthorized = 3
	exitUnreachable  = 4
)

type operation string

const (
	opLogin    operation = "login"
	opRegister operation = "register"
	opLogout   operation = "logout"
	opWhoami   operation = "whoami"
)

// failure converts a repository error into a CLI exit error with a
// message chosen by error kind.
func failure(op operation, err error) error {
	return cli.Exit("error: "+describe(op, err), exitCode(err))
}

// describe returns the user-facing message for err.
func describe(op operation, err error) string {
	if connection.IsCanceled(err) {
		return "request canceled or timed out"
	}

	switch domain.KindOf(err) {
	case domain.KindUnauthorized:
		if op == opLogin {
			return "invalid username or password"
		}
		return "session expired or revoked, please log in again"
	case domain.KindForbidden:
		return "permission denied"
	case domain.KindConflict:
		if op == opRegister {
			return "username or email is already registered"
		}
		return "request conflicts with the current state"
	case domain.KindBadRequest:
		switch op {
		case opRegister:
			return "registration rejected, check the username, email and password"
		case opLogin:
			return "login rejected, username and password are required"
		}
		return "request rejected by the server"
	case domain.KindNotFound:
		return "endpoint not found, check --env or --base-url"
	case domain.KindServerError:
		return fmt.Sprintf("server error (HTTP %d), try again later", domain.StatusOf(err))
	case domain.KindUnexpectedStatus:
		return fmt.Sprintf("unexpected response status %d", domain.StatusOf(err))
	case domain.KindInvalidResponse, domain.KindDecodeFailure:
		return "server sent an unreadable response"
	case domain.KindTransportFailure:
		return "cannot reach the server"
	case domain.KindInvalidURL, domain.KindSerialization:
		return "internal error: " + err.Error()
	}
	return err.Error()
}

func exitCode(err error) int {
	switch domain.KindOf(err) {
	case domain.KindUnauthorized, domain.KindForbidden:
		return exitUnauthorized
	case domain.KindTransportFailure:
		return exitUnreachable
	default:
		return exitFailure
	}
}
