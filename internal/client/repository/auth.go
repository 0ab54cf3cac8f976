// Package repository assembles the auth endpoint calls.
package repository

import (
	"context"
	"net/http"
	"strings"

	"github.com/yndnr/famcheck-go/internal/client/connection"
	"github.com/yndnr/famcheck-go/internal/client/request"
	"github.com/yndnr/famcheck-go/internal/core/domain"
)

// Auth endpoint paths.
const (
	PathLogin    = "/api/auth/login"
	PathRegister = "/api/auth/register"
	PathLogout   = "/api/auth/logout"
	PathUserInfo = "/api/auth/userinfo"
)

// BearerScheme is the Authorization scheme for authenticated calls.
const BearerScheme = "Bearer "

// AuthRepository is the auth API as seen by callers.
type AuthRepository interface {
	Login(ctx context.Context, username, password string) (domain.LoginResponse, error)
	Register(ctx context.Context, username, email, password string) (domain.RegistrationResponse, error)
	Logout(ctx context.Context, token string) (domain.LogoutResponse, error)
	UserInfo(ctx context.Context, token string) (domain.UserInfoResponse, error)
}

// Auth implements AuthRepository over a connection.Doer.
// Its fields are set once at construction; it is safe for concurrent use.
type Auth struct {
	baseURL string
	client  connection.Doer
}

// NewAuth creates an auth repository for baseURL.
func NewAuth(baseURL string, client connection.Doer) *Auth {
	return &Auth{
		baseURL: baseURL,
		client:  client,
	}
}

// Login authenticates with username and password.
func (a *Auth) Login(ctx context.Context, username, password string) (domain.LoginResponse, error) {
	d, err := request.New(a.baseURL, PathLogin).
		Method(http.MethodPost).
		JSONBody(domain.LoginRequest{Username: username, Password: password}).
		Build()
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return connection.PerformRequest[domain.LoginResponse](ctx, a.client, d)
}

// Register creates an account.
func (a *Auth) Register(ctx context.Context, username, email, password string) (domain.RegistrationResponse, error) {
	d, err := request.New(a.baseURL, PathRegister).
		Method(http.MethodPost).
		JSONBody(domain.RegistrationRequest{Username: username, Email: email, Password: password}).
		Build()
	if err != nil {
		return domain.RegistrationResponse{}, err
	}
	return connection.PerformRequest[domain.RegistrationResponse](ctx, a.client, d)
}

// Logout invalidates token on the server.
func (a *Auth) Logout(ctx context.Context, token string) (domain.LogoutResponse, error) {
	d, err := request.New(a.baseURL, PathLogout).
		Method(http.MethodPost).
		Authorization(Bearer(token)).
		Build()
	if err != nil {
		return domain.LogoutResponse{}, err
	}
	return connection.PerformRequest[domain.LogoutResponse](ctx, a.client, d)
}

// UserInfo fetches the profile of the token's owner.
func (a *Auth) UserInfo(ctx context.Context, token string) (domain.UserInfoResponse, error) {
	d, err := request.New(a.baseURL, PathUserInfo).
		Method(http.MethodGet).
		Authorization(Bearer(token)).
		Build()
	if err != nil {
		return domain.UserInfoResponse{}, err
	}
	return connection.PerformRequest[domain.UserInfoResponse](ctx, a.client, d)
}

// Bearer formats token as a bearer credential. A token that already
// carries the scheme is returned unchanged.
func Bearer(token string) string {
	if len(token) >= len(BearerScheme) && strings.EqualFold(token[:len(BearerScheme)], BearerScheme) {
		return token
	}
	return BearerScheme + token
}

var _ AuthRepository = (*Auth)(nil)
