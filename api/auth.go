package api

import (
	"context"
	"net/http"

	"github.com/babakneza/shopsession"
)

// AuthClient implements [shopsession.AuthAPI] against the auth service.
type AuthClient struct {
	*Client
}

// NewAuthClient wraps a base client with the auth endpoints.
func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{Client: c}
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (c *AuthClient) Login(ctx context.Context, creds shopsession.Credentials) (*shopsession.TokenResponse, error) {
	var out shopsession.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{
		Email:      creds.Email,
		Password:   creds.Password,
		RememberMe: creds.RememberMe,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AuthClient) Register(ctx context.Context, reg shopsession.Registration) (*shopsession.TokenResponse, error) {
	var out shopsession.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", "", registerRequest{
		Email:     reg.Email,
		Password:  reg.Password,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*shopsession.TokenResponse, error) {
	var out shopsession.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/refresh", "", refreshRequest{RefreshToken: refreshToken}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AuthClient) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", "", refreshRequest{RefreshToken: refreshToken}, nil)
}

func (c *AuthClient) CurrentUser(ctx context.Context, accessToken string) (*shopsession.User, error) {
	var out shopsession.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AuthClient) UpdateCurrentUser(ctx context.Context, accessToken string, patch shopsession.ProfilePatch) (*shopsession.User, error) {
	var out shopsession.User
	if err := c.do(ctx, http.MethodPatch, "/auth/me", accessToken, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
