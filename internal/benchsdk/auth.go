package benchsdk

import (
	"context"
	"fmt"
	"net/http"
)

const (
	authRegister = "/auth/register"
	authRefresh  = "/auth/refresh"
	authPassword = "/auth/password"
)

// Register creates an account. The server answers 201 on success.
func (c *Client) Register(ctx context.Context, username, password string) (*AuthTokens, error) {
	if username == "" || password == "" {
		return nil, ErrNoCredentials
	}

	var tokens AuthTokens
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(&RegisterRequest{
			Username: username,
			Password: password,
		}).
		SetSuccessResult(&tokens).
		Post(authRegister)

	if err := handleAPIError(resp, err, "register", http.StatusCreated); err != nil {
		return nil, err
	}

	return checkTokens(&tokens, "register")
}

// Refresh exchanges a refresh id for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshID string) (*AuthTokens, error) {
	if refreshID == "" {
		return nil, ErrNoRefreshToken
	}

	var tokens AuthTokens
	resp, err := c.api.R().
		SetContext(ctx).
		SetQueryParam("rid", refreshID).
		SetSuccessResult(&tokens).
		Post(authRefresh)

	if err := handleAPIError(resp, err, "refresh", http.StatusOK); err != nil {
		return nil, err
	}

	return checkTokens(&tokens, "refresh")
}

// PasswordLogin authenticates with username and password.
func (c *Client) PasswordLogin(ctx context.Context, username, password string) (*AuthTokens, error) {
	if username == "" || password == "" {
		return nil, ErrNoCredentials
	}

	var tokens AuthTokens
	resp, err := c.api.R().
		SetContext(ctx).
		SetQueryParam("u", username).
		SetQueryParam("p", password).
		SetSuccessResult(&tokens).
		Post(authPassword)

	if err := handleAPIError(resp, err, "login", http.StatusOK); err != nil {
		return nil, err
	}

	return checkTokens(&tokens, "login")
}

func checkTokens(tokens *AuthTokens, operation string) (*AuthTokens, error) {
	if !tokens.valid() {
		return nil, fmt.Errorf("%s: %w: access or refresh token missing", operation, ErrMalformedResponse)
	}
	return tokens, nil
}
