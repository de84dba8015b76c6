package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/benchwrap/benchwrap/internal/benchsdk"
	"github.com/benchwrap/benchwrap/internal/credstore"
	"github.com/benchwrap/benchwrap/internal/utils"
)

// persist stores the rotated refresh token and hands back the access token.
// A store failure aborts: without it the next run could not authenticate.
func persist(store *credstore.Store, tokens *benchsdk.AuthTokens, via string) Result {
	if err := store.Save(tokens.RefreshToken); err != nil {
		return aborted(fmt.Errorf("%s: save refresh token: %w", via, err))
	}
	slog.Debug("auth", "via", via, "refresh", utils.MaskSecret(tokens.RefreshToken))
	return acquired(tokens.AccessToken)
}

// RegisterStrategy creates an account when no credential has been stored yet.
type RegisterStrategy struct {
	API      TokenAPI
	Store    *credstore.Store
	Prompter Prompter
	// Force registers even when a credential exists (used by `register`)
	Force bool
}

func (s *RegisterStrategy) Name() string { return "register" }

func (s *RegisterStrategy) Acquire(ctx context.Context) Result {
	if !s.Force && s.Store.IsRegistered() {
		return skipped()
	}

	creds, err := s.Prompter.Credentials(ctx, true)
	if err != nil {
		return aborted(fmt.Errorf("registration failed: %w", err))
	}

	tokens, err := s.API.Register(ctx, creds.Username, creds.Password)
	if err != nil {
		return aborted(fmt.Errorf("registration failed: %w", err))
	}

	return persist(s.Store, tokens, s.Name())
}

// RefreshStrategy silently exchanges the stored refresh token. Its failures
// are not fatal; the chain moves on to an interactive login.
type RefreshStrategy struct {
	API   TokenAPI
	Store *credstore.Store
}

func (s *RefreshStrategy) Name() string { return "refresh" }

func (s *RefreshStrategy) Acquire(ctx context.Context) Result {
	if !s.Store.IsRegistered() {
		return skipped()
	}

	refreshID, err := s.Store.Load()
	if err != nil {
		return failed(fmt.Errorf("token refresh failed: %w", err))
	}

	tokens, err := s.API.Refresh(ctx, refreshID)
	if err != nil {
		return failed(fmt.Errorf("token refresh failed: %w", err))
	}

	return persist(s.Store, tokens, s.Name())
}

// PasswordStrategy logs in with username and password.
type PasswordStrategy struct {
	API      TokenAPI
	Store    *credstore.Store
	Prompter Prompter
}

func (s *PasswordStrategy) Name() string { return "password" }

func (s *PasswordStrategy) Acquire(ctx context.Context) Result {
	creds, err := s.Prompter.Credentials(ctx, false)
	if err != nil {
		return aborted(fmt.Errorf("login failed: %w", err))
	}

	tokens, err := s.API.PasswordLogin(ctx, creds.Username, creds.Password)
	if err != nil {
		return aborted(fmt.Errorf("login failed: %w", err))
	}

	return persist(s.Store, tokens, s.Name())
}
