// Package auth turns the stored refresh token, or interactive credentials,
// into a short-lived access token for one CLI session.
//
// Acquisition is an ordered chain of strategies. For a sync the chain is
// register (only when nothing is stored), then a silent refresh, then an
// interactive password login. The first strategy that acquires a token wins;
// a strategy that aborts ends the chain. The access token is never persisted.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/benchwrap/benchwrap/internal/credstore"
)

type Client struct {
	store      *credstore.Store
	api        TokenAPI
	prompter   Prompter
	strategies []Strategy
}

func NewClient(api TokenAPI, store *credstore.Store, prompter Prompter) *Client {
	return &Client{
		store:    store,
		api:      api,
		prompter: prompter,
		strategies: []Strategy{
			&RegisterStrategy{API: api, Store: store, Prompter: prompter},
			&RefreshStrategy{API: api, Store: store},
			&PasswordStrategy{API: api, Store: store, Prompter: prompter},
		},
	}
}

// AccessToken runs the default chain.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	return c.run(ctx, c.strategies...)
}

// Register always creates a new account, replacing any stored credential.
func (c *Client) Register(ctx context.Context) (string, error) {
	return c.run(ctx, &RegisterStrategy{API: c.api, Store: c.store, Prompter: c.prompter, Force: true})
}

// Login always prompts for username and password.
func (c *Client) Login(ctx context.Context) (string, error) {
	return c.run(ctx, &PasswordStrategy{API: c.api, Store: c.store, Prompter: c.prompter})
}

// Refresh only tries the stored credential.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	return c.run(ctx, &RefreshStrategy{API: c.api, Store: c.store})
}

// Logout forgets the stored credential.
func (c *Client) Logout() error {
	return c.store.Clear()
}

func (c *Client) IsRegistered() bool {
	return c.store.IsRegistered()
}

func (c *Client) run(ctx context.Context, strategies ...Strategy) (string, error) {
	if err := c.store.Ensure(); err != nil {
		return "", err
	}

	var lastErr error
	for _, s := range strategies {
		res := s.Acquire(ctx)
		slog.Debug("auth strategy", "name", s.Name(), "outcome", res.Outcome, "error", res.Err)

		switch res.Outcome {
		case Acquired:
			return res.AccessToken, nil
		case Aborted:
			return "", res.Err
		case Failed:
			lastErr = res.Err
			slog.Info("auth strategy failed, trying next", "name", s.Name(), "error", res.Err)
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: %w", ErrNotAuthenticated, lastErr)
	}
	return "", ErrNotAuthenticated
}
