package auth

import (
	"context"
	"errors"

	"github.com/benchwrap/benchwrap/internal/benchsdk"
)

var (
	ErrPasswordMismatch = errors.New("auth: passwords do not match")
	ErrNotAuthenticated = errors.New("auth: no strategy produced an access token")
)

// Outcome tags what a strategy did with its turn in the chain.
type Outcome int

const (
	// Skipped means the strategy did not apply (e.g. refresh without a stored token).
	Skipped Outcome = iota
	// Acquired carries an access token; the chain stops.
	Acquired
	// Failed lets the next strategy try.
	Failed
	// Aborted stops the chain with Err.
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Acquired:
		return "acquired"
	case Failed:
		return "failed"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

type Result struct {
	Outcome     Outcome
	AccessToken string
	Err         error
}

func skipped() Result              { return Result{Outcome: Skipped} }
func acquired(token string) Result { return Result{Outcome: Acquired, AccessToken: token} }
func failed(err error) Result      { return Result{Outcome: Failed, Err: err} }
func aborted(err error) Result     { return Result{Outcome: Aborted, Err: err} }

// Strategy is one way of obtaining an access token.
type Strategy interface {
	Name() string
	Acquire(ctx context.Context) Result
}

type Credentials struct {
	Username string
	Password string
}

// Prompter asks the operator for credentials. With confirm set the password
// is asked twice and a mismatch is reported as ErrPasswordMismatch.
type Prompter interface {
	Credentials(ctx context.Context, confirm bool) (*Credentials, error)
}

// TokenAPI is the subset of the SDK the strategies need.
type TokenAPI interface {
	Register(ctx context.Context, username, password string) (*benchsdk.AuthTokens, error)
	Refresh(ctx context.Context, refreshID string) (*benchsdk.AuthTokens, error)
	PasswordLogin(ctx context.Context, username, password string) (*benchsdk.AuthTokens, error)
}

var _ TokenAPI = (*benchsdk.Client)(nil)
