package backend

import (
	"context"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// TokenSource supplies the bearer token attached to every request and
// exchanges it for a fresh one when the backend rejects it.
type TokenSource interface {
	// Token returns the current access token.
	Token(ctx context.Context) (string, error)

	// Refresh exchanges the current token for a fresh one after a 401.
	Refresh(ctx context.Context) (string, error)
}

// tokenExpired inspects a JWT's exp claim without verifying the signature.
// Verification is the server's job; the client only uses the claim to refresh
// proactively instead of burning a request on a guaranteed 401.
// Opaque (non-JWT) tokens are never treated as expired.
func tokenExpired(token string, leeway time.Duration) bool {
	parsed, err := jwt.ParseString(token, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return false
	}
	exp := parsed.Expiration()
	if exp.IsZero() {
		return false
	}
	return time.Now().Add(leeway).After(exp)
}

// StaticTokenSource returns a TokenSource that always yields the given token
// and cannot refresh. Useful for tests and short-lived tooling.
func StaticTokenSource(token string) TokenSource {
	return staticTokenSource(token)
}

type staticTokenSource string

func (s staticTokenSource) Token(ctx context.Context) (string, error)   { return string(s), nil }
func (s staticTokenSource) Refresh(ctx context.Context) (string, error) { return string(s), nil }
