// Package auth decides whether a request token is authenticated. Tokens are
// checked against the external auth server, optionally against a shared JWT
// secret, and verdicts can be cached in Redis.
package auth

import (
	"context"
	"log/slog"

	"portfolio/internal/config"
	"portfolio/internal/middleware"
	"portfolio/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Verifier reports whether token is authenticated. A non-nil error means the
// verdict could not be obtained; callers treat it as not authenticated.
type Verifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, token string) (bool, error)

// Verify calls f.
func (f VerifierFunc) Verify(ctx context.Context, token string) (bool, error) {
	return f(ctx, token)
}

type denyAll struct{}

func (denyAll) Verify(context.Context, string) (bool, error) { return false, nil }

// Deny rejects every token. It is used when no verification method is configured.
var Deny Verifier = denyAll{}

// Authenticated runs v and folds errors into a plain "not authenticated" verdict.
func Authenticated(ctx context.Context, v Verifier, token string) bool {
	if token == "" {
		observability.RecordAuthCheck("missing")
		return false
	}
	ok, err := v.Verify(ctx, token)
	switch {
	case err != nil:
		observability.RecordAuthCheck("error")
		middleware.Logger.WarnContext(ctx, "token verification failed", slog.String("error", err.Error()))
		return false
	case ok:
		observability.RecordAuthCheck("accepted")
	default:
		observability.RecordAuthCheck("rejected")
	}
	return ok
}

// Chain accepts a token when any verifier accepts it. Errors are returned only if no
// verifier accepted the token.
type Chain []Verifier

// Verify tries each verifier in order.
func (c Chain) Verify(ctx context.Context, token string) (bool, error) {
	var firstErr error
	for _, v := range c {
		ok, err := v.Verify(ctx, token)
		if ok {
			return true, nil
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return false, firstErr
}

// NewVerifier assembles the verifier configured by cfg: a local JWT check, the remote
// auth server, or both, wrapped in a Redis cache when AUTH_CACHE_TTL and a client are set.
func NewVerifier(cfg *config.Config, rdb *redis.Client) Verifier {
	var chain Chain
	if cfg.AuthJWTSecret != "" {
		chain = append(chain, NewJWTVerifier(cfg.AuthJWTSecret))
	}
	if cfg.AuthURL != "" {
		chain = append(chain, NewRemoteVerifier(cfg.AuthURL+cfg.AuthPath, cfg.AuthTimeout))
	}

	var v Verifier
	switch len(chain) {
	case 0:
		return Deny
	case 1:
		v = chain[0]
	default:
		v = chain
	}

	if cfg.AuthCacheTTL > 0 && rdb != nil {
		v = NewCachingVerifier(v, rdb, cfg.AuthCacheTTL)
	}
	return v
}
