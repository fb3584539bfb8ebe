package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"portfolio/internal/cache"
	"portfolio/internal/middleware"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

// CachingVerifier remembers verdicts in Redis. Tokens are stored only as digests.
// Rejections are kept for at most cache.AuthNegativeTTL so a freshly issued token
// is not locked out for long.
type CachingVerifier struct {
	next Verifier
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCachingVerifier wraps next with a Redis cache.
func NewCachingVerifier(next Verifier, rdb *redis.Client, ttl time.Duration) *CachingVerifier {
	return &CachingVerifier{next: next, rdb: rdb, ttl: ttl}
}

func tokenKey(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return cache.AuthKey(hex.EncodeToString(sum[:]))
}

func (v *CachingVerifier) Verify(ctx context.Context, token string) (bool, error) {
	key := tokenKey(token)

	cached, err := v.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached == "1", nil
	case !errors.Is(err, redis.Nil):
		middleware.Logger.WarnContext(ctx, "auth cache read failed", slog.String("error", err.Error()))
	}

	ok, err := v.next.Verify(ctx, token)
	if err != nil {
		return false, err
	}

	value, ttl := "0", min(v.ttl, cache.AuthNegativeTTL)
	if ok {
		value, ttl = "1", v.ttl
	}
	if err := v.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "auth cache write failed", slog.String("error", err.Error()))
	}
	return ok, nil
}
