package cache

import (
	"fmt"
	"time"
)

const (
	AuthKeyPrefix = "auth:token:%s"
)

const (
	// AuthNegativeTTL bounds how long a rejected token is remembered.
	AuthNegativeTTL = 30 * time.Second
)

// AuthKey returns the key under which the verdict for a token digest is stored.
func AuthKey(digest string) string {
	return fmt.Sprintf(AuthKeyPrefix, digest)
}
