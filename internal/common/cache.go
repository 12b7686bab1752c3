package common

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache holds values resolved from bearer tokens. Entries are keyed by the
// SHA-256 digest of the token, never the token itself.
type Cache struct {
	items *cache.Cache
}

func NewCache(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{items: cache.New(ttl, cleanupInterval)}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) Remember(token string, value any) {
	c.items.Set(tokenKey(token), value, cache.DefaultExpiration)
}

func (c *Cache) Lookup(token string) (any, bool) {
	return c.items.Get(tokenKey(token))
}

func (c *Cache) Forget(token string) {
	c.items.Delete(tokenKey(token))
}

func (c *Cache) Len() int {
	return c.items.ItemCount()
}
