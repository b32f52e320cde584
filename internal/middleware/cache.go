// AngelaMos | 2026
// cache.go

package middleware

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// PrincipalCache keeps recently loaded identities in process so every
// request does not hit the users table. Entries expire after ttl and are
// dropped explicitly whenever membership or admin status changes. A nil
// cache is valid and caches nothing.
type PrincipalCache struct {
	c   *ristretto.Cache[string, *Identity]
	ttl time.Duration
}

func NewPrincipalCache(maxEntries int64, ttl time.Duration) (*PrincipalCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, *Identity]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create principal cache: %w", err)
	}
	return &PrincipalCache{c: c, ttl: ttl}, nil
}

func (p *PrincipalCache) Get(userID string) (*Identity, bool) {
	if p == nil {
		return nil, false
	}
	return p.c.Get(userID)
}

func (p *PrincipalCache) Set(userID string, identity *Identity) {
	if p == nil {
		return
	}
	p.c.SetWithTTL(userID, identity, 1, p.ttl)
	p.c.Wait()
}

func (p *PrincipalCache) Invalidate(userIDs ...string) {
	if p == nil {
		return
	}
	for _, id := range userIDs {
		p.c.Del(id)
	}
}

func (p *PrincipalCache) Close() {
	if p == nil {
		return
	}
	p.c.Close()
}
