package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"hbnb_web/internal/adapters/observability"
)

// MemoryGuard is a process-local domain.SubmitGuard.
type MemoryGuard struct {
	mu      sync.Mutex
	now     func() time.Time
	pending map[string]time.Time // key -> lock expiry
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{now: time.Now, pending: map[string]time.Time{}}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if exp, ok := g.pending[key]; ok && now.Before(exp) {
		observability.ObserveGuard("memory", "busy")
		return false, nil
	}
	g.pending[key] = now.Add(ttl)
	observability.ObserveGuard("memory", "acquired")
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, key)
	observability.ObserveGuard("memory", "released")
	return nil
}

// guardKey namespaces a lock by action and a digest of the identity, so raw
// tokens and emails never reach the guard backend.
func guardKey(action, identity string) string {
	sum := sha256.Sum256([]byte(identity))
	return "submit:" + action + ":" + hex.EncodeToString(sum[:12])
}
