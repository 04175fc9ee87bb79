// Package session persists the per-tab listing cache of storefront view
// sessions. Every backend applies a write only when it carries a newer
// generation than the stored slot, so concurrent fetches for different tabs
// never conflict and a stale fetch never replaces a newer one.
package session

import (
	"context"
	"errors"
	"time"

	"spice-storefront/internal/resolver"
)

// MaxSlotsPerSession bounds how many selectors the in-process store keeps for
// one session. The oldest slot is evicted to make room.
const MaxSlotsPerSession = 32

// ErrInvalidSession is returned for an empty session identifier.
var ErrInvalidSession = errors.New("session id is required")

// Store persists tab slots keyed by session and selector.
type Store interface {
	// Load returns every stored slot of a session. Unknown sessions yield an
	// empty map.
	Load(ctx context.Context, sessionID string) (map[string]resolver.Slot, error)

	// Save stores slot under selector if its Seq is newer than the stored
	// one. Reports whether the write was applied.
	Save(ctx context.Context, sessionID, selector string, slot resolver.Slot) (bool, error)

	// Prune removes slots fetched before the given time and reports how many
	// were removed.
	Prune(ctx context.Context, before time.Time) (int, error)

	// Close releases the store's resources.
	Close() error
}

func validate(sessionID string) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	return nil
}
