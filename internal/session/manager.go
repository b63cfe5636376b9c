package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/shloka/internal/bookmarks"
	"github.com/mrlokans/shloka/internal/progress"
	"github.com/mrlokans/shloka/internal/rewards"
)

var ErrInvalidUserID = errors.New("invalid user id")

const (
	DefaultMaxSessions = 10000
	DefaultSessionTTL  = 30 * time.Minute
)

// Option configures a Manager.
type Option func(*Manager)

// WithCacheSize caps how many sessions stay in memory. The least recently
// used session is dropped first.
func WithCacheSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxSessions = n
		}
	}
}

// WithSessionTTL drops sessions that have not been used for ttl.
func WithSessionTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// Manager hands out one Session per user, loading it from storage on first use.
// Every change is committed as it happens, so a dropped session is simply
// reloaded on the next request.
type Manager struct {
	sessions *expirable.LRU[string, *Session]
	loads    singleflight.Group

	maxSessions int
	ttl         time.Duration

	store   StateStore
	catalog Catalog
	loc     *time.Location
	rewards rewards.Config
}

func NewManager(store StateStore, catalog Catalog, loc *time.Location, cfg rewards.Config, opts ...Option) *Manager {
	if loc == nil {
		loc = time.UTC
	}
	cfg.Location = loc
	m := &Manager{
		maxSessions: DefaultMaxSessions,
		ttl:         DefaultSessionTTL,
		store:       store,
		catalog:     catalog,
		loc:         loc,
		rewards:     cfg,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sessions = expirable.NewLRU[string, *Session](m.maxSessions, nil, m.ttl)
	return m
}

// Get returns the cached session for userID or loads it. Concurrent first
// loads of the same user share one storage read; other users are not blocked.
func (m *Manager) Get(ctx context.Context, userID string) (*Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || len(userID) > 100 {
		return nil, ErrInvalidUserID
	}

	if s, ok := m.sessions.Get(userID); ok {
		// Re-adding restarts the idle timer.
		m.sessions.Add(userID, s)
		return s, nil
	}

	v, err, _ := m.loads.Do(userID, func() (any, error) {
		if s, ok := m.sessions.Get(userID); ok {
			return s, nil
		}
		s, err := m.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		m.sessions.Add(userID, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

func (m *Manager) load(ctx context.Context, userID string) (*Session, error) {
	stored, err := m.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	tracker := progress.NewTracker(m.loc, m.catalog)
	tracker.Replay(stored.Reads)

	ledger := rewards.NewLedger(m.rewards)
	if err := ledger.Restore(stored.Ledger, stored.Entries); err != nil {
		return nil, fmt.Errorf("failed to restore ledger for %s: %w", userID, err)
	}

	set := bookmarks.NewSet()
	set.Restore(stored.Bookmarks)

	return &Session{
		userID:    userID,
		store:     m.store,
		catalog:   m.catalog,
		tracker:   tracker,
		ledger:    ledger,
		bookmarks: set,
	}, nil
}

// Forget drops a cached session so the next Get reloads it.
func (m *Manager) Forget(userID string) {
	m.sessions.Remove(userID)
}

// Active returns the number of cached sessions.
func (m *Manager) Active() int {
	return m.sessions.Len()
}
