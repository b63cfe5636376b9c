package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shloka/internal/rewards"
	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/mrlokans/shloka/internal/shop"
)

var errCommitFailed = errors.New("commit failed")

type fakeCatalog struct {
	refs map[scripture.Ref]bool
}

func newFakeCatalog(refs ...scripture.Ref) *fakeCatalog {
	c := &fakeCatalog{refs: map[scripture.Ref]bool{}}
	for _, r := range refs {
		c.refs[r] = true
	}
	return c
}

func (c *fakeCatalog) HasVerse(ref scripture.Ref) bool { return c.refs[ref] }
func (c *fakeCatalog) TotalVerses() int                { return len(c.refs) }
func (c *fakeCatalog) ChapterCounts() map[int]int {
	out := map[int]int{}
	for r := range c.refs {
		out[r.Chapter]++
	}
	return out
}

type memoryStore struct {
	mu      sync.Mutex
	users   map[string]*Stored
	deltas  []Delta
	fail    bool
	nextPID uint
	loads   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]*Stored{}}
}

func (m *memoryStore) Load(ctx context.Context, userID string) (Stored, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if st, ok := m.users[userID]; ok {
		return *st, nil
	}
	return Stored{}, nil
}

func (m *memoryStore) Commit(ctx context.Context, d Delta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errCommitFailed
	}
	st, ok := m.users[d.UserID]
	if !ok {
		st = &Stored{}
		m.users[d.UserID] = st
	}
	st.Reads = append(st.Reads, d.Reads...)
	st.Entries = append(st.Entries, d.Entries...)
	st.Ledger = d.Ledger
	st.Bookmarks = d.Bookmarks
	if d.Purchase != nil {
		m.nextPID++
		d.Purchase.ID = m.nextPID
	}
	m.deltas = append(m.deltas, d)
	return nil
}

var (
	ref247 = scripture.Ref{Chapter: 2, Verse: 47}
	ref220 = scripture.Ref{Chapter: 2, Verse: 20}
	ref47  = scripture.Ref{Chapter: 4, Verse: 7}
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 9, 0, 0, 0, time.UTC)
}

func newTestManager(store *memoryStore) *Manager {
	return NewManager(store, newFakeCatalog(ref247, ref220, ref47), time.UTC, rewards.DefaultConfig())
}

func TestRecordRead(t *testing.T) {
	ctx := context.Background()

	t.Run("credits first read of the day only", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		s, err := m.Get(ctx, "arjun")
		require.NoError(t, err)

		first, err := s.RecordRead(ctx, ref247, day(1))
		require.NoError(t, err)
		require.Len(t, first.Credits, 1)
		assert.Equal(t, rewards.KindDailyRead, first.Credits[0].Kind)
		assert.Equal(t, 10, first.Balance)

		second, err := s.RecordRead(ctx, ref220, day(1).Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, second.Credits)
		assert.Equal(t, 2, second.Progress.VersesRead)
		assert.Equal(t, 10, second.Balance)
	})

	t.Run("streak scenario", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		s, err := m.Get(ctx, "arjun")
		require.NoError(t, err)

		r1, err := s.RecordRead(ctx, ref247, day(1))
		require.NoError(t, err)
		assert.Equal(t, 1, r1.Progress.StreakCurrent)

		r2, err := s.RecordRead(ctx, ref247, day(2))
		require.NoError(t, err)
		assert.Equal(t, 2, r2.Progress.StreakCurrent)
		assert.Equal(t, 1, r2.Progress.VersesRead)

		r4, err := s.RecordRead(ctx, ref247, day(4))
		require.NoError(t, err)
		assert.Equal(t, 1, r4.Progress.StreakCurrent)
		assert.Equal(t, 2, r4.Progress.StreakLongest)
	})

	t.Run("seventh day credits milestone", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		s, err := m.Get(ctx, "arjun")
		require.NoError(t, err)

		var last ReadResult
		for d := 1; d <= 7; d++ {
			last, err = s.RecordRead(ctx, ref247, day(d))
			require.NoError(t, err)
		}
		require.Len(t, last.Credits, 2)
		assert.Equal(t, rewards.KindStreakMilestone, last.Credits[1].Kind)
		assert.Equal(t, 7*10+50, last.Balance)
	})

	t.Run("unknown verse", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		s, err := m.Get(ctx, "arjun")
		require.NoError(t, err)

		_, err = s.RecordRead(ctx, scripture.Ref{Chapter: 18, Verse: 1}, day(1))
		assert.ErrorIs(t, err, scripture.ErrNotFound)
	})

	t.Run("failed commit leaves state unchanged", func(t *testing.T) {
		store := newMemoryStore()
		m := newTestManager(store)
		s, err := m.Get(ctx, "arjun")
		require.NoError(t, err)
		_, err = s.RecordRead(ctx, ref247, day(1))
		require.NoError(t, err)

		store.fail = true
		_, err = s.RecordRead(ctx, ref220, day(2))
		assert.ErrorIs(t, err, errCommitFailed)

		view := s.Progress(day(2))
		assert.Equal(t, 1, view.VersesRead)
		assert.Equal(t, 1, view.StreakCurrent)
		assert.Equal(t, 10, view.Balance)
		assert.Len(t, s.History(), 1)
	})
}

func TestBookmarks(t *testing.T) {
	ctx := context.Background()

	t.Run("first bookmark credits two coins once ever", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		s, err := m.Get(ctx, "arjun")
		require.NoError(t, err)

		res, err := s.AddBookmark(ctx, ref247)
		require.NoError(t, err)
		assert.True(t, res.FirstTime)
		require.NotNil(t, res.Credit)
		assert.Equal(t, 2, res.Credit.Amount)
		assert.Equal(t, 2, res.Balance)

		require.NoError(t, s.RemoveBookmark(ctx, ref247))
		assert.False(t, s.IsBookmarked(ref247))

		res, err = s.AddBookmark(ctx, ref247)
		require.NoError(t, err)
		assert.False(t, res.FirstTime)
		assert.Nil(t, res.Credit)
		assert.Equal(t, 2, s.Balance())
	})

	t.Run("adding an existing bookmark is a no-op", func(t *testing.T) {
		store := newMemoryStore()
		m := newTestManager(store)
		s, err := m.Get(ctx, "arjun")
		require.NoError(t, err)

		_, err = s.AddBookmark(ctx, ref247)
		require.NoError(t, err)
		commits := len(store.deltas)

		res, err := s.AddBookmark(ctx, ref247)
		require.NoError(t, err)
		assert.True(t, res.Bookmarked)
		assert.Equal(t, commits, len(store.deltas))
	})

	t.Run("removing a missing bookmark is not an error", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		s, err := m.Get(ctx, "arjun")
		require.NoError(t, err)
		assert.NoError(t, s.RemoveBookmark(ctx, scripture.Ref{Chapter: 9, Verse: 9}))
	})

	t.Run("unknown verse cannot be bookmarked", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		s, err := m.Get(ctx, "arjun")
		require.NoError(t, err)
		_, err = s.AddBookmark(ctx, scripture.Ref{Chapter: 9, Verse: 9})
		assert.ErrorIs(t, err, scripture.ErrNotFound)
	})

	t.Run("failed commit does not mark bookmark as ever added", func(t *testing.T) {
		store := newMemoryStore()
		m := newTestManager(store)
		s, err := m.Get(ctx, "arjun")
		require.NoError(t, err)

		store.fail = true
		_, err = s.AddBookmark(ctx, ref247)
		require.Error(t, err)

		store.fail = false
		res, err := s.AddBookmark(ctx, ref247)
		require.NoError(t, err)
		assert.True(t, res.FirstTime)
		assert.Equal(t, 2, res.Balance)
	})

	t.Run("bookmarks keep insertion order", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		s, err := m.Get(ctx, "arjun")
		require.NoError(t, err)
		for _, ref := range []scripture.Ref{ref47, ref247, ref220} {
			_, err := s.AddBookmark(ctx, ref)
			require.NoError(t, err)
		}
		assert.Equal(t, []scripture.Ref{ref47, ref247, ref220}, s.Bookmarks())
	})
}

func TestPurchase(t *testing.T) {
	ctx := context.Background()
	item := shop.Item{ID: 3, Name: "Spiritual Diary", CoinCost: 12, Stock: 5, Active: true}

	setup := func(t *testing.T) (*memoryStore, *Session) {
		store := newMemoryStore()
		s, err := newTestManager(store).Get(ctx, "arjun")
		require.NoError(t, err)
		_, err = s.RecordRead(ctx, ref247, day(1))
		require.NoError(t, err)
		_, err = s.AddBookmark(ctx, ref247)
		require.NoError(t, err)
		return store, s
	}

	t.Run("debits balance and records purchase", func(t *testing.T) {
		store, s := setup(t)

		res, err := s.Purchase(ctx, item, day(1))
		require.NoError(t, err)
		assert.Equal(t, 0, res.Balance)
		assert.Equal(t, -12, res.Entry.Amount)
		assert.Equal(t, res.Entry.ID, res.Purchase.LedgerEntryID)
		assert.NotZero(t, res.Purchase.ID)

		last := store.deltas[len(store.deltas)-1]
		require.NotNil(t, last.Purchase)
		assert.Equal(t, uint(3), last.Purchase.ItemID)
	})

	t.Run("insufficient balance leaves balance unchanged", func(t *testing.T) {
		_, s := setup(t)
		expensive := item
		expensive.CoinCost = 13

		_, err := s.Purchase(ctx, expensive, day(1))
		assert.ErrorIs(t, err, rewards.ErrInsufficientBalance)
		assert.Equal(t, 12, s.Balance())
	})

	t.Run("unavailable items", func(t *testing.T) {
		_, s := setup(t)

		soldOut := item
		soldOut.Stock = 0
		_, err := s.Purchase(ctx, soldOut, day(1))
		assert.ErrorIs(t, err, shop.ErrOutOfStock)

		inactive := item
		inactive.Active = false
		_, err = s.Purchase(ctx, inactive, day(1))
		assert.ErrorIs(t, err, shop.ErrItemInactive)
		assert.Equal(t, 12, s.Balance())
	})

	t.Run("failed commit keeps coins", func(t *testing.T) {
		store, s := setup(t)
		store.fail = true
		_, err := s.Purchase(ctx, item, day(1))
		assert.ErrorIs(t, err, errCommitFailed)
		assert.Equal(t, 12, s.Balance())
	})
}

func TestManagerEviction(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog(ref247, ref220, ref47)

	t.Run("cache size is bounded", func(t *testing.T) {
		store := newMemoryStore()
		m := NewManager(store, catalog, time.UTC, rewards.DefaultConfig(), WithCacheSize(2))

		first, err := m.Get(ctx, "arjun")
		require.NoError(t, err)
		_, err = first.RecordRead(ctx, ref247, day(1))
		require.NoError(t, err)

		for _, id := range []string{"bhima", "nakula", "sahadeva"} {
			_, err := m.Get(ctx, id)
			require.NoError(t, err)
		}
		assert.Equal(t, 2, m.Active())

		reloaded, err := m.Get(ctx, "arjun")
		require.NoError(t, err)
		assert.NotSame(t, first, reloaded)
		assert.Equal(t, first.Balance(), reloaded.Balance())
		assert.Equal(t, 2, m.Active())
	})

	t.Run("idle sessions expire", func(t *testing.T) {
		m := NewManager(newMemoryStore(), catalog, time.UTC, rewards.DefaultConfig(), WithSessionTTL(50*time.Millisecond))

		first, err := m.Get(ctx, "arjun")
		require.NoError(t, err)
		time.Sleep(120 * time.Millisecond)

		again, err := m.Get(ctx, "arjun")
		require.NoError(t, err)
		assert.NotSame(t, first, again)
	})

	t.Run("concurrent first loads share one read", func(t *testing.T) {
		store := newMemoryStore()
		m := NewManager(store, catalog, time.UTC, rewards.DefaultConfig())

		var wg sync.WaitGroup
		got := make([]*Session, 8)
		for i := range got {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				s, err := m.Get(ctx, "arjun")
				assert.NoError(t, err)
				got[i] = s
			}(i)
		}
		wg.Wait()

		for _, s := range got[1:] {
			assert.Same(t, got[0], s)
		}
		store.mu.Lock()
		defer store.mu.Unlock()
		assert.Equal(t, 1, store.loads)
	})
}

func TestManager(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the same session per user", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		a, err := m.Get(ctx, "arjun")
		require.NoError(t, err)
		b, err := m.Get(ctx, " arjun ")
		require.NoError(t, err)
		assert.Same(t, a, b)
		assert.Equal(t, 1, m.Active())
	})

	t.Run("rejects empty user id", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		_, err := m.Get(ctx, "  ")
		assert.ErrorIs(t, err, ErrInvalidUserID)
	})

	t.Run("reload restores state from storage", func(t *testing.T) {
		store := newMemoryStore()
		m := newTestManager(store)
		s, err := m.Get(ctx, "arjun")
		require.NoError(t, err)
		_, err = s.RecordRead(ctx, ref247, day(1))
		require.NoError(t, err)
		_, err = s.RecordRead(ctx, ref220, day(2))
		require.NoError(t, err)
		_, err = s.AddBookmark(ctx, ref47)
		require.NoError(t, err)
		require.NoError(t, s.RemoveBookmark(ctx, ref47))

		m.Forget("arjun")
		reloaded, err := m.Get(ctx, "arjun")
		require.NoError(t, err)
		assert.NotSame(t, s, reloaded)

		assert.Equal(t, s.Progress(day(2)), reloaded.Progress(day(2)))
		assert.Equal(t, 22, reloaded.Balance())
		assert.Len(t, reloaded.Entries(), 3)

		res, err := reloaded.AddBookmark(ctx, ref47)
		require.NoError(t, err)
		assert.False(t, res.FirstTime)

		_, err = reloaded.RecordRead(ctx, ref47, day(2))
		require.NoError(t, err)
		assert.Equal(t, 22, reloaded.Balance())
	})

	t.Run("sessions are independent", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		a, err := m.Get(ctx, "arjun")
		require.NoError(t, err)
		b, err := m.Get(ctx, "krishna")
		require.NoError(t, err)

		_, err = a.RecordRead(ctx, ref247, day(1))
		require.NoError(t, err)
		assert.Equal(t, 0, b.Balance())
		assert.Empty(t, b.History())
	})
}

func TestProgressView(t *testing.T) {
	ctx := context.Background()
	s, err := newTestManager(newMemoryStore()).Get(ctx, "arjun")
	require.NoError(t, err)

	_, err = s.RecordRead(ctx, ref47, day(1))
	require.NoError(t, err)

	view := s.Progress(day(1))
	assert.Equal(t, 33.3, view.CompletionPercentage)
	require.Len(t, view.Chapters, 2)
	assert.Equal(t, 2, view.Chapters[0].Chapter)
	assert.Equal(t, 4, view.Chapters[1].Chapter)
	assert.Len(t, view.Badges, 3)
	assert.Equal(t, "", view.Tier)
	assert.Equal(t, 1, view.StreakActive)
	assert.Equal(t, 0, s.Progress(day(5)).StreakActive)
}
