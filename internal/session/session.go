// Package session owns one reader's progress, coins and bookmarks and keeps
// them consistent with storage.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mrlokans/shloka/internal/bookmarks"
	"github.com/mrlokans/shloka/internal/progress"
	"github.com/mrlokans/shloka/internal/rewards"
	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/mrlokans/shloka/internal/shop"
)

// Catalog is the read side of the verse library a session needs.
type Catalog interface {
	HasVerse(ref scripture.Ref) bool
	TotalVerses() int
	ChapterCounts() map[int]int
}

// Stored is everything persisted for one user.
type Stored struct {
	Reads     []scripture.ReadEvent
	Ledger    rewards.State
	Entries   []rewards.Entry
	Bookmarks bookmarks.State
}

// Delta is the change produced by one session operation. It must be written
// atomically.
type Delta struct {
	UserID    string
	Reads     []scripture.ReadEvent
	Entries   []rewards.Entry
	Ledger    rewards.State
	Bookmarks bookmarks.State
	Purchase  *shop.Purchase
}

type StateStore interface {
	Load(ctx context.Context, userID string) (Stored, error)
	Commit(ctx context.Context, delta Delta) error
}

type ReadResult struct {
	Progress progress.Snapshot `json:"progress"`
	Credits  []rewards.Entry   `json:"credits"`
	Balance  int               `json:"balance"`
}

type BookmarkResult struct {
	Bookmarked bool           `json:"bookmarked"`
	FirstTime  bool           `json:"first_time"`
	Credit     *rewards.Entry `json:"credit,omitempty"`
	Balance    int            `json:"balance"`
}

type PurchaseResult struct {
	Purchase shop.Purchase `json:"purchase"`
	Entry    rewards.Entry `json:"entry"`
	Balance  int           `json:"balance"`
}

// ProgressView is the full progress page for a reader.
type ProgressView struct {
	progress.Snapshot
	StreakActive int                        `json:"streak_active"`
	Chapters     []progress.ChapterProgress `json:"chapters"`
	Badges       []progress.Badge           `json:"badges"`
	Tier         string                     `json:"tier,omitempty"`
	Bookmarks    int                        `json:"bookmarks"`
	Balance      int                        `json:"balance"`
}

// Session serialises one reader's operations. Each operation runs against
// copies of the state, commits the delta, and only then swaps the copies in.
type Session struct {
	mu      sync.Mutex
	userID  string
	store   StateStore
	catalog Catalog

	tracker   *progress.Tracker
	ledger    *rewards.Ledger
	bookmarks *bookmarks.Set
}

func (s *Session) UserID() string {
	return s.userID
}

// RecordRead marks ref as read at the given time, crediting the daily read
// and any streak milestone reached.
func (s *Session) RecordRead(ctx context.Context, ref scripture.Ref, at time.Time) (ReadResult, error) {
	if !s.catalog.HasVerse(ref) {
		return ReadResult{}, fmt.Errorf("verse %s: %w", ref, scripture.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tracker := s.tracker.Clone()
	ledger := s.ledger.Clone()

	snap := tracker.RecordRead(ref, at)

	var credits []rewards.Entry
	if entry, ok := ledger.CreditDailyRead(at); ok {
		credits = append(credits, entry)
	}
	credits = append(credits, ledger.CreditStreakMilestone(snap.StreakCurrent)...)

	delta := Delta{
		UserID:    s.userID,
		Reads:     []scripture.ReadEvent{{Ref: ref, ReadAt: at}},
		Entries:   credits,
		Ledger:    ledger.State(),
		Bookmarks: s.bookmarks.State(),
	}
	if err := s.store.Commit(ctx, delta); err != nil {
		return ReadResult{}, fmt.Errorf("failed to save read: %w", err)
	}

	s.tracker = tracker
	s.ledger = ledger
	if credits == nil {
		credits = []rewards.Entry{}
	}
	return ReadResult{Progress: snap, Credits: credits, Balance: ledger.Balance()}, nil
}

// AddBookmark stars ref, crediting the bookmark bonus the first time ever.
func (s *Session) AddBookmark(ctx context.Context, ref scripture.Ref) (BookmarkResult, error) {
	if !s.catalog.HasVerse(ref) {
		return BookmarkResult{}, fmt.Errorf("verse %s: %w", ref, scripture.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bookmarks.Contains(ref) {
		return BookmarkResult{Bookmarked: true, Balance: s.ledger.Balance()}, nil
	}

	set := s.bookmarks.Clone()
	ledger := s.ledger.Clone()

	result := BookmarkResult{Bookmarked: true, FirstTime: set.Add(ref)}
	var entries []rewards.Entry
	if result.FirstTime {
		if entry, ok := ledger.CreditBookmark(ref); ok {
			result.Credit = &entry
			entries = append(entries, entry)
		}
	}

	delta := Delta{
		UserID:    s.userID,
		Entries:   entries,
		Ledger:    ledger.State(),
		Bookmarks: set.State(),
	}
	if err := s.store.Commit(ctx, delta); err != nil {
		return BookmarkResult{}, fmt.Errorf("failed to save bookmark: %w", err)
	}

	s.bookmarks = set
	s.ledger = ledger
	result.Balance = ledger.Balance()
	return result, nil
}

// RemoveBookmark is idempotent and works for verses no longer in the catalog.
func (s *Session) RemoveBookmark(ctx context.Context, ref scripture.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.bookmarks.Contains(ref) {
		return nil
	}

	set := s.bookmarks.Clone()
	set.Remove(ref)

	delta := Delta{
		UserID:    s.userID,
		Ledger:    s.ledger.State(),
		Bookmarks: set.State(),
	}
	if err := s.store.Commit(ctx, delta); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	s.bookmarks = set
	return nil
}

// Purchase spends coins on a store item. The store decrements stock as part
// of the same commit.
func (s *Session) Purchase(ctx context.Context, item shop.Item, at time.Time) (PurchaseResult, error) {
	if err := item.Available(); err != nil {
		return PurchaseResult{}, fmt.Errorf("item %d: %w", item.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledger.Clone()
	entry, err := ledger.Debit(item.CoinCost, item.Name)
	if err != nil {
		return PurchaseResult{}, err
	}

	purchase := shop.Purchase{
		UserID:        s.userID,
		ItemID:        item.ID,
		ItemName:      item.Name,
		Coins:         item.CoinCost,
		LedgerEntryID: entry.ID,
		CreatedAt:     at,
	}
	delta := Delta{
		UserID:    s.userID,
		Entries:   []rewards.Entry{entry},
		Ledger:    ledger.State(),
		Bookmarks: s.bookmarks.State(),
		Purchase:  &purchase,
	}
	if err := s.store.Commit(ctx, delta); err != nil {
		return PurchaseResult{}, fmt.Errorf("failed to save purchase: %w", err)
	}

	s.ledger = ledger
	return PurchaseResult{Purchase: *delta.Purchase, Entry: entry, Balance: ledger.Balance()}, nil
}

func (s *Session) Progress(now time.Time) ProgressView {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.tracker.Snapshot()
	return ProgressView{
		Snapshot:     snap,
		StreakActive: s.tracker.CurrentStreak(now),
		Chapters:     s.tracker.ChapterProgress(s.catalog.ChapterCounts()),
		Badges:       progress.Badges(snap.StreakLongest),
		Tier:         progress.Tier(snap.StreakLongest),
		Bookmarks:    s.bookmarks.Len(),
		Balance:      s.ledger.Balance(),
	}
}

func (s *Session) History() []scripture.ReadEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.History()
}

func (s *Session) IsRead(ref scripture.Ref) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.IsRead(ref)
}

func (s *Session) Bookmarks() []scripture.Ref {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookmarks.All()
}

func (s *Session) IsBookmarked(ref scripture.Ref) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookmarks.Contains(ref)
}

func (s *Session) Balance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Balance()
}

// Entries returns the coin history, newest first.
func (s *Session) Entries() []rewards.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.ledger.Entries()
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}
