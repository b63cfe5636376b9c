// Package rewards keeps a reader's coin balance.
package rewards

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mrlokans/shloka/internal/scripture"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

type Kind string

const (
	KindDailyRead       Kind = "daily_read"
	KindStreakMilestone Kind = "streak_milestone"
	KindBookmark        Kind = "bookmark"
	KindPurchase        Kind = "purchase"
)

// Entry is one balance change. Amount is negative for debits.
type Entry struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	Amount    int            `json:"amount"`
	Balance   int            `json:"balance"`
	Ref       *scripture.Ref `json:"ref,omitempty"`
	Milestone int            `json:"milestone,omitempty"`
	Note      string         `json:"note,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type Config struct {
	DailyRead  int
	Bookmark   int
	Milestones map[int]int
	Location   *time.Location
}

func DefaultConfig() Config {
	return Config{
		DailyRead:  10,
		Bookmark:   2,
		Milestones: map[int]int{7: 50, 15: 100, 30: 250},
		Location:   time.UTC,
	}
}

// State is the part of the ledger that is not derivable from its entries.
type State struct {
	Balance            int             `json:"balance"`
	LastCreditDay      string          `json:"last_credit_day,omitempty"`
	LastStreak         int             `json:"last_streak"`
	CreditedMilestones []int           `json:"credited_milestones,omitempty"`
	CreditedBookmarks  []scripture.Ref `json:"credited_bookmarks,omitempty"`
}

// Ledger is a single reader's coin account. It is not safe for concurrent use.
type Ledger struct {
	cfg   Config
	now   func() time.Time
	state State

	milestones []int
	credited   map[int]bool
	bookmarked map[scripture.Ref]bool
	entries    []Entry
}

func NewLedger(cfg Config) *Ledger {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	l := &Ledger{
		cfg:        cfg,
		now:        time.Now,
		credited:   make(map[int]bool),
		bookmarked: make(map[scripture.Ref]bool),
	}
	for m := range cfg.Milestones {
		l.milestones = append(l.milestones, m)
	}
	sort.Ints(l.milestones)
	return l
}

// WithClock overrides the clock used to stamp debits and bonuses.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

func (l *Ledger) Balance() int {
	return l.state.Balance
}

// CreditDailyRead credits the daily amount the first time it is called on a
// calendar day later than the last credited one. Later calls the same day,
// and reads stamped on an earlier day, return false.
func (l *Ledger) CreditDailyRead(at time.Time) (Entry, bool) {
	day := at.In(l.cfg.Location).Format(time.DateOnly)
	// DateOnly strings order chronologically.
	if day <= l.state.LastCreditDay || l.cfg.DailyRead <= 0 {
		return Entry{}, false
	}
	l.state.LastCreditDay = day
	return l.credit(Entry{Kind: KindDailyRead, Amount: l.cfg.DailyRead, CreatedAt: at}), true
}

// CreditStreakMilestone credits every configured milestone reached by streak
// that has not been credited during the current run. A streak lower than the
// last one observed starts a new run.
func (l *Ledger) CreditStreakMilestone(streak int) []Entry {
	if streak < l.state.LastStreak {
		l.credited = make(map[int]bool)
	}
	l.state.LastStreak = streak

	var out []Entry
	for _, m := range l.milestones {
		if m > streak || l.credited[m] {
			continue
		}
		l.credited[m] = true
		out = append(out, l.credit(Entry{
			Kind:      KindStreakMilestone,
			Amount:    l.cfg.Milestones[m],
			Milestone: m,
			Note:      fmt.Sprintf("%d day streak", m),
			CreatedAt: l.now(),
		}))
	}
	return out
}

// CreditBookmark credits the bookmark bonus the first time ref is ever
// bookmarked.
func (l *Ledger) CreditBookmark(ref scripture.Ref) (Entry, bool) {
	if l.bookmarked[ref] || l.cfg.Bookmark <= 0 {
		return Entry{}, false
	}
	l.bookmarked[ref] = true
	r := ref
	return l.credit(Entry{Kind: KindBookmark, Amount: l.cfg.Bookmark, Ref: &r, CreatedAt: l.now()}), true
}

// Debit removes coins. It never takes the balance below zero.
func (l *Ledger) Debit(amount int, note string) (Entry, error) {
	if amount <= 0 {
		return Entry{}, ErrInvalidAmount
	}
	if amount > l.state.Balance {
		return Entry{}, fmt.Errorf("debit %d with balance %d: %w", amount, l.state.Balance, ErrInsufficientBalance)
	}
	return l.credit(Entry{Kind: KindPurchase, Amount: -amount, Note: note, CreatedAt: l.now()}), nil
}

func (l *Ledger) credit(e Entry) Entry {
	l.state.Balance += e.Amount
	e.ID = uuid.NewString()
	e.Balance = l.state.Balance
	l.entries = append(l.entries, e)
	return e
}

// Entries returns the ledger history, oldest first.
func (l *Ledger) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

func (l *Ledger) State() State {
	st := l.state
	st.CreditedMilestones = nil
	for _, m := range l.milestones {
		if l.credited[m] {
			st.CreditedMilestones = append(st.CreditedMilestones, m)
		}
	}
	st.CreditedBookmarks = make([]scripture.Ref, 0, len(l.bookmarked))
	for ref := range l.bookmarked {
		st.CreditedBookmarks = append(st.CreditedBookmarks, ref)
	}
	sort.Slice(st.CreditedBookmarks, func(i, j int) bool {
		a, b := st.CreditedBookmarks[i], st.CreditedBookmarks[j]
		if a.Chapter != b.Chapter {
			return a.Chapter < b.Chapter
		}
		return a.Verse < b.Verse
	})
	return st
}

// Restore loads persisted state and history.
func (l *Ledger) Restore(st State, entries []Entry) error {
	if st.Balance < 0 {
		return fmt.Errorf("restored balance %d is negative", st.Balance)
	}
	l.state = State{
		Balance:       st.Balance,
		LastCreditDay: st.LastCreditDay,
		LastStreak:    st.LastStreak,
	}
	l.credited = make(map[int]bool, len(st.CreditedMilestones))
	for _, m := range st.CreditedMilestones {
		l.credited[m] = true
	}
	l.bookmarked = make(map[scripture.Ref]bool, len(st.CreditedBookmarks))
	for _, ref := range st.CreditedBookmarks {
		l.bookmarked[ref] = true
	}
	l.entries = append([]Entry(nil), entries...)
	return nil
}

func (l *Ledger) Clone() *Ledger {
	out := NewLedger(l.cfg)
	out.now = l.now
	_ = out.Restore(l.State(), l.entries)
	return out
}
