// Package progress derives a reader's streaks and completion from the
// sequence of verses they have read.
package progress

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/mrlokans/shloka/internal/scripture"
)

var ErrInvalidTotal = errors.New("total verses must be positive")

type Status string

const (
	NotStarted Status = "not_started"
	InProgress Status = "in_progress"
	Completed  Status = "completed"
)

// VerseCounter reports the catalog that completion is measured against.
type VerseCounter interface {
	TotalVerses() int
	HasVerse(ref scripture.Ref) bool
}

// Snapshot is the progress summary returned after every read.
type Snapshot struct {
	StreakCurrent        int     `json:"streak_current"`
	StreakLongest        int     `json:"streak_longest"`
	VersesRead           int     `json:"verses_read"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

type ChapterProgress struct {
	Chapter int    `json:"chapter"`
	Read    int    `json:"read"`
	Total   int    `json:"total"`
	Status  Status `json:"status"`
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time, loc *time.Location) civilDate {
	y, m, d := t.In(loc).Date()
	return civilDate{y, m, d}
}

// daysUntil counts calendar days from c to other, ignoring DST shifts.
func (c civilDate) daysUntil(other civilDate) int {
	a := time.Date(c.year, c.month, c.day, 0, 0, 0, 0, time.UTC)
	b := time.Date(other.year, other.month, other.day, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Tracker folds read events into streak and completion state for one reader.
// Calendar days are evaluated in loc. It is not safe for concurrent use.
type Tracker struct {
	loc     *time.Location
	counter VerseCounter

	events  []scripture.ReadEvent
	read    map[scripture.Ref]struct{}
	lastDay *civilDate
	current int
	longest int
}

func NewTracker(loc *time.Location, counter VerseCounter) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{
		loc:     loc,
		counter: counter,
		read:    make(map[scripture.Ref]struct{}),
	}
}

// RecordRead appends a read event and returns the updated snapshot. Reading
// the same verse again moves the streak but not the verse count. An event
// dated before the last one seen is kept in history without touching the
// streak.
func (t *Tracker) RecordRead(ref scripture.Ref, at time.Time) Snapshot {
	t.apply(scripture.ReadEvent{Ref: ref, ReadAt: at})
	return t.Snapshot()
}

// Replay rebuilds state from a stored event log.
func (t *Tracker) Replay(events []scripture.ReadEvent) {
	for _, ev := range events {
		t.apply(ev)
	}
}

func (t *Tracker) apply(ev scripture.ReadEvent) {
	t.events = append(t.events, ev)
	t.read[ev.Ref] = struct{}{}

	day := dateOf(ev.ReadAt, t.loc)
	switch {
	case t.lastDay == nil:
		t.current = 1
	default:
		gap := t.lastDay.daysUntil(day)
		switch {
		case gap < 0:
			return
		case gap == 0:
		case gap == 1:
			t.current++
		default:
			t.current = 1
		}
	}
	t.lastDay = &day
	if t.current > t.longest {
		t.longest = t.current
	}
}

func (t *Tracker) Snapshot() Snapshot {
	snap := Snapshot{
		StreakCurrent: t.current,
		StreakLongest: t.longest,
		VersesRead:    len(t.read),
	}
	if t.counter != nil {
		if pct, err := percentOf(t.readInCatalog(), t.counter.TotalVerses()); err == nil {
			snap.CompletionPercentage = pct
		}
	}
	return snap
}

// readInCatalog counts read verses that are still in the catalog, so removed
// verses never push completion past 100.
func (t *Tracker) readInCatalog() int {
	n := 0
	for ref := range t.read {
		if t.counter.HasVerse(ref) {
			n++
		}
	}
	return n
}

// CurrentStreak is the streak as of now: a reader who skipped yesterday has
// no running streak even before their next read.
func (t *Tracker) CurrentStreak(now time.Time) int {
	if t.lastDay == nil {
		return 0
	}
	if t.lastDay.daysUntil(dateOf(now, t.loc)) > 1 {
		return 0
	}
	return t.current
}

func (t *Tracker) LongestStreak() int {
	return t.longest
}

func (t *Tracker) VersesRead() int {
	return len(t.read)
}

func (t *Tracker) IsRead(ref scripture.Ref) bool {
	_, ok := t.read[ref]
	return ok
}

// CompletionPercentage is versesRead/total*100 rounded to one decimal.
func (t *Tracker) CompletionPercentage(total int) (float64, error) {
	return percentOf(len(t.read), total)
}

func percentOf(read, total int) (float64, error) {
	if total <= 0 {
		return 0, ErrInvalidTotal
	}
	pct := float64(read) / float64(total) * 100
	return math.Round(pct*10) / 10, nil
}

// ChapterProgress reports per-chapter completion for the given verse counts,
// ordered by chapter.
func (t *Tracker) ChapterProgress(counts map[int]int) []ChapterProgress {
	readPerChapter := make(map[int]int)
	for ref := range t.read {
		readPerChapter[ref.Chapter]++
	}

	chapters := make([]int, 0, len(counts))
	for chapter := range counts {
		chapters = append(chapters, chapter)
	}
	sort.Ints(chapters)

	out := make([]ChapterProgress, 0, len(chapters))
	for _, chapter := range chapters {
		total := counts[chapter]
		read := readPerChapter[chapter]
		if read > total {
			read = total
		}

		status := InProgress
		switch {
		case read == 0:
			status = NotStarted
		case read == total:
			status = Completed
		}
		out = append(out, ChapterProgress{Chapter: chapter, Read: read, Total: total, Status: status})
	}
	return out
}

// History returns read events, most recent first.
func (t *Tracker) History() []scripture.ReadEvent {
	out := make([]scripture.ReadEvent, len(t.events))
	for i, ev := range t.events {
		out[len(t.events)-1-i] = ev
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReadAt.After(out[j].ReadAt)
	})
	return out
}

// Clone returns an independent copy sharing only the location and counter.
func (t *Tracker) Clone() *Tracker {
	out := &Tracker{
		loc:     t.loc,
		counter: t.counter,
		events:  append([]scripture.ReadEvent(nil), t.events...),
		read:    make(map[scripture.Ref]struct{}, len(t.read)),
		current: t.current,
		longest: t.longest,
	}
	for ref := range t.read {
		out.read[ref] = struct{}{}
	}
	if t.lastDay != nil {
		day := *t.lastDay
		out.lastDay = &day
	}
	return out
}
