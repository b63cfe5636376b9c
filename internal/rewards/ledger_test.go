package rewards

import (
	"testing"
	"time"

	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ref247 = scripture.Ref{Chapter: 2, Verse: 47}

func fixedClock() time.Time {
	return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
}

func newTestLedger() *Ledger {
	return NewLedger(DefaultConfig()).WithClock(fixedClock)
}

func TestCreditDailyRead(t *testing.T) {
	l := newTestLedger()

	morning := time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)
	entry, ok := l.CreditDailyRead(morning)
	require.True(t, ok)
	assert.Equal(t, KindDailyRead, entry.Kind)
	assert.Equal(t, 10, entry.Amount)
	assert.Equal(t, 10, entry.Balance)
	assert.NotEmpty(t, entry.ID)

	_, ok = l.CreditDailyRead(morning.Add(10 * time.Hour))
	assert.False(t, ok)
	assert.Equal(t, 10, l.Balance())

	_, ok = l.CreditDailyRead(morning.Add(24 * time.Hour))
	assert.True(t, ok)
	assert.Equal(t, 20, l.Balance())
}

func TestCreditDailyReadOutOfOrder(t *testing.T) {
	l := newTestLedger()

	_, ok := l.CreditDailyRead(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))
	require.True(t, ok)

	// An earlier day arriving late is not paid and does not reopen the later day.
	_, ok = l.CreditDailyRead(time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC))
	assert.False(t, ok)
	_, ok = l.CreditDailyRead(time.Date(2024, 1, 5, 11, 0, 0, 0, time.UTC))
	assert.False(t, ok)

	assert.Equal(t, 10, l.Balance())
	assert.Len(t, l.Entries(), 1)
	assert.Equal(t, "2024-01-05", l.State().LastCreditDay)
}

func TestCreditDailyReadUsesLocation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Location = time.FixedZone("IST", 5*3600+1800)
	l := NewLedger(cfg)

	_, ok := l.CreditDailyRead(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	require.True(t, ok)
	// 20:00 UTC is already the next day in IST.
	_, ok = l.CreditDailyRead(time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC))
	assert.True(t, ok)
}

func TestCreditStreakMilestone(t *testing.T) {
	t.Run("credits once per run", func(t *testing.T) {
		l := newTestLedger()

		assert.Empty(t, l.CreditStreakMilestone(6))
		entries := l.CreditStreakMilestone(7)
		require.Len(t, entries, 1)
		assert.Equal(t, 7, entries[0].Milestone)
		assert.Equal(t, 50, l.Balance())

		assert.Empty(t, l.CreditStreakMilestone(7))
		assert.Empty(t, l.CreditStreakMilestone(8))
		assert.Equal(t, 50, l.Balance())
	})

	t.Run("new run credits again", func(t *testing.T) {
		l := newTestLedger()
		l.CreditStreakMilestone(7)
		assert.Empty(t, l.CreditStreakMilestone(1))

		entries := l.CreditStreakMilestone(7)
		require.Len(t, entries, 1)
		assert.Equal(t, 100, l.Balance())
	})

	t.Run("skipped milestones are all credited", func(t *testing.T) {
		l := newTestLedger()
		entries := l.CreditStreakMilestone(30)
		require.Len(t, entries, 3)
		assert.Equal(t, []int{7, 15, 30}, []int{entries[0].Milestone, entries[1].Milestone, entries[2].Milestone})
		assert.Equal(t, 400, l.Balance())
	})
}

func TestCreditBookmark(t *testing.T) {
	l := newTestLedger()

	entry, ok := l.CreditBookmark(ref247)
	require.True(t, ok)
	assert.Equal(t, 2, entry.Amount)
	require.NotNil(t, entry.Ref)
	assert.Equal(t, ref247, *entry.Ref)

	_, ok = l.CreditBookmark(ref247)
	assert.False(t, ok)
	assert.Equal(t, 2, l.Balance())
}

func TestDebit(t *testing.T) {
	t.Run("overdraft is rejected and balance unchanged", func(t *testing.T) {
		l := newTestLedger()
		l.CreditDailyRead(fixedClock())

		_, err := l.Debit(11, "statue")
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Equal(t, 10, l.Balance())
		assert.Len(t, l.Entries(), 1)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		l := newTestLedger()
		_, err := l.Debit(0, "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
		_, err = l.Debit(-5, "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("exact balance", func(t *testing.T) {
		l := newTestLedger()
		l.CreditDailyRead(fixedClock())

		entry, err := l.Debit(10, "diary")
		require.NoError(t, err)
		assert.Equal(t, -10, entry.Amount)
		assert.Equal(t, 0, entry.Balance)
		assert.Equal(t, KindPurchase, entry.Kind)
		assert.Equal(t, 0, l.Balance())
	})
}

func TestStateRestore(t *testing.T) {
	l := newTestLedger()
	l.CreditDailyRead(fixedClock())
	l.CreditStreakMilestone(7)
	l.CreditBookmark(ref247)

	restored := newTestLedger()
	require.NoError(t, restored.Restore(l.State(), l.Entries()))

	assert.Equal(t, 62, restored.Balance())
	assert.Len(t, restored.Entries(), 3)

	_, ok := restored.CreditDailyRead(fixedClock())
	assert.False(t, ok)
	assert.Empty(t, restored.CreditStreakMilestone(8))
	_, ok = restored.CreditBookmark(ref247)
	assert.False(t, ok)

	assert.Error(t, restored.Restore(State{Balance: -1}, nil))
}

func TestClone(t *testing.T) {
	l := newTestLedger()
	l.CreditDailyRead(fixedClock())

	clone := l.Clone()
	_, err := clone.Debit(5, "item")
	require.NoError(t, err)

	assert.Equal(t, 10, l.Balance())
	assert.Equal(t, 5, clone.Balance())
	assert.Len(t, l.Entries(), 1)
}
