package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mrlokans/shloka/internal/scripture"
)

// ErrDisabled is returned by Ping when caching is off.
var ErrDisabled = errors.New("verse cache disabled")

// VerseSource computes the verse of the day and resolves references.
type VerseSource interface {
	Version() uint64
	VerseOfDay(date time.Time) (scripture.Verse, error)
	Verse(ref scripture.Ref) (scripture.Verse, error)
}

// DailyVerse caches the day's selection keyed by date and catalog version.
// A nil client disables caching.
type DailyVerse struct {
	client *redis.Client
	source VerseSource
	ttl    time.Duration
	logger *zap.Logger
}

func NewDailyVerse(client *redis.Client, source VerseSource, ttl time.Duration, logger *zap.Logger) *DailyVerse {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyVerse{client: client, source: source, ttl: ttl, logger: logger}
}

func (d *DailyVerse) key(date time.Time) string {
	return fmt.Sprintf("shloka:votd:%s:v%d", scripture.DayKey(date), d.source.Version())
}

// Get returns the verse of the day for date. Cache failures fall back to
// computing the selection.
func (d *DailyVerse) Get(ctx context.Context, date time.Time) (scripture.Verse, error) {
	if d.client == nil {
		return d.source.VerseOfDay(date)
	}

	key := d.key(date)
	if v, ok := d.lookup(ctx, key); ok {
		return v, nil
	}

	v, err := d.source.VerseOfDay(date)
	if err != nil {
		return scripture.Verse{}, err
	}

	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := d.client.Set(cctx, key, v.Ref.String(), d.ttl).Err(); err != nil {
		d.logger.Warn("verse cache write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

func (d *DailyVerse) lookup(ctx context.Context, key string) (scripture.Verse, bool) {
	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	raw, err := d.client.Get(cctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			d.logger.Warn("verse cache read failed", zap.String("key", key), zap.Error(err))
		}
		return scripture.Verse{}, false
	}

	ref, err := scripture.ParseRef(raw)
	if err != nil {
		return scripture.Verse{}, false
	}
	v, err := d.source.Verse(ref)
	if err != nil {
		return scripture.Verse{}, false
	}
	return v, true
}

// Ping checks the cache connection. It reports ErrDisabled when no client is
// configured.
func (d *DailyVerse) Ping(ctx context.Context) error {
	if d.client == nil {
		return ErrDisabled
	}
	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.client.Ping(cctx).Err()
}
