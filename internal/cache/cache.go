// Package cache keeps a short-lived copy of the full record list in redis so
// the viewer does not hit postgres on every refresh.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"example.com/formintake/internal/domain"
)

// The list is stored under a key carrying the current generation. Invalidate
// bumps the generation, so a snapshot read before an insert can only ever be
// written under a key nobody reads any more.
const (
	genKey        = "formintake:records:gen"
	recordsKeyFmt = "formintake:records:all:%d"
)

// RecordCache is a read-through cache for the record list.
//
// Get reports the generation it looked at, hit or miss. Callers pass that
// generation back to Set, never a fresh one.
type RecordCache interface {
	Get(ctx context.Context) (recs []domain.Record, gen int64, ok bool)
	Set(ctx context.Context, gen int64, recs []domain.Record)
	Invalidate(ctx context.Context)
}

// Noop is used when no redis is configured.
type Noop struct{}

func (Noop) Get(context.Context) ([]domain.Record, int64, bool) { return nil, 0, false }
func (Noop) Set(context.Context, int64, []domain.Record)        {}
func (Noop) Invalidate(context.Context)                         {}

// Redis stores the list as one JSON value. Errors are logged, never returned:
// a cache outage only costs a database read.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedis(client redis.UniversalClient, ttl time.Duration, log *slog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, log: log.With("component", "cache")}
}

// Connect parses a redis URL and checks the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func recordsKey(gen int64) string {
	return fmt.Sprintf(recordsKeyFmt, gen)
}

// Get returns gen -1 when the generation itself could not be read; Set ignores it.
func (c *Redis) Get(ctx context.Context) ([]domain.Record, int64, bool) {
	gen, err := c.client.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		gen, err = 0, nil
	}
	if err != nil {
		c.log.WarnContext(ctx, "cache generation read failed", "error", err)
		return nil, -1, false
	}

	b, err := c.client.Get(ctx, recordsKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WarnContext(ctx, "cache read failed", "error", err)
		}
		return nil, gen, false
	}
	var recs []domain.Record
	if err := json.Unmarshal(b, &recs); err != nil {
		c.log.WarnContext(ctx, "cache entry corrupt", "error", err)
		return nil, gen, false
	}
	return recs, gen, true
}

func (c *Redis) Set(ctx context.Context, gen int64, recs []domain.Record) {
	if gen < 0 {
		return
	}
	b, err := json.Marshal(recs)
	if err != nil {
		c.log.WarnContext(ctx, "cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, recordsKey(gen), b, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "cache write failed", "error", err)
	}
}

func (c *Redis) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, genKey).Err(); err != nil {
		c.log.WarnContext(ctx, "cache invalidate failed", "error", err)
	}
}
