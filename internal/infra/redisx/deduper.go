package redisx

import (
	"context"
	"log/slog"
	"time"

	"stayhub/internal/pkg/config"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, errs.Wrap(err, "failed to ping redis")
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err.Error())
		}
	}
	return client, cleanup, nil
}

// Deduper is a best-effort cache in front of the idempotency table. A miss
// (including any redis failure) just means the transaction does the
// authoritative check; a hit saves the listing lock on known replays.
type Deduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDeduper(client *redis.Client, cfg config.Config) *Deduper {
	return &Deduper{client: client, ttl: cfg.Redis.IdemTTL}
}

var _ commands.CreateDeduper = (*Deduper)(nil)

func (d *Deduper) Seen(ctx context.Context, userID, key uuid.UUID) bool {
	n, err := d.client.Exists(ctx, dedupeKey(userID, key)).Result()
	if err != nil {
		slog.Warn("dedupe lookup failed, falling through to store", "error", err.Error())
		return false
	}
	return n > 0
}

func (d *Deduper) Mark(ctx context.Context, userID, key uuid.UUID) {
	if err := d.client.Set(ctx, dedupeKey(userID, key), "1", d.ttl).Err(); err != nil {
		slog.Warn("dedupe mark failed", "error", err.Error())
	}
}

func dedupeKey(userID, key uuid.UUID) string {
	return "booking:idem:" + userID.String() + ":" + key.String()
}
