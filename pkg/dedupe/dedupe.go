package dedupe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deduper is a Redis-backed compare-and-set guard. It is a fast path in
// front of the email log scan: two concurrent senders sharing a dedupe
// key race on SetNX, and only one wins.
type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce returns true the first time a key is seen within the TTL.
// When Redis is unavailable the guard does not block processing; the
// authoritative log-scan dedupe still applies downstream.
func (d *Deduper) AcquireOnce(ctx context.Context, key string) bool {
	ok, err := d.rdb.SetNX(ctx, "dedup:"+key, 1, d.ttl).Result()
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("Redis dedup check failed, allowing processing",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return true
	}

	if !ok && d.logger != nil {
		d.logger.Info("Skipped duplicated notification",
			zap.String("dedup_key", key),
		)
	}
	return ok
}
