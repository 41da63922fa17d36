package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"mbills-payments/internal/domain/model"
	"mbills-payments/internal/domain/ports/repository"
	"mbills-payments/internal/infra/metrics"
)

var _ repository.CorrelationStore = (*correlationCache)(nil)

const cacheName = "correlation"

// correlationCache is a read-through cache for confirmed records keyed by nonce.
// Provisional records are never cached, and lookups inside a transaction always
// go to the inner store so row locks are still taken.
type correlationCache struct {
	inner repository.CorrelationStore
	cache RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewCorrelationCache(inner repository.CorrelationStore, cache RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.CorrelationStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &correlationCache{inner: inner, cache: cache, ttl: ttl, log: logger}
}

func nonceKey(nonce string) string { return "correlation:nonce:" + nonce }
func idKey(id int64) string        { return "correlation:id:" + strconv.FormatInt(id, 10) }

func (d *correlationCache) Insert(ctx context.Context, tx repository.Tx, nonce, paymentToken string, amountCents int64) (int64, error) {
	return d.inner.Insert(ctx, tx, nonce, paymentToken, amountCents)
}

// Update never warms the cache; the next confirmed read does.
func (d *correlationCache) Update(ctx context.Context, tx repository.Tx, id int64, transactionID, paymentTokenNumber, signature string) (bool, error) {
	return d.inner.Update(ctx, tx, id, transactionID, paymentTokenNumber, signature)
}

func (d *correlationCache) FindByNonce(ctx context.Context, tx repository.Tx, nonce string) (*model.CorrelationRecord, error) {
	if tx == nil {
		val, err := d.cache.Get(ctx, nonceKey(nonce))
		if err == nil {
			var rec model.CorrelationRecord
			if json.Unmarshal([]byte(val), &rec) == nil {
				metrics.IncCacheRequest(cacheName, "hit")
				return &rec, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			d.log.Warn().Err(err).Msg("correlation cache read failed")
			metrics.IncCacheRequest(cacheName, "error")
		}
		metrics.IncCacheRequest(cacheName, "miss")
	}

	rec, err := d.inner.FindByNonce(ctx, tx, nonce)
	if err != nil {
		return nil, err
	}
	if rec.Confirmed() {
		if b, err := json.Marshal(rec); err == nil {
			_ = d.cache.Set(ctx, nonceKey(nonce), b, d.ttl)
			_ = d.cache.Set(ctx, idKey(rec.ID), nonce, d.ttl)
		}
	}
	return rec, nil
}

// Delete drops the cache entries on both sides of the inner delete.
func (d *correlationCache) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	d.invalidate(ctx, id)
	if err := d.inner.Delete(ctx, tx, id); err != nil {
		return err
	}
	d.invalidate(ctx, id)
	return nil
}

func (d *correlationCache) invalidate(ctx context.Context, id int64) {
	nonce, err := d.cache.Get(ctx, idKey(id))
	if err != nil {
		return
	}
	if err := d.cache.Del(ctx, nonceKey(nonce), idKey(id)); err != nil {
		d.log.Warn().Err(err).Int64("record_id", id).Msg("correlation cache invalidation failed")
	}
}
