// Package redis caches per-leaf ledger sums in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

// BalanceCache stores leaf sums in a hash per account version. Bumping the
// version orphans the old hash, which then expires on its own.
type BalanceCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewBalanceCache creates the cache. ttl bounds how long an orphaned hash lingers.
func NewBalanceCache(client redis.UniversalClient, ttl time.Duration) *BalanceCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &BalanceCache{client: client, ttl: ttl}
}

var _ portsrepo.BalanceCache = (*BalanceCache)(nil)

func versionKey(companyID, accountID string) string {
	return fmt.Sprintf("gl:balance:{%s}:%s:ver", companyID, accountID)
}

func valuesKey(companyID, accountID string, version int64) string {
	return fmt.Sprintf("gl:balance:{%s}:%s:v%d", companyID, accountID, version)
}

// Version returns the account's current version; missing means zero.
func (c *BalanceCache) Version(ctx context.Context, companyID, accountID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(companyID, accountID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading balance version: %w", err)
	}
	return v, nil
}

func (c *BalanceCache) Get(ctx context.Context, companyID, accountID string, version int64, asOfKey string) (decimal.Decimal, bool, error) {
	raw, err := c.client.HGet(ctx, valuesKey(companyID, accountID, version), asOfKey).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("reading cached balance: %w", err)
	}
	net, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("decoding cached balance %q: %w", raw, err)
	}
	return net, true, nil
}

func (c *BalanceCache) Set(ctx context.Context, companyID, accountID string, version int64, asOfKey string, net decimal.Decimal) error {
	key := valuesKey(companyID, accountID, version)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, asOfKey, net.String())
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing cached balance: %w", err)
	}
	return nil
}

// Invalidate bumps the version of every account.
func (c *BalanceCache) Invalidate(ctx context.Context, companyID string, accountIDs ...string) error {
	if len(accountIDs) == 0 {
		return nil
	}
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range accountIDs {
			pipe.Incr(ctx, versionKey(companyID, id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidating balances: %w", err)
	}
	return nil
}
