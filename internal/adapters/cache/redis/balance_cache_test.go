package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	cache "github.com/SscSPs/general_ledger/internal/adapters/cache/redis"
)

type BalanceCacheTestSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	cache *cache.BalanceCache
	ctx   context.Context
}

func (s *BalanceCacheTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: s.mr.Addr()})
	s.T().Cleanup(func() { _ = client.Close() })
	s.cache = cache.NewBalanceCache(client, time.Minute)
	s.ctx = context.Background()
}

func (s *BalanceCacheTestSuite) TestMissThenHit() {
	v, err := s.cache.Version(s.ctx, "c1", "a1")
	s.Require().NoError(err)
	s.Equal(int64(0), v)

	_, ok, err := s.cache.Get(s.ctx, "c1", "a1", v, "all")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.cache.Set(s.ctx, "c1", "a1", v, "all", decimal.RequireFromString("-12.50")))
	got, ok, err := s.cache.Get(s.ctx, "c1", "a1", v, "all")
	s.Require().NoError(err)
	s.True(ok)
	s.True(got.Equal(decimal.RequireFromString("-12.5")))

	_, ok, err = s.cache.Get(s.ctx, "c1", "a1", v, "2024-01-31")
	s.Require().NoError(err)
	s.False(ok, "as-of keys are cached independently")
}

func (s *BalanceCacheTestSuite) TestInvalidateOrphansOldVersion() {
	v, _ := s.cache.Version(s.ctx, "c1", "a1")
	s.Require().NoError(s.cache.Set(s.ctx, "c1", "a1", v, "all", decimal.NewFromInt(100)))

	s.Require().NoError(s.cache.Invalidate(s.ctx, "c1", "a1", "a2"))

	next, err := s.cache.Version(s.ctx, "c1", "a1")
	s.Require().NoError(err)
	s.Equal(v+1, next)
	_, ok, err := s.cache.Get(s.ctx, "c1", "a1", next, "all")
	s.Require().NoError(err)
	s.False(ok)

	other, _ := s.cache.Version(s.ctx, "c1", "a2")
	s.Equal(int64(1), other)
}

func (s *BalanceCacheTestSuite) TestStaleWriterCannotResurrect() {
	// reader captures the version, a posting invalidates, the reader then stores
	v, _ := s.cache.Version(s.ctx, "c1", "a1")
	s.Require().NoError(s.cache.Invalidate(s.ctx, "c1", "a1"))
	s.Require().NoError(s.cache.Set(s.ctx, "c1", "a1", v, "all", decimal.NewFromInt(5)))

	current, _ := s.cache.Version(s.ctx, "c1", "a1")
	_, ok, err := s.cache.Get(s.ctx, "c1", "a1", current, "all")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *BalanceCacheTestSuite) TestEntriesExpire() {
	s.Require().NoError(s.cache.Set(s.ctx, "c1", "a1", 0, "all", decimal.NewFromInt(1)))
	s.mr.FastForward(2 * time.Minute)
	_, ok, err := s.cache.Get(s.ctx, "c1", "a1", 0, "all")
	s.Require().NoError(err)
	s.False(ok)
}

func TestBalanceCacheTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceCacheTestSuite))
}
