package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	cache "github.com/SscSPs/general_ledger/internal/adapters/cache/redis"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/core/services"
)

// flakyCache fails the first failures calls to Invalidate.
type flakyCache struct {
	*cache.BalanceCache
	failures    int
	invalidates int
}

func (c *flakyCache) Invalidate(ctx context.Context, companyID string, accountIDs ...string) error {
	c.invalidates++
	if c.invalidates <= c.failures {
		return errors.New("redis: connection reset")
	}
	return c.BalanceCache.Invalidate(ctx, companyID, accountIDs...)
}

// chart builds Assets(1000) > {Current(1100) > {Cash 1110, Bank 1120}, Equipment 1500}
// plus Income 4000 > Sales 4100, and posts three entries.
func (s *LedgerTestSuite) chart() map[string]*domain.Account {
	accs := map[string]*domain.Account{}
	accs["1000"] = s.create("1000", domain.Asset, "", true)
	accs["1100"] = s.create("1100", domain.Asset, accs["1000"].AccountID, true)
	accs["1110"] = s.create("1110", domain.Asset, accs["1100"].AccountID, false)
	accs["1120"] = s.create("1120", domain.Asset, accs["1100"].AccountID, false)
	accs["1500"] = s.create("1500", domain.Asset, accs["1000"].AccountID, false)
	accs["4000"] = s.create("4000", domain.Income, "", true)
	accs["4100"] = s.create("4100", domain.Income, accs["4000"].AccountID, false)

	s.mustPost("2024-01-10", line(accs["1110"].AccountID, "100", "0"), line(accs["4100"].AccountID, "0", "100"))
	s.mustPost("2024-03-05", line(accs["1120"].AccountID, "250.25", "0"), line(accs["4100"].AccountID, "0", "250.25"))
	s.mustPost("2024-04-01", line(accs["1500"].AccountID, "60", "0"), line(accs["1110"].AccountID, "0", "60"))
	return accs
}

func (s *LedgerTestSuite) TestBalanceOf_SignsAndAsOf() {
	accs := s.chart()

	s.assertDecimal("40", s.balance(accs["1110"].AccountID))
	s.assertDecimal("350.25", s.balance(accs["4100"].AccountID))
	s.assertDecimal("350.25", s.balance(accs["4000"].AccountID))

	asOf := mustDate("2024-03-31")
	b, err := s.svc.Balance.BalanceOf(s.ctx, company, accs["1000"].AccountID, &asOf)
	s.Require().NoError(err)
	s.assertDecimal("350.25", b)

	b, err = s.svc.Balance.BalanceOf(s.ctx, company, accs["1110"].AccountID, &asOf)
	s.Require().NoError(err)
	s.assertDecimal("100", b)

	early := mustDate("2024-01-09")
	b, err = s.svc.Balance.BalanceOf(s.ctx, company, accs["4100"].AccountID, &early)
	s.Require().NoError(err)
	s.assertDecimal("0", b)
}

func (s *LedgerTestSuite) TestBalanceOf_GroupEqualsSumOfChildren() {
	accs := s.chart()
	for _, code := range []string{"1000", "1100", "4000"} {
		group := accs[code]
		children, err := s.svc.Account.Children(s.ctx, company, group.AccountID)
		s.Require().NoError(err)
		sum := decimal.Zero
		for _, c := range children {
			sum = sum.Add(s.balance(c.AccountID))
		}
		s.True(sum.Equal(s.balance(group.AccountID)), "group %s", code)
	}
}

func (s *LedgerTestSuite) TestHierarchyWithBalances() {
	accs := s.chart()
	// an inactive leaf with history still counts toward its group
	s.mustPost("2024-04-02", line(accs["1120"].AccountID, "0", "250.25"), line(accs["1110"].AccountID, "250.25", "0"))
	s.Require().NoError(s.svc.Account.DeactivateAccount(s.ctx, company, accs["1120"].AccountID, "actor"))

	forest, err := s.svc.Balance.HierarchyWithBalances(s.ctx, company, domain.AccountFilter{}, nil)
	s.Require().NoError(err)
	s.Require().Len(forest, 2)

	byCode := map[string]*domain.AccountNode{}
	domain.Walk(forest, func(n *domain.AccountNode) { byCode[n.Code] = n })
	s.NotContains(byCode, "1120")
	s.assertDecimal("350.25", byCode["1000"].Balance)
	s.assertDecimal("290.25", byCode["1100"].Balance)
	s.assertDecimal("290.25", byCode["1110"].Balance)
	s.assertDecimal("60", byCode["1500"].Balance)
	s.assertDecimal("350.25", byCode["4000"].Balance)

	asOf := mustDate("2024-03-31")
	forest, err = s.svc.Balance.HierarchyWithBalances(s.ctx, company, domain.AccountFilter{IncludeInactive: true}, &asOf)
	s.Require().NoError(err)
	byCode = map[string]*domain.AccountNode{}
	domain.Walk(forest, func(n *domain.AccountNode) { byCode[n.Code] = n })
	s.Contains(byCode, "1120")
	s.assertDecimal("250.25", byCode["1120"].Balance)
	s.assertDecimal("350.25", byCode["1100"].Balance)

	// every group equals the sum of its children
	domain.Walk(forest, func(n *domain.AccountNode) {
		if !n.IsGroup {
			return
		}
		sum := decimal.Zero
		for _, c := range n.Children {
			sum = sum.Add(c.Balance)
		}
		s.True(sum.Equal(n.Balance), "group %s", n.Code)
	})
}

func (s *LedgerTestSuite) TestBalanceOf_CacheStaysInSyncWithPostings() {
	accs := s.chart()
	cash := accs["1110"].AccountID

	s.assertDecimal("40", s.balance(cash))

	version, err := s.cache.Version(s.ctx, company, cash)
	s.Require().NoError(err)
	cached, ok, err := s.cache.Get(s.ctx, company, cash, version, services.AsOfKey(nil))
	s.Require().NoError(err)
	s.Require().True(ok)
	s.assertDecimal("40", cached)

	s.mustPost("2024-05-01", line(cash, "10", "0"), line(accs["4100"].AccountID, "0", "10"))
	s.assertDecimal("50", s.balance(cash))

	next, err := s.cache.Version(s.ctx, company, cash)
	s.Require().NoError(err)
	s.Greater(next, version)

	report, err := s.svc.Integrity.Check(s.ctx, company)
	s.Require().NoError(err)
	s.True(report.Healthy())
}

func (s *LedgerTestSuite) TestBalanceOf_TransientInvalidationFailureIsRetried() {
	accs := s.chart()
	cash := accs["1110"].AccountID

	flaky := &flakyCache{BalanceCache: s.cache, failures: 1}
	s.svc = services.NewServiceContainer(s.store.Repositories(),
		services.WithSubtreeLocker(s.locker),
		services.WithBalanceCache(flaky),
		services.WithRetryPolicy(services.RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}),
	)
	s.assertDecimal("40", s.balance(cash))

	s.mustPost("2024-05-01", line(cash, "10", "0"), line(accs["4100"].AccountID, "0", "10"))
	s.Equal(2, flaky.invalidates)
	s.assertDecimal("50", s.balance(cash))
}
