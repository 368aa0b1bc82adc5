package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

// balanceService computes balances from GL lines. Leaf sums may be served from cache.
type balanceService struct {
	BaseService
	uow         portsrepo.UnitOfWork
	accountRepo portsrepo.AccountReader
	cache       portsrepo.BalanceCache
	metrics     portssvc.MetricsRecorder
	fills       singleflight.Group
}

// NewBalanceService creates the balance calculator.
func NewBalanceService(repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.BalanceSvc {
	o := buildOptions(options)
	return &balanceService{
		BaseService: o.base(),
		uow:         repos.UnitOfWork,
		accountRepo: repos.AccountRepo,
		cache:       o.cache,
		metrics:     o.metrics,
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// AsOfKey names a point in time for cache lookups.
func AsOfKey(asOf *time.Time) string {
	if asOf == nil {
		return "all"
	}
	return domain.NormalizeDate(*asOf).Format(domain.DateLayout)
}

// signed converts a raw debit-minus-credit figure to the account type's normal sign.
func signed(t domain.AccountType, net decimal.Decimal) decimal.Decimal {
	if t.IsCreditNormal() {
		return net.Neg()
	}
	return net
}

func normalizeAsOf(asOf *time.Time) *time.Time {
	if asOf == nil {
		return nil
	}
	d := domain.NormalizeDate(*asOf)
	return &d
}

func (s *balanceService) BalanceOf(ctx context.Context, companyID, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	asOf = normalizeAsOf(asOf)
	acc, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if !acc.IsGroup {
		net, err := s.leafNet(ctx, companyID, accountID, asOf)
		if err != nil {
			return decimal.Zero, err
		}
		return signed(acc.AccountType, net), nil
	}

	var net decimal.Decimal
	err = s.uow.WithSnapshot(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		all, err := repos.Accounts().ListAccounts(ctx, companyID, domain.AccountFilter{IncludeInactive: true})
		if err != nil {
			return err
		}
		leaves, err := subtreeLeaves(all, accountID)
		if err != nil {
			return err
		}
		if len(leaves) == 0 {
			net = decimal.Zero
			return nil
		}
		sums, err := repos.Journals().SumByAccounts(ctx, companyID, leaves, asOf)
		if err != nil {
			return err
		}
		net = decimal.Zero
		for _, id := range leaves {
			net = net.Add(sums[id].Net())
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to compute group balance",
			slog.String("company_id", companyID),
			slog.String("account_id", accountID))
		return decimal.Zero, err
	}
	return signed(acc.AccountType, net), nil
}

// subtreeLeaves returns the leaf ids under rootID. A revisited node means the
// stored hierarchy is corrupt.
func subtreeLeaves(accounts []domain.Account, rootID string) ([]string, error) {
	children := make(map[string][]domain.Account)
	byID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.AccountID] = a
		if a.ParentAccountID != "" {
			children[a.ParentAccountID] = append(children[a.ParentAccountID], a)
		}
	}
	root, ok := byID[rootID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, rootID)
	}
	visited := map[string]bool{}
	leaves := []string{}
	stack := []domain.Account{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n.AccountID] {
			return nil, fmt.Errorf("%w: account hierarchy cycles through %s", apperrors.ErrInternal, n.AccountID)
		}
		visited[n.AccountID] = true
		if !n.IsGroup {
			leaves = append(leaves, n.AccountID)
			continue
		}
		stack = append(stack, children[n.AccountID]...)
	}
	return leaves, nil
}

// leafNet returns the raw net of a leaf. The cache version is read before the
// snapshot opens so a concurrent invalidation can only orphan the stored value.
func (s *balanceService) leafNet(ctx context.Context, companyID, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	key := AsOfKey(asOf)
	version, err := s.cache.Version(ctx, companyID, accountID)
	cacheUsable := err == nil
	if err != nil {
		s.LogWarn(ctx, "Balance cache unavailable", slog.String("account_id", accountID), slog.String("error", err.Error()))
	}
	if cacheUsable {
		net, hit, err := s.cache.Get(ctx, companyID, accountID, version, key)
		if err != nil {
			s.LogWarn(ctx, "Balance cache read failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
		} else {
			s.metrics.ObserveCacheLookup(hit)
			if hit {
				return net, nil
			}
		}
	}

	flightKey := fmt.Sprintf("%s|%s|%d|%s|%t", companyID, accountID, version, key, cacheUsable)
	v, err, _ := s.fills.Do(flightKey, func() (any, error) {
		var net decimal.Decimal
		err := s.uow.WithSnapshot(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			sums, err := repos.Journals().SumByAccounts(ctx, companyID, []string{accountID}, asOf)
			if err != nil {
				return err
			}
			net = sums[accountID].Net()
			return nil
		})
		if err != nil {
			return nil, err
		}
		if cacheUsable {
			if err := s.cache.Set(ctx, companyID, accountID, version, key, net); err != nil {
				s.LogWarn(ctx, "Balance cache write failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
			}
		}
		return net, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

func (s *balanceService) HierarchyWithBalances(ctx context.Context, companyID string, filter domain.AccountFilter, asOf *time.Time) ([]*domain.AccountNode, error) {
	asOf = normalizeAsOf(asOf)
	var all []domain.Account
	var sums map[string]domain.LedgerTotals
	err := s.uow.WithSnapshot(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		all, err = repos.Accounts().ListAccounts(ctx, companyID, domain.AccountFilter{IncludeInactive: true})
		if err != nil {
			return err
		}
		leaves := make([]string, 0, len(all))
		for _, a := range all {
			if !a.IsGroup {
				leaves = append(leaves, a.AccountID)
			}
		}
		sums, err = repos.Journals().SumByAccounts(ctx, companyID, leaves, asOf)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load hierarchy balances", slog.String("company_id", companyID))
		return nil, err
	}

	nets := make(map[string]decimal.Decimal, len(all))
	visited := make(map[string]bool, len(all))
	var rollUp func(n *domain.AccountNode) decimal.Decimal
	rollUp = func(n *domain.AccountNode) decimal.Decimal {
		if visited[n.AccountID] {
			return decimal.Zero
		}
		visited[n.AccountID] = true
		net := sums[n.AccountID].Net()
		if n.IsGroup {
			net = decimal.Zero
			for _, c := range n.Children {
				net = net.Add(rollUp(c))
			}
		}
		nets[n.AccountID] = net
		return net
	}
	for _, root := range domain.BuildForest(all) {
		rollUp(root)
	}

	shown := make([]domain.Account, 0, len(all))
	for _, a := range all {
		if filter.Matches(a) {
			shown = append(shown, a)
		}
	}
	forest := domain.BuildForest(shown)
	domain.Walk(forest, func(n *domain.AccountNode) {
		n.Balance = signed(n.AccountType, nets[n.AccountID])
	})
	return forest, nil
}
