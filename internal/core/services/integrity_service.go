package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

// integrityService audits stored ledger data against the posting invariants.
type integrityService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.LedgerReader
	cache       portsrepo.BalanceCache
	concurrency int
}

// NewIntegrityService creates the ledger integrity checker.
func NewIntegrityService(repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.IntegritySvc {
	o := buildOptions(options)
	return &integrityService{
		BaseService: o.base(),
		accountRepo: repos.AccountRepo,
		journalRepo: repos.JournalRepo,
		cache:       o.cache,
		concurrency: o.integrityConcurrency,
	}
}

var _ portssvc.IntegritySvc = (*integrityService)(nil)

func (s *integrityService) Check(ctx context.Context, companyID string) (*domain.IntegrityReport, error) {
	report := &domain.IntegrityReport{
		CompanyID:         companyID,
		CheckedAt:         s.now(),
		UnbalancedEntries: []string{},
		EntriesOnGroups:   []string{},
		CacheDrift:        []domain.BalanceDrift{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.journalRepo.FindUnbalancedJournalEntries(gctx, companyID)
		if err != nil {
			return err
		}
		report.UnbalancedEntries = append(report.UnbalancedEntries, ids...)
		return nil
	})
	g.Go(func() error {
		ids, err := s.journalRepo.FindEntriesOnGroupAccounts(gctx, companyID)
		if err != nil {
			return err
		}
		report.EntriesOnGroups = append(report.EntriesOnGroups, ids...)
		return nil
	})
	g.Go(func() error {
		drift, checked, err := s.cacheDrift(gctx, companyID)
		if err != nil {
			return err
		}
		report.CacheDrift = append(report.CacheDrift, drift...)
		report.LeafAccountsChecked = checked
		return nil
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Integrity check failed", slog.String("company_id", companyID))
		return nil, err
	}

	if report.Healthy() {
		s.LogDebug(ctx, "Integrity check passed", slog.String("company_id", companyID))
	} else {
		s.LogWarn(ctx, "Integrity check found problems",
			slog.String("company_id", companyID),
			slog.Int("unbalanced_entries", len(report.UnbalancedEntries)),
			slog.Int("entries_on_groups", len(report.EntriesOnGroups)),
			slog.Int("cache_drift", len(report.CacheDrift)))
	}
	return report, nil
}

// cacheDrift compares every cached all-time leaf sum with a fresh replay.
// Drifting entries are invalidated.
func (s *integrityService) cacheDrift(ctx context.Context, companyID string) ([]domain.BalanceDrift, int, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, domain.AccountFilter{IncludeInactive: true})
	if err != nil {
		return nil, 0, err
	}
	type cached struct {
		version int64
		net     decimal.Decimal
	}
	hits := make(map[string]cached)
	leaves := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if a.IsGroup {
			continue
		}
		leaves = append(leaves, a.AccountID)
		version, err := s.cache.Version(ctx, companyID, a.AccountID)
		if err != nil {
			return nil, 0, err
		}
		net, ok, err := s.cache.Get(ctx, companyID, a.AccountID, version, AsOfKey(nil))
		if err != nil {
			return nil, 0, err
		}
		if ok {
			hits[a.AccountID] = cached{version: version, net: net}
		}
	}
	if len(hits) == 0 {
		return nil, len(leaves), nil
	}

	sums, err := s.journalRepo.SumByAccounts(ctx, companyID, leaves, nil)
	if err != nil {
		return nil, 0, err
	}
	drift := []domain.BalanceDrift{}
	for id, c := range hits {
		replayed := sums[id].Net()
		if c.net.Equal(replayed) {
			continue
		}
		// a posting that landed between the read and the replay bumps the version
		current, err := s.cache.Version(ctx, companyID, id)
		if err != nil {
			return nil, 0, err
		}
		if current != c.version {
			continue
		}
		drift = append(drift, domain.BalanceDrift{AccountID: id, Cached: c.net, Replayed: replayed})
		if err := s.cache.Invalidate(ctx, companyID, id); err != nil {
			s.LogWarn(ctx, "Failed to invalidate drifting cache entry", slog.String("account_id", id), slog.String("error", err.Error()))
		}
	}
	sort.Slice(drift, func(i, j int) bool { return drift[i].AccountID < drift[j].AccountID })
	return drift, len(leaves), nil
}

func (s *integrityService) CheckAll(ctx context.Context) ([]domain.IntegrityReport, error) {
	companies, err := s.accountRepo.ListCompanyIDs(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	reports := make([]domain.IntegrityReport, 0, len(companies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, companyID := range companies {
		g.Go(func() error {
			report, err := s.Check(gctx, companyID)
			if err != nil {
				return err
			}
			mu.Lock()
			reports = append(reports, *report)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].CompanyID < reports[j].CompanyID })
	return reports, nil
}
