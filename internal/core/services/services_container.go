package services

import (
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// All services share the options, so a single locker and cache serve the whole ledger.
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	o := buildOptions(options)
	shared := []ServiceOption{
		WithSubtreeLocker(o.locker),
		WithBalanceCache(o.cache),
		WithMetrics(o.metrics),
		WithRetryPolicy(o.retry),
		WithClock(o.now),
		WithTemplates(o.templates),
		WithIntegrityConcurrency(o.integrityConcurrency),
	}

	return &portssvc.ServiceContainer{
		Account:     NewAccountService(repos, shared...),
		Fiscal:      NewFiscalCalendarService(repos, shared...),
		Journal:     NewJournalService(repos, shared...),
		Balance:     NewBalanceService(repos, shared...),
		Maintenance: NewMaintenanceService(repos, shared...),
		Integrity:   NewIntegrityService(repos, shared...),
	}
}
