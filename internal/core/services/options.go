package services

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/adapters/locking"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/core/templates"
)

// ServiceOption is a functional option for configuring the ledger services
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	locker               portsrepo.SubtreeLocker
	cache                portsrepo.BalanceCache
	metrics              portssvc.MetricsRecorder
	retry                RetryPolicy
	now                  func() time.Time
	templates            *templates.Registry
	integrityConcurrency int
}

// WithSubtreeLocker sets the locker guarding structural mutations.
func WithSubtreeLocker(l portsrepo.SubtreeLocker) ServiceOption {
	return func(o *serviceOptions) {
		o.locker = l
	}
}

// WithBalanceCache enables caching of leaf sums.
func WithBalanceCache(c portsrepo.BalanceCache) ServiceOption {
	return func(o *serviceOptions) {
		o.cache = c
	}
}

// WithMetrics sets the recorder for posting, retry and cache metrics.
func WithMetrics(m portssvc.MetricsRecorder) ServiceOption {
	return func(o *serviceOptions) {
		o.metrics = m
	}
}

// WithRetryPolicy overrides the retry policy for ErrConcurrency failures.
func WithRetryPolicy(p RetryPolicy) ServiceOption {
	return func(o *serviceOptions) {
		o.retry = p
	}
}

// WithClock overrides the wall clock used for audit timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(o *serviceOptions) {
		o.now = now
	}
}

// WithTemplates sets the chart template registry.
func WithTemplates(r *templates.Registry) ServiceOption {
	return func(o *serviceOptions) {
		o.templates = r
	}
}

// WithIntegrityConcurrency bounds how many companies are checked at once.
func WithIntegrityConcurrency(n int) ServiceOption {
	return func(o *serviceOptions) {
		o.integrityConcurrency = n
	}
}

func buildOptions(opts []ServiceOption) serviceOptions {
	o := serviceOptions{
		retry:                DefaultRetryPolicy,
		integrityConcurrency: 4,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.locker == nil {
		o.locker = locking.NewLocalLocker()
	}
	if o.cache == nil {
		o.cache = nopCache{}
	}
	if o.metrics == nil {
		o.metrics = nopMetrics{}
	}
	if o.templates == nil {
		o.templates = templates.NewRegistry()
	}
	if o.integrityConcurrency < 1 {
		o.integrityConcurrency = 1
	}
	return o
}

func (o serviceOptions) base() BaseService {
	return BaseService{Now: o.now}
}

func (o serviceOptions) invalidator() *balanceInvalidator {
	return &balanceInvalidator{BaseService: o.base(), cache: o.cache, retry: o.retry, metrics: o.metrics}
}

func (o serviceOptions) structural() *structuralRunner {
	return &structuralRunner{BaseService: o.base(), locker: o.locker, retry: o.retry, metrics: o.metrics}
}
