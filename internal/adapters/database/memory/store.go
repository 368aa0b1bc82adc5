// Package memory implements the repository ports over in-process maps.
// Every transaction works on a private copy of the state that replaces the
// shared state on commit, which gives serializable semantics.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

var errReadOnly = errors.New("write attempted in a read-only snapshot")

type state struct {
	accounts  map[string]domain.Account
	codes     map[string]string // companyID|code -> accountID
	entries   map[string]domain.JournalEntry
	lines     []domain.GLEntry
	sequences map[string]int64
	years     map[string]domain.FiscalYear
	periods   map[string]domain.FiscalPeriod
}

func newState() *state {
	return &state{
		accounts:  make(map[string]domain.Account),
		codes:     make(map[string]string),
		entries:   make(map[string]domain.JournalEntry),
		sequences: make(map[string]int64),
		years:     make(map[string]domain.FiscalYear),
		periods:   make(map[string]domain.FiscalPeriod),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:  make(map[string]domain.Account, len(s.accounts)),
		codes:     make(map[string]string, len(s.codes)),
		entries:   make(map[string]domain.JournalEntry, len(s.entries)),
		lines:     make([]domain.GLEntry, len(s.lines)),
		sequences: make(map[string]int64, len(s.sequences)),
		years:     make(map[string]domain.FiscalYear, len(s.years)),
		periods:   make(map[string]domain.FiscalPeriod, len(s.periods)),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.codes {
		c.codes[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	copy(c.lines, s.lines)
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.years {
		c.years[k] = v
	}
	for k, v := range s.periods {
		c.periods[k] = v
	}
	return c
}

func codeKey(companyID, code string) string {
	return companyID + "|" + code
}

// access abstracts how a repository reaches the state: through the store
// locks, or directly inside a transaction that already holds them.
type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store is an in-memory ledger database.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.state.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.state = work
	return nil
}

// WithTx runs fn against a private copy of the state and publishes it when fn succeeds.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(func(st *state) error {
		return fn(ctx, newTxRepos(&txAccess{st: st}))
	})
}

// WithSnapshot runs fn read-only against the current state.
func (s *Store) WithSnapshot(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.read(func(st *state) error {
		return fn(ctx, newTxRepos(&txAccess{st: st, readOnly: true}))
	})
}

// Repositories returns the provider backed by this store.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UnitOfWork:  s,
		AccountRepo: &accountRepository{db: s},
		JournalRepo: &journalRepository{db: s},
		FiscalRepo:  &fiscalRepository{db: s},
	}
}

type txAccess struct {
	st       *state
	readOnly bool
}

func (t *txAccess) read(fn func(st *state) error) error {
	return fn(t.st)
}

func (t *txAccess) write(fn func(st *state) error) error {
	if t.readOnly {
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, errReadOnly)
	}
	return fn(t.st)
}

type txRepos struct {
	accounts *accountRepository
	journals *journalRepository
	fiscal   *fiscalRepository
}

func newTxRepos(db access) *txRepos {
	return &txRepos{
		accounts: &accountRepository{db: db},
		journals: &journalRepository{db: db},
		fiscal:   &fiscalRepository{db: db},
	}
}

func (r *txRepos) Accounts() portsrepo.AccountRepositoryFacade { return r.accounts }
func (r *txRepos) Journals() portsrepo.JournalRepositoryFacade { return r.journals }
func (r *txRepos) Fiscal() portsrepo.FiscalRepositoryFacade    { return r.fiscal }
