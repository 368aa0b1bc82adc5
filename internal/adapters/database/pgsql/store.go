// Package pgsql implements the repository ports on PostgreSQL through pgx.
package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is satisfied by both the pool and a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store runs units of work on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// NewStore wraps pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// WithTx runs fn in a READ COMMITTED transaction. Row locks taken through the
// account repository serialize conflicting writers.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	return s.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// WithSnapshot runs fn in a REPEATABLE READ, READ ONLY transaction so every
// statement sees the same snapshot.
func (s *Store) WithSnapshot(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	return s.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (s *Store) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return mapError(err, "failed to begin transaction")
	}
	// No-op once committed
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(ctx, newTxRepos(tx, true)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "failed to commit transaction")
	}
	return nil
}

// NewRepositoryProvider wires the pgx-backed repositories.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UnitOfWork:  NewStore(pool),
		AccountRepo: &accountRepository{db: pool},
		JournalRepo: &journalRepository{db: pool},
		FiscalRepo:  &fiscalRepository{db: pool},
	}
}

type txRepos struct {
	accounts *accountRepository
	journals *journalRepository
	fiscal   *fiscalRepository
}

func newTxRepos(db dbtx, inTx bool) *txRepos {
	return &txRepos{
		accounts: &accountRepository{db: db, inTx: inTx},
		journals: &journalRepository{db: db},
		fiscal:   &fiscalRepository{db: db},
	}
}

func (r *txRepos) Accounts() portsrepo.AccountRepositoryFacade { return r.accounts }
func (r *txRepos) Journals() portsrepo.JournalRepositoryFacade { return r.journals }
func (r *txRepos) Fiscal() portsrepo.FiscalRepositoryFacade    { return r.fiscal }

// PostgreSQL SQLSTATE codes the adapter translates.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeReadOnlyTransaction  = "25006"
)

// mapError translates driver errors into application errors.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, msg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrDuplicate, msg, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, msg, pgErr.ConstraintName)
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%w: %s: %v", apperrors.ErrConcurrency, msg, err)
		case codeReadOnlyTransaction:
			return fmt.Errorf("%w: %s: %v", apperrors.ErrInternal, msg, err)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
