package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, company_id, code, name, account_type, parent_account_id, currency_code,
	is_group, is_active, description, created_at, created_by, last_updated_at, last_updated_by`

type accountRepository struct {
	db   dbtx
	inTx bool
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query accounts")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError(err, "failed to scan accounts")
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

func (r *accountRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	accounts, err := r.queryAccounts(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &accounts[0], nil
}

func (r *accountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	acc, err := r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 AND account_id = $2`, companyID, accountID)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", accountID, err)
	}
	return acc, nil
}

func (r *accountRepository) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	acc, err := r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 AND code = $2`, companyID, code)
	if err != nil {
		return nil, fmt.Errorf("account code %s: %w", code, err)
	}
	return acc, nil
}

func (r *accountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	accounts, err := r.queryAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 AND account_id = ANY($2)`, companyID, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, companyID string, filter domain.AccountFilter) ([]domain.Account, error) {
	var accountType *string
	if filter.AccountType != nil {
		t := string(*filter.AccountType)
		accountType = &t
	}
	return r.queryAccounts(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE company_id = $1
		  AND ($2 OR is_active)
		  AND ($3::text IS NULL OR account_type = $3)
		ORDER BY code, account_id`,
		companyID, filter.IncludeInactive, accountType)
}

func (r *accountRepository) ListChildren(ctx context.Context, companyID, parentID string) ([]domain.Account, error) {
	return r.queryAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 AND parent_account_id = $2 ORDER BY code, account_id`,
		companyID, parentID)
}

func (r *accountRepository) ListCompanyIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT company_id FROM accounts ORDER BY company_id`)
	if err != nil {
		return nil, mapError(err, "failed to list companies")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err, "failed to scan companies")
	}
	return ids, nil
}

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	_, err := r.db.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.AccountID, m.CompanyID, m.Code, m.Name, m.AccountType, m.ParentAccountID, m.CurrencyCode,
		m.IsGroup, m.IsActive, m.Description, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapError(err, "failed to save account "+m.AccountID)
}

func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET code = $3, name = $4, parent_account_id = $5, is_group = $6, is_active = $7,
		    description = $8, last_updated_at = $9, last_updated_by = $10
		WHERE company_id = $1 AND account_id = $2`,
		m.CompanyID, m.AccountID, m.Code, m.Name, m.ParentAccountID, m.IsGroup, m.IsActive,
		m.Description, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "failed to update account "+m.AccountID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", m.AccountID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *accountRepository) DeleteAccount(ctx context.Context, companyID, accountID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE company_id = $1 AND account_id = $2`, companyID, accountID)
	if err != nil {
		return mapError(err, "failed to delete account "+accountID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *accountRepository) ReparentChildren(ctx context.Context, companyID, fromParentID, toParentID, actorID string, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts SET parent_account_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND parent_account_id = $2`,
		companyID, fromParentID, toParentID, now, actorID)
	if err != nil {
		return 0, mapError(err, "failed to reparent children of "+fromParentID)
	}
	return tag.RowsAffected(), nil
}

// Rows are locked in id order so concurrent lockers cannot deadlock each other.
func (r *accountRepository) lockAccounts(ctx context.Context, mode, companyID string, accountIDs []string) error {
	if !r.inTx || len(accountIDs) == 0 {
		return nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT account_id FROM accounts WHERE company_id = $1 AND account_id = ANY($2) ORDER BY account_id FOR `+mode,
		companyID, accountIDs)
	if err != nil {
		return mapError(err, "failed to lock accounts")
	}
	rows.Close()
	return mapError(rows.Err(), "failed to lock accounts")
}

func (r *accountRepository) LockAccountsForShare(ctx context.Context, companyID string, accountIDs []string) error {
	return r.lockAccounts(ctx, "SHARE", companyID, accountIDs)
}

func (r *accountRepository) LockAccountsForUpdate(ctx context.Context, companyID string, accountIDs []string) error {
	return r.lockAccounts(ctx, "UPDATE", companyID, accountIDs)
}
