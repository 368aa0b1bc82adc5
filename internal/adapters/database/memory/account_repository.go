package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

type accountRepository struct {
	db access
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func findAccount(st *state, companyID, accountID string) (domain.Account, error) {
	acc, ok := st.accounts[accountID]
	if !ok || acc.CompanyID != companyID {
		return domain.Account{}, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return acc, nil
}

func (r *accountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	var out domain.Account
	err := r.db.read(func(st *state) error {
		acc, err := findAccount(st, companyID, accountID)
		out = acc
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *accountRepository) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	var out domain.Account
	err := r.db.read(func(st *state) error {
		id, ok := st.codes[codeKey(companyID, code)]
		if !ok {
			return fmt.Errorf("%w: account with code %s", apperrors.ErrNotFound, code)
		}
		out = st.accounts[id]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *accountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	err := r.db.read(func(st *state) error {
		for _, id := range accountIDs {
			if acc, err := findAccount(st, companyID, id); err == nil {
				out[id] = acc
			}
		}
		return nil
	})
	return out, err
}

func (r *accountRepository) ListAccounts(ctx context.Context, companyID string, filter domain.AccountFilter) ([]domain.Account, error) {
	out := make([]domain.Account, 0)
	err := r.db.read(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.CompanyID == companyID && filter.Matches(acc) {
				out = append(out, acc)
			}
		}
		return nil
	})
	domain.SortAccountsByCode(out)
	return out, err
}

func (r *accountRepository) ListChildren(ctx context.Context, companyID, parentID string) ([]domain.Account, error) {
	out := make([]domain.Account, 0)
	err := r.db.read(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.CompanyID == companyID && acc.ParentAccountID == parentID && parentID != "" {
				out = append(out, acc)
			}
		}
		return nil
	})
	domain.SortAccountsByCode(out)
	return out, err
}

func (r *accountRepository) ListCompanyIDs(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	err := r.db.read(func(st *state) error {
		for _, acc := range st.accounts {
			seen[acc.CompanyID] = true
		}
		return nil
	})
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, err
}

func checkParent(st *state, acc domain.Account) error {
	if acc.ParentAccountID == "" {
		return nil
	}
	if _, err := findAccount(st, acc.CompanyID, acc.ParentAccountID); err != nil {
		return fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, acc.ParentAccountID)
	}
	return nil
}

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.db.write(func(st *state) error {
		if _, exists := st.accounts[account.AccountID]; exists {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
		}
		key := codeKey(account.CompanyID, account.Code)
		if _, exists := st.codes[key]; exists {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, account.Code)
		}
		if err := checkParent(st, account); err != nil {
			return err
		}
		st.accounts[account.AccountID] = account
		st.codes[key] = account.AccountID
		return nil
	})
}

func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return r.db.write(func(st *state) error {
		current, err := findAccount(st, account.CompanyID, account.AccountID)
		if err != nil {
			return err
		}
		if current.Code != account.Code {
			key := codeKey(account.CompanyID, account.Code)
			if _, exists := st.codes[key]; exists {
				return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, account.Code)
			}
			delete(st.codes, codeKey(current.CompanyID, current.Code))
			st.codes[key] = account.AccountID
		}
		if err := checkParent(st, account); err != nil {
			return err
		}
		account.CreatedAt, account.CreatedBy = current.CreatedAt, current.CreatedBy
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (r *accountRepository) DeleteAccount(ctx context.Context, companyID, accountID string) error {
	return r.db.write(func(st *state) error {
		acc, err := findAccount(st, companyID, accountID)
		if err != nil {
			return err
		}
		for _, other := range st.accounts {
			if other.ParentAccountID == accountID {
				return fmt.Errorf("%w: account %s still has children", apperrors.ErrConflict, accountID)
			}
		}
		for _, l := range st.lines {
			if l.AccountID == accountID {
				return fmt.Errorf("%w: account %s has ledger history", apperrors.ErrConflict, accountID)
			}
		}
		delete(st.accounts, accountID)
		delete(st.codes, codeKey(companyID, acc.Code))
		return nil
	})
}

func (r *accountRepository) ReparentChildren(ctx context.Context, companyID, fromParentID, toParentID, actorID string, now time.Time) (int64, error) {
	var moved int64
	err := r.db.write(func(st *state) error {
		for id, acc := range st.accounts {
			if acc.CompanyID != companyID || acc.ParentAccountID != fromParentID {
				continue
			}
			acc.ParentAccountID = toParentID
			acc.LastUpdatedAt = now
			acc.LastUpdatedBy = actorID
			st.accounts[id] = acc
			moved++
		}
		return nil
	})
	return moved, err
}

// LockAccountsForShare is a no-op: transactions are already serialized.
func (r *accountRepository) LockAccountsForShare(ctx context.Context, companyID string, accountIDs []string) error {
	return nil
}

// LockAccountsForUpdate is a no-op: transactions are already serialized.
func (r *accountRepository) LockAccountsForUpdate(ctx context.Context, companyID string, accountIDs []string) error {
	return nil
}
