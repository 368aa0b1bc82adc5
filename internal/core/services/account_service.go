package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/google/uuid"
)

// accountService is the account hierarchy store.
type accountService struct {
	BaseService
	uow         portsrepo.UnitOfWork
	accountRepo portsrepo.AccountReader
	structural  *structuralRunner
}

// NewAccountService creates the account hierarchy service.
func NewAccountService(repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.AccountSvcFacade {
	o := buildOptions(options)
	return &accountService{
		BaseService: o.base(),
		uow:         repos.UnitOfWork,
		accountRepo: repos.AccountRepo,
		structural:  o.structural(),
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, companyID, accountID)
}

func (s *accountService) GetAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, companyID, code)
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string, filter domain.AccountFilter) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, companyID, filter)
}

func (s *accountService) Children(ctx context.Context, companyID, accountID string) ([]domain.Account, error) {
	var children []domain.Account
	err := s.uow.WithSnapshot(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if _, err := repos.Accounts().FindAccountByID(ctx, companyID, accountID); err != nil {
			return err
		}
		var err error
		children, err = repos.Accounts().ListChildren(ctx, companyID, accountID)
		return err
	})
	return children, err
}

func (s *accountService) WouldCreateCycle(ctx context.Context, companyID, accountID, proposedParentID string) (bool, error) {
	var cycle bool
	err := s.uow.WithSnapshot(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		cycle, err = wouldCreateCycle(ctx, repos.Accounts(), companyID, accountID, proposedParentID)
		return err
	})
	return cycle, err
}

// wouldCreateCycle walks proposedParentID's ancestor chain looking for accountID.
func wouldCreateCycle(ctx context.Context, reader portsrepo.AccountReader, companyID, accountID, proposedParentID string) (bool, error) {
	visited := make(map[string]bool)
	for current := proposedParentID; current != ""; {
		if current == accountID {
			return true, nil
		}
		if visited[current] {
			return false, fmt.Errorf("%w: account hierarchy already contains a cycle through %s", apperrors.ErrInternal, current)
		}
		visited[current] = true
		acc, err := reader.FindAccountByID(ctx, companyID, current)
		if err != nil {
			return false, err
		}
		current = acc.ParentAccountID
	}
	return false, nil
}

func (s *accountService) BuildTree(ctx context.Context, companyID string, filter domain.AccountFilter) ([]*domain.AccountNode, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return domain.BuildForest(accounts), nil
}

// validateParent checks that parent can hold a child of accountType.
func validateParent(parent *domain.Account, accountType domain.AccountType) error {
	if !parent.IsGroup {
		return fmt.Errorf("%w: parent account %s is not a group account", apperrors.ErrValidation, parent.Code)
	}
	if !parent.IsActive {
		return fmt.Errorf("%w: parent account %s is inactive", apperrors.ErrValidation, parent.Code)
	}
	if parent.AccountType != accountType {
		return fmt.Errorf("%w: parent account %s is %s, child is %s", apperrors.ErrValidation, parent.Code, parent.AccountType, accountType)
	}
	return nil
}

func ensureCodeFree(ctx context.Context, reader portsrepo.AccountReader, companyID, code string) error {
	_, err := reader.FindAccountByCode(ctx, companyID, code)
	if err == nil {
		return fmt.Errorf("%w: account code %s already exists", apperrors.ErrConflict, code)
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	code, name := strings.TrimSpace(req.Code), strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}

	now := s.now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		CompanyID:       companyID,
		Code:            code,
		Name:            name,
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		CurrencyCode:    strings.ToUpper(req.CurrencyCode),
		IsGroup:         req.IsGroup,
		IsActive:        true,
		Description:     req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	create := func(ctx context.Context) error {
		return s.uow.WithTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			accounts := repos.Accounts()
			if account.ParentAccountID != "" {
				parent, err := accounts.FindAccountByID(ctx, companyID, account.ParentAccountID)
				if err != nil {
					return fmt.Errorf("parent account: %w", err)
				}
				if err := accounts.LockAccountsForUpdate(ctx, companyID, []string{parent.AccountID}); err != nil {
					return err
				}
				if err := validateParent(parent, account.AccountType); err != nil {
					return err
				}
				cycle, err := wouldCreateCycle(ctx, accounts, companyID, account.AccountID, parent.AccountID)
				if err != nil {
					return err
				}
				if cycle {
					return fmt.Errorf("%w: parent would create a cycle", apperrors.ErrConflict)
				}
			}
			if err := ensureCodeFree(ctx, accounts, companyID, account.Code); err != nil {
				return err
			}
			return accounts.SaveAccount(ctx, account)
		})
	}

	var err error
	if account.ParentAccountID == "" {
		err = create(ctx)
	} else {
		err = s.structural.run(ctx, companyID, "create_account", staticKeys(account.ParentAccountID), create)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to create account",
			slog.String("company_id", companyID),
			slog.String("code", account.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("company_id", companyID))
	return &account, nil
}

func staticKeys(keys ...string) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) { return keys, nil }
}

func (s *accountService) UpdateAccount(ctx context.Context, companyID, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	keys := func(ctx context.Context) ([]string, error) {
		if req.ParentAccountID == nil {
			return []string{accountID}, nil
		}
		ids, err := subtreeIDs(ctx, s.accountRepo, companyID, accountID)
		if err != nil {
			return nil, err
		}
		return append(ids, *req.ParentAccountID), nil
	}

	var updated domain.Account
	err := s.structural.run(ctx, companyID, "update_account", keys, func(ctx context.Context) error {
		return s.uow.WithTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			accounts := repos.Accounts()
			current, err := accounts.FindAccountByID(ctx, companyID, accountID)
			if err != nil {
				return err
			}
			lockIDs := []string{accountID}
			if req.ParentAccountID != nil && *req.ParentAccountID != "" {
				lockIDs = append(lockIDs, *req.ParentAccountID)
			}
			if err := accounts.LockAccountsForUpdate(ctx, companyID, uniqueSorted(lockIDs)); err != nil {
				return err
			}

			acc := *current
			if req.Code != nil && strings.TrimSpace(*req.Code) != acc.Code {
				code := strings.TrimSpace(*req.Code)
				if code == "" {
					return fmt.Errorf("%w: account code cannot be empty", apperrors.ErrValidation)
				}
				if err := ensureCodeFree(ctx, accounts, companyID, code); err != nil {
					return err
				}
				acc.Code = code
			}
			if req.Name != nil {
				name := strings.TrimSpace(*req.Name)
				if name == "" {
					return fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
				}
				acc.Name = name
			}
			if req.Description != nil {
				acc.Description = *req.Description
			}
			if req.IsGroup != nil && *req.IsGroup != acc.IsGroup {
				if err := s.checkGroupToggle(ctx, repos, &acc, *req.IsGroup); err != nil {
					return err
				}
				acc.IsGroup = *req.IsGroup
			}
			if req.ParentAccountID != nil && *req.ParentAccountID != acc.ParentAccountID {
				newParentID := *req.ParentAccountID
				if newParentID != "" {
					parent, err := accounts.FindAccountByID(ctx, companyID, newParentID)
					if err != nil {
						return fmt.Errorf("parent account: %w", err)
					}
					if err := validateParent(parent, acc.AccountType); err != nil {
						return err
					}
					cycle, err := wouldCreateCycle(ctx, accounts, companyID, accountID, newParentID)
					if err != nil {
						return err
					}
					if cycle {
						return fmt.Errorf("%w: moving %s under %s would create a cycle", apperrors.ErrConflict, acc.Code, parent.Code)
					}
				}
				acc.ParentAccountID = newParentID
			}

			acc.LastUpdatedAt = s.now()
			acc.LastUpdatedBy = actorID
			if err := accounts.UpdateAccount(ctx, acc); err != nil {
				return err
			}
			updated = acc
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("company_id", companyID),
			slog.String("account_id", accountID))
		return nil, err
	}
	return &updated, nil
}

func (s *accountService) checkGroupToggle(ctx context.Context, repos portsrepo.TxRepositories, acc *domain.Account, toGroup bool) error {
	if toGroup {
		n, err := repos.Journals().CountEntriesByAccount(ctx, acc.CompanyID, acc.AccountID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: account %s has ledger entries and cannot become a group", apperrors.ErrConflict, acc.Code)
		}
		return nil
	}
	children, err := repos.Accounts().ListChildren(ctx, acc.CompanyID, acc.AccountID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return fmt.Errorf("%w: account %s has children and cannot become a leaf", apperrors.ErrConflict, acc.Code)
	}
	return nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, companyID, accountID, actorID string) error {
	err := s.structural.run(ctx, companyID, "deactivate_account", staticKeys(accountID), func(ctx context.Context) error {
		return s.uow.WithTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			accounts := repos.Accounts()
			acc, err := accounts.FindAccountByID(ctx, companyID, accountID)
			if err != nil {
				return err
			}
			if err := accounts.LockAccountsForUpdate(ctx, companyID, []string{accountID}); err != nil {
				return err
			}
			if !acc.IsActive {
				return nil
			}
			children, err := accounts.ListChildren(ctx, companyID, accountID)
			if err != nil {
				return err
			}
			for _, c := range children {
				if c.IsActive {
					return fmt.Errorf("%w: account %s has active child %s", apperrors.ErrConflict, acc.Code, c.Code)
				}
			}
			if !acc.IsGroup {
				sums, err := repos.Journals().SumByAccounts(ctx, companyID, []string{accountID}, nil)
				if err != nil {
					return err
				}
				if net := sums[accountID].Net(); !net.IsZero() {
					return fmt.Errorf("%w: account %s has a nonzero balance of %s", apperrors.ErrConflict, acc.Code, net.String())
				}
			}
			acc.IsActive = false
			acc.LastUpdatedAt = s.now()
			acc.LastUpdatedBy = actorID
			return accounts.UpdateAccount(ctx, *acc)
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate account",
			slog.String("company_id", companyID),
			slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID), slog.String("actor_id", actorID))
	return nil
}
