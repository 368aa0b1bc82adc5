package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/core/templates"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// maintenanceService merges accounts and applies chart templates.
type maintenanceService struct {
	BaseService
	uow         portsrepo.UnitOfWork
	accountRepo portsrepo.AccountReader
	invalidator *balanceInvalidator
	templates   *templates.Registry
	structural  *structuralRunner
}

// NewMaintenanceService creates the account maintenance service.
func NewMaintenanceService(repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.MaintenanceSvc {
	o := buildOptions(options)
	return &maintenanceService{
		BaseService: o.base(),
		uow:         repos.UnitOfWork,
		accountRepo: repos.AccountRepo,
		invalidator: o.invalidator(),
		templates:   o.templates,
		structural:  o.structural(),
	}
}

var _ portssvc.MaintenanceSvc = (*maintenanceService)(nil)

func checkMergeable(source, target *domain.Account) error {
	if source.AccountType != target.AccountType {
		return fmt.Errorf("%w: cannot merge %s account into %s account", apperrors.ErrConflict, source.AccountType, target.AccountType)
	}
	if source.IsGroup != target.IsGroup {
		return fmt.Errorf("%w: cannot merge group and leaf accounts", apperrors.ErrConflict)
	}
	if !source.IsGroup && !strings.EqualFold(source.CurrencyCode, target.CurrencyCode) {
		return fmt.Errorf("%w: currency %s differs from %s", apperrors.ErrConflict, source.CurrencyCode, target.CurrencyCode)
	}
	if !target.IsActive {
		return fmt.Errorf("%w: target account %s is inactive", apperrors.ErrConflict, target.Code)
	}
	return nil
}

func (s *maintenanceService) MergeAccounts(ctx context.Context, companyID string, req dto.MergeAccountsRequest, actorID string) error {
	sourceID, targetID := req.SourceAccountID, req.TargetAccountID
	if sourceID == targetID {
		return fmt.Errorf("%w: cannot merge an account into itself", apperrors.ErrValidation)
	}

	keys := func(ctx context.Context) ([]string, error) {
		src, err := subtreeIDs(ctx, s.accountRepo, companyID, sourceID)
		if err != nil {
			return nil, err
		}
		dst, err := subtreeIDs(ctx, s.accountRepo, companyID, targetID)
		if err != nil {
			return nil, err
		}
		return append(src, dst...), nil
	}

	var deleted bool
	err := s.structural.run(ctx, companyID, "merge_accounts", keys, func(ctx context.Context) error {
		return s.uow.WithTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			accounts := repos.Accounts()
			journals := repos.Journals()
			source, err := accounts.FindAccountByID(ctx, companyID, sourceID)
			if err != nil {
				return fmt.Errorf("source account: %w", err)
			}
			target, err := accounts.FindAccountByID(ctx, companyID, targetID)
			if err != nil {
				return fmt.Errorf("target account: %w", err)
			}
			if err := accounts.LockAccountsForUpdate(ctx, companyID, uniqueSorted([]string{sourceID, targetID})); err != nil {
				return err
			}
			cycle, err := wouldCreateCycle(ctx, accounts, companyID, sourceID, targetID)
			if err != nil {
				return err
			}
			if cycle {
				return fmt.Errorf("%w: target %s lies inside the subtree of %s", apperrors.ErrConflict, target.Code, source.Code)
			}
			if err := checkMergeable(source, target); err != nil {
				return err
			}

			history, err := journals.CountEntriesByAccount(ctx, companyID, sourceID)
			if err != nil {
				return err
			}
			if _, err := journals.RepointEntries(ctx, companyID, sourceID, targetID); err != nil {
				return err
			}
			now := s.now()
			if _, err := accounts.ReparentChildren(ctx, companyID, sourceID, targetID, actorID, now); err != nil {
				return err
			}
			if history == 0 {
				deleted = true
				return accounts.DeleteAccount(ctx, companyID, sourceID)
			}
			source.IsActive = false
			source.LastUpdatedAt = now
			source.LastUpdatedBy = actorID
			return accounts.UpdateAccount(ctx, *source)
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to merge accounts",
			slog.String("company_id", companyID),
			slog.String("source_account_id", sourceID),
			slog.String("target_account_id", targetID))
		return err
	}

	s.invalidator.invalidate(ctx, "merge_accounts", companyID, sourceID, targetID)
	s.LogInfo(ctx, "Accounts merged",
		slog.String("source_account_id", sourceID),
		slog.String("target_account_id", targetID),
		slog.Bool("source_deleted", deleted))
	return nil
}

func (s *maintenanceService) ListTemplates() []templates.Template {
	return s.templates.List()
}

func (s *maintenanceService) ApplyAccountTemplate(ctx context.Context, companyID, templateName string, req dto.ApplyTemplateRequest, actorID string) ([]domain.Account, error) {
	tmpl, ok := s.templates.Get(templateName)
	if !ok {
		return nil, fmt.Errorf("%w: template %q", apperrors.ErrNotFound, templateName)
	}
	currency := strings.ToUpper(req.CurrencyCode)
	if currency == "" {
		currency = tmpl.Currency
	}

	keys := func(ctx context.Context) ([]string, error) {
		keys := []string{"template:" + tmpl.Name}
		err := tmpl.Walk(func(node templates.Node, _ *templates.Node) error {
			acc, err := s.accountRepo.FindAccountByCode(ctx, companyID, node.Code)
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			keys = append(keys, acc.AccountID)
			return nil
		})
		return keys, err
	}

	var created []domain.Account
	err := s.structural.run(ctx, companyID, "apply_template", keys, func(ctx context.Context) error {
		created = created[:0]
		return s.uow.WithTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			accounts := repos.Accounts()
			resolved := make(map[string]*domain.Account)
			now := s.now()
			return tmpl.Walk(func(node templates.Node, parent *templates.Node) error {
				existing, err := accounts.FindAccountByCode(ctx, companyID, node.Code)
				switch {
				case err == nil:
					if existing.AccountType != node.Type {
						return fmt.Errorf("%w: existing account %s is %s, template expects %s", apperrors.ErrConflict, node.Code, existing.AccountType, node.Type)
					}
					if len(node.Children) > 0 && !existing.IsGroup {
						return fmt.Errorf("%w: existing account %s is a leaf but the template nests accounts under it", apperrors.ErrConflict, node.Code)
					}
					resolved[node.Code] = existing
					return nil
				case !errors.Is(err, apperrors.ErrNotFound):
					return err
				}

				acc := domain.Account{
					AccountID:    uuid.NewString(),
					CompanyID:    companyID,
					Code:         node.Code,
					Name:         node.Name,
					AccountType:  node.Type,
					CurrencyCode: currency,
					IsGroup:      node.Group,
					IsActive:     true,
					Description:  node.Description,
					AuditFields: domain.AuditFields{
						CreatedAt:     now,
						CreatedBy:     actorID,
						LastUpdatedAt: now,
						LastUpdatedBy: actorID,
					},
				}
				if parent != nil {
					p := resolved[parent.Code]
					if err := validateParent(p, acc.AccountType); err != nil {
						return err
					}
					acc.ParentAccountID = p.AccountID
				}
				if err := accounts.SaveAccount(ctx, acc); err != nil {
					return err
				}
				resolved[node.Code] = &acc
				created = append(created, acc)
				return nil
			})
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to apply account template",
			slog.String("company_id", companyID),
			slog.String("template", templateName))
		return nil, err
	}

	s.LogInfo(ctx, "Account template applied",
		slog.String("company_id", companyID),
		slog.String("template", tmpl.Name),
		slog.Int("created", len(created)))
	return created, nil
}
