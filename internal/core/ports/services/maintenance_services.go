package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/core/templates"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// MaintenanceSvc performs structural mutations of the chart of accounts.
type MaintenanceSvc interface {
	// MergeAccounts folds source into target and retires source.
	MergeAccounts(ctx context.Context, companyID string, req dto.MergeAccountsRequest, actorID string) error

	// ApplyAccountTemplate creates the accounts of a named template that the company lacks.
	ApplyAccountTemplate(ctx context.Context, companyID, templateName string, req dto.ApplyTemplateRequest, actorID string) ([]domain.Account, error)

	// ListTemplates returns the available chart templates.
	ListTemplates() []templates.Template
}

// IntegritySvc audits ledger invariants.
type IntegritySvc interface {
	Check(ctx context.Context, companyID string) (*domain.IntegrityReport, error)
	CheckAll(ctx context.Context) ([]domain.IntegrityReport, error)
}
