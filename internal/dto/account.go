package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required,max=32"`
	Name            string             `json:"name" binding:"required,max=255"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,accounttype"`
	CurrencyCode    string             `json:"currencyCode" binding:"required,len=3"`
	ParentAccountID string             `json:"parentAccountID"` // empty for a root account
	IsGroup         bool               `json:"isGroup"`
	Description     string             `json:"description"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Code            *string `json:"code" binding:"omitempty,min=1,max=32"`
	Name            *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description     *string `json:"description"`
	ParentAccountID *string `json:"parentAccountID"` // "" moves the account to the root
	IsGroup         *bool   `json:"isGroup"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	CurrencyCode    string             `json:"currencyCode"`
	ParentAccountID string             `json:"parentAccountID"`
	IsGroup         bool               `json:"isGroup"`
	IsActive        bool               `json:"isActive"`
	Description     string             `json:"description"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		CurrencyCode:    acc.CurrencyCode,
		ParentAccountID: acc.ParentAccountID,
		IsGroup:         acc.IsGroup,
		IsActive:        acc.IsActive,
		Description:     acc.Description,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts and trees.
type ListAccountsParams struct {
	AccountType     string `form:"accountType" binding:"omitempty,accounttype"`
	IncludeInactive bool   `form:"includeInactive"`
	AsOf            string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// Filter converts the query parameters into a domain filter.
func (p ListAccountsParams) Filter() domain.AccountFilter {
	filter := domain.AccountFilter{IncludeInactive: p.IncludeInactive}
	if p.AccountType != "" {
		t := domain.AccountType(p.AccountType)
		filter.AccountType = &t
	}
	return filter
}

// AccountNodeResponse is one node of the account hierarchy with its balance.
type AccountNodeResponse struct {
	AccountResponse
	Balance  decimal.Decimal       `json:"balance"`
	Children []AccountNodeResponse `json:"children"`
}

// ToAccountNodeResponses converts a forest of domain nodes.
func ToAccountNodeResponses(nodes []*domain.AccountNode) []AccountNodeResponse {
	res := make([]AccountNodeResponse, len(nodes))
	for i, n := range nodes {
		res[i] = AccountNodeResponse{
			AccountResponse: ToAccountResponse(&n.Account),
			Balance:         n.Balance,
			Children:        ToAccountNodeResponses(n.Children),
		}
	}
	return res
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	AsOf      string          `json:"asOf,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalanceQueryParams defines query parameters for balance lookups.
type BalanceQueryParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}
