package services

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSvc computes point-in-time balances and roll-ups.
type BalanceSvc interface {
	// BalanceOf returns the normal-signed balance of an account as of asOf (inclusive), or all time when nil.
	BalanceOf(ctx context.Context, companyID, accountID string, asOf *time.Time) (decimal.Decimal, error)

	// HierarchyWithBalances returns the account forest with every node's balance filled in.
	HierarchyWithBalances(ctx context.Context, companyID string, filter domain.AccountFilter, asOf *time.Time) ([]*domain.AccountNode, error)
}
