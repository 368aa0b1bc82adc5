package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AccountNode is an account positioned in the hierarchy, optionally with its balance.
type AccountNode struct {
	Account
	Balance  decimal.Decimal `json:"balance"`
	Children []*AccountNode  `json:"children"`
}

// SortAccountsByCode orders accounts by code, then id, in place.
func SortAccountsByCode(accounts []Account) {
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Code == accounts[j].Code {
			return accounts[i].AccountID < accounts[j].AccountID
		}
		return accounts[i].Code < accounts[j].Code
	})
}

// BuildForest assembles accounts into trees. Accounts whose parent is absent
// from the slice become roots. Siblings are ordered by code.
func BuildForest(accounts []Account) []*AccountNode {
	sorted := make([]Account, len(accounts))
	copy(sorted, accounts)
	SortAccountsByCode(sorted)

	nodes := make(map[string]*AccountNode, len(sorted))
	for _, a := range sorted {
		nodes[a.AccountID] = &AccountNode{Account: a, Balance: decimal.Zero, Children: []*AccountNode{}}
	}
	roots := make([]*AccountNode, 0)
	for _, a := range sorted {
		node := nodes[a.AccountID]
		parent, ok := nodes[a.ParentAccountID]
		if a.ParentAccountID == "" || !ok || parent == node {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

// Walk visits every node depth-first, parents before children.
func Walk(nodes []*AccountNode, fn func(*AccountNode)) {
	for _, n := range nodes {
		fn(n)
		Walk(n.Children, fn)
	}
}
