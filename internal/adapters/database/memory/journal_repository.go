package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type journalRepository struct {
	db access
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

func linesOf(st *state, journalEntryID string) []domain.GLEntry {
	out := make([]domain.GLEntry, 0, 2)
	for _, l := range st.lines {
		if l.JournalEntryID == journalEntryID {
			out = append(out, l)
		}
	}
	return out
}

func (r *journalRepository) FindJournalEntryByID(ctx context.Context, companyID, journalEntryID string) (*domain.JournalEntry, error) {
	var out domain.JournalEntry
	err := r.db.read(func(st *state) error {
		entry, ok := st.entries[journalEntryID]
		if !ok || entry.CompanyID != companyID {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, journalEntryID)
		}
		entry.Lines = linesOf(st, journalEntryID)
		out = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *journalRepository) FindReversalOf(ctx context.Context, companyID, journalEntryID string) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := r.db.read(func(st *state) error {
		for _, entry := range st.entries {
			if entry.CompanyID == companyID && entry.ReversalOfID == journalEntryID {
				e := entry
				out = &e
				return nil
			}
		}
		return fmt.Errorf("%w: reversal of journal entry %s", apperrors.ErrNotFound, journalEntryID)
	})
	return out, err
}

func (r *journalRepository) ListJournalEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	before := int64(-1)
	if nextToken != nil && *nextToken != "" {
		n, err := pagination.DecodeEntryNumberToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		before = n
	}
	entries := make([]domain.JournalEntry, 0)
	err := r.db.read(func(st *state) error {
		for _, e := range st.entries {
			if e.CompanyID == companyID && (before < 0 || e.EntryNumber < before) {
				entries = append(entries, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].EntryNumber > entries[j].EntryNumber })
	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		token := pagination.EncodeEntryNumberToken(entries[limit-1].EntryNumber)
		next = &token
	}
	return entries, next, nil
}

func (r *journalRepository) NextEntryNumber(ctx context.Context, companyID string) (int64, error) {
	var n int64
	err := r.db.write(func(st *state) error {
		st.sequences[companyID]++
		n = st.sequences[companyID]
		return nil
	})
	return n, err
}

func (r *journalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.db.write(func(st *state) error {
		if _, exists := st.entries[entry.JournalEntryID]; exists {
			return fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrDuplicate, entry.JournalEntryID)
		}
		for _, other := range st.entries {
			if other.CompanyID != entry.CompanyID {
				continue
			}
			if other.EntryNumber == entry.EntryNumber {
				return fmt.Errorf("%w: entry number %d already used", apperrors.ErrDuplicate, entry.EntryNumber)
			}
			if entry.ReversalOfID != "" && other.ReversalOfID == entry.ReversalOfID {
				return fmt.Errorf("%w: journal entry %s already reversed", apperrors.ErrDuplicate, entry.ReversalOfID)
			}
		}
		for _, l := range entry.Lines {
			if _, err := findAccount(st, entry.CompanyID, l.AccountID); err != nil {
				return err
			}
		}
		lines := make([]domain.GLEntry, len(entry.Lines))
		for i, l := range entry.Lines {
			l.JournalEntryID = entry.JournalEntryID
			l.CompanyID = entry.CompanyID
			lines[i] = l
		}
		entry.Lines = nil
		st.entries[entry.JournalEntryID] = entry
		st.lines = append(st.lines, lines...)
		return nil
	})
}

func (r *journalRepository) SumByAccounts(ctx context.Context, companyID string, accountIDs []string, asOf *time.Time) (map[string]domain.LedgerTotals, error) {
	wanted := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	out := make(map[string]domain.LedgerTotals)
	err := r.db.read(func(st *state) error {
		for _, l := range st.lines {
			if l.CompanyID != companyID || !wanted[l.AccountID] {
				continue
			}
			if asOf != nil && l.PostingDate.After(domain.NormalizeDate(*asOf)) {
				continue
			}
			t := out[l.AccountID]
			t.Debit = t.Debit.Add(l.Debit)
			t.Credit = t.Credit.Add(l.Credit)
			out[l.AccountID] = t
		}
		return nil
	})
	return out, err
}

func (r *journalRepository) CountEntriesByAccount(ctx context.Context, companyID, accountID string) (int64, error) {
	var n int64
	err := r.db.read(func(st *state) error {
		for _, l := range st.lines {
			if l.CompanyID == companyID && l.AccountID == accountID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *journalRepository) FindUnbalancedJournalEntries(ctx context.Context, companyID string) ([]string, error) {
	out := make([]string, 0)
	err := r.db.read(func(st *state) error {
		debits := make(map[string]decimal.Decimal)
		credits := make(map[string]decimal.Decimal)
		for _, l := range st.lines {
			debits[l.JournalEntryID] = debits[l.JournalEntryID].Add(l.Debit)
			credits[l.JournalEntryID] = credits[l.JournalEntryID].Add(l.Credit)
		}
		for id, e := range st.entries {
			if e.CompanyID != companyID {
				continue
			}
			if !e.TotalDebit.Equal(e.TotalCredit) || !debits[id].Equal(e.TotalDebit) || !credits[id].Equal(e.TotalCredit) {
				out = append(out, id)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r *journalRepository) FindEntriesOnGroupAccounts(ctx context.Context, companyID string) ([]string, error) {
	out := make([]string, 0)
	err := r.db.read(func(st *state) error {
		for _, l := range st.lines {
			if l.CompanyID != companyID {
				continue
			}
			if acc, ok := st.accounts[l.AccountID]; ok && acc.IsGroup {
				out = append(out, l.GLEntryID)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r *journalRepository) RepointEntries(ctx context.Context, companyID, fromAccountID, toAccountID string) (int64, error) {
	var moved int64
	err := r.db.write(func(st *state) error {
		for i := range st.lines {
			if st.lines[i].CompanyID == companyID && st.lines[i].AccountID == fromAccountID {
				st.lines[i].AccountID = toAccountID
				moved++
			}
		}
		return nil
	})
	return moved, err
}
