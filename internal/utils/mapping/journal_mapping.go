package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to its model. Lines are mapped separately.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalEntryID: d.JournalEntryID,
		CompanyID:      d.CompanyID,
		EntryNumber:    d.EntryNumber,
		PostingDate:    domain.NormalizeDate(d.PostingDate),
		Reference:      d.Reference,
		Description:    d.Description,
		TotalDebit:     d.TotalDebit,
		TotalCredit:    d.TotalCredit,
		IsPosted:       d.IsPosted,
		ReversalOfID:   NullableString(d.ReversalOfID),
		CreatedBy:      d.CreatedBy,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry without lines.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		JournalEntryID: m.JournalEntryID,
		CompanyID:      m.CompanyID,
		EntryNumber:    m.EntryNumber,
		PostingDate:    domain.NormalizeDate(m.PostingDate),
		Reference:      m.Reference,
		Description:    m.Description,
		TotalDebit:     m.TotalDebit,
		TotalCredit:    m.TotalCredit,
		IsPosted:       m.IsPosted,
		ReversalOfID:   StringValue(m.ReversalOfID),
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}

// ToModelGLEntry converts a domain GLEntry to a model GLEntry
func ToModelGLEntry(d domain.GLEntry) models.GLEntry {
	return models.GLEntry{
		GLEntryID:      d.GLEntryID,
		JournalEntryID: d.JournalEntryID,
		CompanyID:      d.CompanyID,
		AccountID:      d.AccountID,
		PostingDate:    domain.NormalizeDate(d.PostingDate),
		Debit:          d.Debit,
		Credit:         d.Credit,
		Description:    d.Description,
		Reference:      d.Reference,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainGLEntry converts a model GLEntry to a domain GLEntry
func ToDomainGLEntry(m models.GLEntry) domain.GLEntry {
	return domain.GLEntry{
		GLEntryID:      m.GLEntryID,
		JournalEntryID: m.JournalEntryID,
		CompanyID:      m.CompanyID,
		AccountID:      m.AccountID,
		PostingDate:    domain.NormalizeDate(m.PostingDate),
		Debit:          m.Debit,
		Credit:         m.Credit,
		Description:    m.Description,
		Reference:      m.Reference,
		CreatedAt:      m.CreatedAt,
	}
}
