package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	GetJournalEntry(ctx context.Context, companyID, journalEntryID string) (*domain.JournalEntry, error)
	ListJournalEntries(ctx context.Context, companyID string, params dto.ListJournalEntriesParams) (*domain.JournalEntryPage, error)
}

// JournalWriterSvc defines posting operations
type JournalWriterSvc interface {
	// PostJournalEntry validates and atomically commits a balanced entry with its lines.
	PostJournalEntry(ctx context.Context, companyID string, req dto.PostJournalEntryRequest, actorID string) (*domain.JournalEntry, error)

	// ReverseJournalEntry posts a new entry that mirrors an existing one.
	ReverseJournalEntry(ctx context.Context, companyID, journalEntryID string, req dto.ReverseJournalEntryRequest, actorID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
