package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one leg of a journal entry to be posted.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
}

// PostJournalEntryRequest defines the data needed to post a journal entry.
type PostJournalEntryRequest struct {
	PostingDate string               `json:"postingDate" binding:"required,datetime=2006-01-02"`
	Reference   string               `json:"reference" binding:"max=140"`
	Description string               `json:"description"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,dive"`
}

// ReverseJournalEntryRequest defines the data needed to reverse a posted entry.
type ReverseJournalEntryRequest struct {
	PostingDate string `json:"postingDate" binding:"required,datetime=2006-01-02"`
	Description string `json:"description"`
}

// GLEntryResponse defines the data returned for a ledger line.
type GLEntryResponse struct {
	GLEntryID   string          `json:"glEntryID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	JournalEntryID string            `json:"journalEntryID"`
	EntryNumber    int64             `json:"entryNumber"`
	PostingDate    string            `json:"postingDate"`
	Reference      string            `json:"reference"`
	Description    string            `json:"description"`
	TotalDebit     decimal.Decimal   `json:"totalDebit"`
	TotalCredit    decimal.Decimal   `json:"totalCredit"`
	IsPosted       bool              `json:"isPosted"`
	ReversalOfID   string            `json:"reversalOfID,omitempty"`
	CreatedBy      string            `json:"createdBy"`
	CreatedAt      time.Time         `json:"createdAt"`
	Lines          []GLEntryResponse `json:"lines,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(j *domain.JournalEntry) JournalEntryResponse {
	res := JournalEntryResponse{
		JournalEntryID: j.JournalEntryID,
		EntryNumber:    j.EntryNumber,
		PostingDate:    j.PostingDate.Format(domain.DateLayout),
		Reference:      j.Reference,
		Description:    j.Description,
		TotalDebit:     j.TotalDebit,
		TotalCredit:    j.TotalCredit,
		IsPosted:       j.IsPosted,
		ReversalOfID:   j.ReversalOfID,
		CreatedBy:      j.CreatedBy,
		CreatedAt:      j.CreatedAt,
	}
	if len(j.Lines) > 0 {
		res.Lines = make([]GLEntryResponse, len(j.Lines))
		for i, l := range j.Lines {
			res.Lines[i] = GLEntryResponse{
				GLEntryID:   l.GLEntryID,
				AccountID:   l.AccountID,
				Debit:       l.Debit,
				Credit:      l.Credit,
				Description: l.Description,
				Reference:   l.Reference,
			}
		}
	}
	return res
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListJournalEntriesResponse is one page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToListJournalEntriesResponse converts a domain page to its DTO.
func ToListJournalEntriesResponse(page *domain.JournalEntryPage) ListJournalEntriesResponse {
	entries := make([]JournalEntryResponse, len(page.Entries))
	for i := range page.Entries {
		entries[i] = ToJournalEntryResponse(&page.Entries[i])
	}
	return ListJournalEntriesResponse{Entries: entries, NextToken: page.NextToken}
}
