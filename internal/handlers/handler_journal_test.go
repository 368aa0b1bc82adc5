package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func samplePostRequest() dto.PostJournalEntryRequest {
	return dto.PostJournalEntryRequest{
		PostingDate: "2024-03-15",
		Reference:   "INV-1",
		Lines: []dto.JournalLineRequest{
			{AccountID: "cash", Debit: decimal.NewFromInt(100)},
			{AccountID: "sales", Credit: decimal.NewFromInt(100)},
		},
	}
}

func sampleEntry() *domain.JournalEntry {
	return &domain.JournalEntry{
		JournalEntryID: "je-1",
		CompanyID:      companyID,
		EntryNumber:    7,
		PostingDate:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		TotalDebit:     decimal.NewFromInt(100),
		TotalCredit:    decimal.NewFromInt(100),
		IsPosted:       true,
		Lines: []domain.GLEntry{
			{GLEntryID: "l1", AccountID: "cash", Debit: decimal.NewFromInt(100)},
			{GLEntryID: "l2", AccountID: "sales", Credit: decimal.NewFromInt(100)},
		},
	}
}

// Request DTOs travel through JSON, so decimals are compared by value.
func matchesPostRequest(want dto.PostJournalEntryRequest) any {
	return mock.MatchedBy(func(got dto.PostJournalEntryRequest) bool {
		if got.PostingDate != want.PostingDate || len(got.Lines) != len(want.Lines) {
			return false
		}
		for i := range got.Lines {
			if got.Lines[i].AccountID != want.Lines[i].AccountID ||
				!got.Lines[i].Debit.Equal(want.Lines[i].Debit) ||
				!got.Lines[i].Credit.Equal(want.Lines[i].Credit) {
				return false
			}
		}
		return true
	})
}

func (s *HandlerTestSuite) TestPostJournalEntry_Success() {
	req := samplePostRequest()
	s.mockJournals.On("PostJournalEntry", mock.Anything, companyID, matchesPostRequest(req), actorID).Return(sampleEntry(), nil).Once()

	w := s.do(http.MethodPost, "/journal-entries", req, actorID)

	s.Equal(http.StatusCreated, w.Code)
	var res dto.JournalEntryResponse
	s.decode(w, &res)
	s.Equal(int64(7), res.EntryNumber)
	s.Equal("2024-03-15", res.PostingDate)
	s.Len(res.Lines, 2)
}

func (s *HandlerTestSuite) TestPostJournalEntry_Rejections() {
	tests := []struct {
		name string
		err  error
	}{
		{"unbalanced", fmt.Errorf("%w: %w: debits 100 != credits 90", apperrors.ErrValidation, services.ErrJournalUnbalanced)},
		{"closed period", fmt.Errorf("%w: %w", apperrors.ErrValidation, services.ErrPeriodNotPostable)},
		{"group account", fmt.Errorf("%w: %w: 1000 is a group", apperrors.ErrValidation, services.ErrAccountNotPostable)},
	}
	req := samplePostRequest()
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.mockJournals.On("PostJournalEntry", mock.Anything, companyID, mock.Anything, actorID).Return(nil, tt.err).Once()
			w := s.do(http.MethodPost, "/journal-entries", req, actorID)
			s.Equal(http.StatusBadRequest, w.Code)
		})
	}
}

func (s *HandlerTestSuite) TestPostJournalEntry_BadDate() {
	req := samplePostRequest()
	req.PostingDate = "15/03/2024"

	w := s.do(http.MethodPost, "/journal-entries", req, actorID)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestGetJournalEntry() {
	s.mockJournals.On("GetJournalEntry", mock.Anything, companyID, "je-1").Return(sampleEntry(), nil).Once()

	w := s.do(http.MethodGet, "/journal-entries/je-1", nil, "")

	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestListJournalEntries_Pagination() {
	token := "next"
	s.mockJournals.On("ListJournalEntries", mock.Anything, companyID,
		mock.MatchedBy(func(p dto.ListJournalEntriesParams) bool {
			return p.Limit == 5 && p.NextToken != nil && *p.NextToken == "abc"
		})).
		Return(&domain.JournalEntryPage{Entries: []domain.JournalEntry{*sampleEntry()}, NextToken: &token}, nil).Once()

	w := s.do(http.MethodGet, "/journal-entries?limit=5&nextToken=abc", nil, "")

	s.Equal(http.StatusOK, w.Code)
	var res dto.ListJournalEntriesResponse
	s.decode(w, &res)
	s.Len(res.Entries, 1)
	s.Require().NotNil(res.NextToken)
	s.Equal("next", *res.NextToken)
}

func (s *HandlerTestSuite) TestListJournalEntries_LimitBounds() {
	w := s.do(http.MethodGet, "/journal-entries?limit=1000", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestReverseJournalEntry_AlreadyReversed() {
	req := dto.ReverseJournalEntryRequest{PostingDate: "2024-04-01"}
	s.mockJournals.On("ReverseJournalEntry", mock.Anything, companyID, "je-1", req, actorID).
		Return(nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, services.ErrAlreadyReversed)).Once()

	w := s.do(http.MethodPost, "/journal-entries/je-1/reverse", req, actorID)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestReverseJournalEntry_Success() {
	req := dto.ReverseJournalEntryRequest{PostingDate: "2024-04-01"}
	reversal := sampleEntry()
	reversal.JournalEntryID, reversal.ReversalOfID = "je-2", "je-1"
	s.mockJournals.On("ReverseJournalEntry", mock.Anything, companyID, "je-1", req, actorID).Return(reversal, nil).Once()

	w := s.do(http.MethodPost, "/journal-entries/je-1/reverse", req, actorID)

	s.Equal(http.StatusCreated, w.Code)
	var res dto.JournalEntryResponse
	s.decode(w, &res)
	s.Equal("je-1", res.ReversalOfID)
}
