package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/core/templates"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (s *HandlerTestSuite) TestMergeAccounts() {
	req := dto.MergeAccountsRequest{SourceAccountID: "a", TargetAccountID: "b"}
	s.mockMaintenance.On("MergeAccounts", mock.Anything, companyID, req, actorID).Return(nil).Once()

	w := s.do(http.MethodPost, "/accounts/merge", req, actorID)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *HandlerTestSuite) TestMergeAccounts_Incompatible() {
	req := dto.MergeAccountsRequest{SourceAccountID: "a", TargetAccountID: "b"}
	s.mockMaintenance.On("MergeAccounts", mock.Anything, companyID, req, actorID).
		Return(fmt.Errorf("%w: account types differ", apperrors.ErrConflict)).Once()

	w := s.do(http.MethodPost, "/accounts/merge", req, actorID)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestMergeAccounts_MissingFields() {
	w := s.do(http.MethodPost, "/accounts/merge", map[string]string{"sourceAccountID": "a"}, actorID)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestListTemplates() {
	s.mockMaintenance.On("ListTemplates").Return([]templates.Template{
		{Name: "standard", Description: "Standard chart", Currency: "USD"},
	}).Once()

	w := s.do(http.MethodGet, "/templates", nil, "")

	s.Equal(http.StatusOK, w.Code)
	var res []dto.TemplateResponse
	s.decode(w, &res)
	s.Equal([]dto.TemplateResponse{{Name: "standard", Description: "Standard chart", Currency: "USD"}}, res)
}

func (s *HandlerTestSuite) TestApplyTemplate_WithoutBody() {
	s.mockMaintenance.On("ApplyAccountTemplate", mock.Anything, companyID, "standard", dto.ApplyTemplateRequest{}, actorID).
		Return([]domain.Account{*sampleAccount()}, nil).Once()

	w := s.do(http.MethodPost, "/templates/standard/apply", nil, actorID)

	s.Equal(http.StatusOK, w.Code)
	var res dto.ApplyTemplateResponse
	s.decode(w, &res)
	s.Len(res.Created, 1)
}

func (s *HandlerTestSuite) TestApplyTemplate_Unknown() {
	req := dto.ApplyTemplateRequest{CurrencyCode: "EUR"}
	s.mockMaintenance.On("ApplyAccountTemplate", mock.Anything, companyID, "nope", req, actorID).
		Return(nil, fmt.Errorf("template nope: %w", apperrors.ErrNotFound)).Once()

	w := s.do(http.MethodPost, "/templates/nope/apply", req, actorID)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestLookupPeriod() {
	date := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	s.mockFiscal.On("PeriodFor", mock.Anything, companyID, date).Return(&domain.FiscalPeriod{
		FiscalPeriodID: "p2",
		Name:           "2024-02",
		StartDate:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		IsClosed:       true,
	}, nil).Once()

	w := s.do(http.MethodGet, "/fiscal-periods/lookup?date=2024-02-10", nil, "")

	s.Equal(http.StatusOK, w.Code)
	var res dto.PeriodLookupResponse
	s.decode(w, &res)
	s.False(res.IsPostable)
	s.Equal("2024-02-29", res.Period.EndDate)
}

func (s *HandlerTestSuite) TestLookupPeriod_NoPeriod() {
	date := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s.mockFiscal.On("PeriodFor", mock.Anything, companyID, date).
		Return(nil, fmt.Errorf("no fiscal period: %w", apperrors.ErrNotFound)).Once()

	w := s.do(http.MethodGet, "/fiscal-periods/lookup?date=2030-01-01", nil, "")

	s.Equal(http.StatusNotFound, w.Code)
}
