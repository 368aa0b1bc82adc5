package services_test

import (
	"sync"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
)

func (s *LedgerTestSuite) TestPost_ScenarioA() {
	cash := s.create("1000", domain.Asset, "", false)
	sales := s.create("4000", domain.Income, "", false)

	entry := s.mustPost("2024-01-15", line(cash.AccountID, "100.00", "0"), line(sales.AccountID, "0", "100.00"))

	s.Len(entry.Lines, 2)
	s.True(entry.IsPosted)
	s.Equal(int64(1), entry.EntryNumber)
	s.assertDecimal("100", entry.TotalDebit)
	s.assertDecimal("100", entry.TotalCredit)

	stored, err := s.svc.Journal.GetJournalEntry(s.ctx, company, entry.JournalEntryID)
	s.Require().NoError(err)
	s.Len(stored.Lines, 2)
	debit, credit := domain.SumLines(stored.Lines)
	s.True(debit.Equal(credit))
	s.True(debit.Equal(stored.TotalDebit))

	s.assertDecimal("100", s.balance(cash.AccountID))
	s.assertDecimal("100", s.balance(sales.AccountID))
}

func (s *LedgerTestSuite) TestPost_ScenarioB_UnbalancedPersistsNothing() {
	cash := s.create("1000", domain.Asset, "", false)
	sales := s.create("4000", domain.Income, "", false)

	_, err := s.post("2024-01-15", line(cash.AccountID, "100.00", "0"), line(sales.AccountID, "0", "90.00"))
	s.ErrorIs(err, apperrors.ErrValidation)
	s.ErrorIs(err, services.ErrJournalUnbalanced)

	s.Equal(0, s.entryCount())
	s.assertDecimal("0", s.balance(cash.AccountID))
	s.assertDecimal("0", s.balance(sales.AccountID))
}

func (s *LedgerTestSuite) TestPost_RejectsMalformedLines() {
	cash := s.create("1000", domain.Asset, "", false)
	sales := s.create("4000", domain.Income, "", false)

	tests := []struct {
		name  string
		lines []dto.JournalLineRequest
		want  error
	}{
		{"single line", []dto.JournalLineRequest{line(cash.AccountID, "10", "0")}, services.ErrJournalMinLines},
		{"negative amount", []dto.JournalLineRequest{line(cash.AccountID, "-10", "0"), line(sales.AccountID, "0", "-10")}, services.ErrNegativeAmount},
		{"both sides", []dto.JournalLineRequest{line(cash.AccountID, "10", "10"), line(sales.AccountID, "0", "10")}, services.ErrOneSidedLine},
		{"zero line", []dto.JournalLineRequest{line(cash.AccountID, "0", "0"), line(sales.AccountID, "0", "0")}, services.ErrOneSidedLine},
		{"five decimals", []dto.JournalLineRequest{
			line(cash.AccountID, "0.00005", "0"), line(cash.AccountID, "0.00005", "0"), line(sales.AccountID, "0", "0.0001"),
		}, services.ErrAmountPrecision},
		{"too large", []dto.JournalLineRequest{
			line(cash.AccountID, "10000000000000000", "0"), line(sales.AccountID, "0", "10000000000000000"),
		}, services.ErrAmountPrecision},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.post("2024-01-15", tt.lines...)
			s.ErrorIs(err, apperrors.ErrValidation)
			s.ErrorIs(err, tt.want)
		})
	}
	s.Equal(0, s.entryCount())
}

func (s *LedgerTestSuite) TestPost_RejectsGroupInactiveAndUnknownAccounts() {
	assets := s.create("1000", domain.Asset, "", true)
	cash := s.create("1100", domain.Asset, assets.AccountID, false)
	old := s.create("1200", domain.Asset, assets.AccountID, false)
	s.Require().NoError(s.svc.Account.DeactivateAccount(s.ctx, company, old.AccountID, actor))

	_, err := s.post("2024-01-15", line(assets.AccountID, "5", "0"), line(cash.AccountID, "0", "5"))
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.post("2024-01-15", line(old.AccountID, "5", "0"), line(cash.AccountID, "0", "5"))
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.post("2024-01-15", line("missing", "5", "0"), line(cash.AccountID, "0", "5"))
	s.ErrorIs(err, apperrors.ErrValidation)
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.Equal(0, s.entryCount())
}

func (s *LedgerTestSuite) TestPost_RequiresOpenPeriod() {
	cash := s.create("1000", domain.Asset, "", false)
	sales := s.create("4000", domain.Income, "", false)

	for _, date := range []string{"2023-12-31", "2024-02-10", "2025-01-01"} {
		_, err := s.post(date, line(cash.AccountID, "1", "0"), line(sales.AccountID, "0", "1"))
		s.ErrorIs(err, apperrors.ErrValidation, date)
		s.ErrorIs(err, services.ErrPeriodNotPostable, date)
	}
	_, err := s.post("not-a-date", line(cash.AccountID, "1", "0"), line(sales.AccountID, "0", "1"))
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(0, s.entryCount())
}

func (s *LedgerTestSuite) TestPost_EntryNumbersAreGapFree() {
	cash := s.create("1000", domain.Asset, "", false)
	sales := s.create("4000", domain.Income, "", false)

	first := s.mustPost("2024-01-02", line(cash.AccountID, "1", "0"), line(sales.AccountID, "0", "1"))
	_, err := s.post("2024-02-02", line(cash.AccountID, "1", "0"), line(sales.AccountID, "0", "1"))
	s.Require().Error(err)
	second := s.mustPost("2024-03-02", line(cash.AccountID, "1", "0"), line(sales.AccountID, "0", "1"))

	s.Equal(int64(1), first.EntryNumber)
	s.Equal(int64(2), second.EntryNumber)
}

func (s *LedgerTestSuite) TestPost_ConcurrentPostingsGetDistinctNumbers() {
	cash := s.create("1000", domain.Asset, "", false)
	sales := s.create("4000", domain.Income, "", false)

	const n = 20
	var wg sync.WaitGroup
	numbers := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := s.post("2024-01-15", line(cash.AccountID, "1.5", "0"), line(sales.AccountID, "0", "1.5"))
			if err == nil {
				numbers <- entry.EntryNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int64]bool)
	for num := range numbers {
		s.False(seen[num], "duplicate entry number %d", num)
		seen[num] = true
	}
	s.Len(seen, n)
	for i := int64(1); i <= n; i++ {
		s.True(seen[i], "missing entry number %d", i)
	}
	s.assertDecimal("30", s.balance(cash.AccountID))
}

func (s *LedgerTestSuite) TestReverse_MirrorsOriginalOnce() {
	cash := s.create("1000", domain.Asset, "", false)
	sales := s.create("4000", domain.Income, "", false)
	original := s.mustPost("2024-01-15", line(cash.AccountID, "40", "0"), line(sales.AccountID, "0", "40"))

	reversal, err := s.svc.Journal.ReverseJournalEntry(s.ctx, company, original.JournalEntryID,
		dto.ReverseJournalEntryRequest{PostingDate: "2024-03-01"}, actor)
	s.Require().NoError(err)
	s.Equal(original.JournalEntryID, reversal.ReversalOfID)
	s.Equal(int64(2), reversal.EntryNumber)
	s.assertDecimal("40", reversal.TotalDebit)
	s.assertDecimal("0", s.balance(cash.AccountID))
	s.assertDecimal("0", s.balance(sales.AccountID))

	stored, err := s.svc.Journal.GetJournalEntry(s.ctx, company, original.JournalEntryID)
	s.Require().NoError(err)
	s.Empty(stored.ReversalOfID)

	_, err = s.svc.Journal.ReverseJournalEntry(s.ctx, company, original.JournalEntryID,
		dto.ReverseJournalEntryRequest{PostingDate: "2024-03-02"}, actor)
	s.ErrorIs(err, apperrors.ErrConflict)

	_, err = s.svc.Journal.ReverseJournalEntry(s.ctx, company, "missing",
		dto.ReverseJournalEntryRequest{PostingDate: "2024-03-02"}, actor)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerTestSuite) TestList_PaginatesNewestFirst() {
	cash := s.create("1000", domain.Asset, "", false)
	sales := s.create("4000", domain.Income, "", false)
	for i := 0; i < 5; i++ {
		s.mustPost("2024-01-15", line(cash.AccountID, "1", "0"), line(sales.AccountID, "0", "1"))
	}

	page, err := s.svc.Journal.ListJournalEntries(s.ctx, company, dto.ListJournalEntriesParams{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 2)
	s.Equal(int64(5), page.Entries[0].EntryNumber)
	s.Require().NotNil(page.NextToken)

	var numbers []int64
	for token := page.NextToken; token != nil; {
		next, err := s.svc.Journal.ListJournalEntries(s.ctx, company, dto.ListJournalEntriesParams{Limit: 2, NextToken: token})
		s.Require().NoError(err)
		for _, e := range next.Entries {
			numbers = append(numbers, e.EntryNumber)
		}
		token = next.NextToken
	}
	s.Equal([]int64{3, 2, 1}, numbers)
}

func (s *LedgerTestSuite) TestFiscalCalendar() {
	ok, err := s.svc.Fiscal.IsPostable(s.ctx, company, mustDate("2024-01-31"))
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.svc.Fiscal.IsPostable(s.ctx, company, mustDate("2024-02-01"))
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.svc.Fiscal.IsPostable(s.ctx, company, mustDate("2030-01-01"))
	s.Require().NoError(err)
	s.False(ok)

	period, err := s.svc.Fiscal.PeriodFor(s.ctx, company, mustDate("2024-06-15"))
	s.Require().NoError(err)
	s.Equal("2024-06", period.Name)

	_, err = s.svc.Fiscal.PeriodFor(s.ctx, "other", mustDate("2024-06-15"))
	s.ErrorIs(err, apperrors.ErrNotFound)
}
