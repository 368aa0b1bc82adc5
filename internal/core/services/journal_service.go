package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/utils/pagination"
)

var (
	ErrJournalMinLines    = errors.New("journal entry must have at least two lines")
	ErrJournalUnbalanced  = errors.New("journal entry debits and credits differ")
	ErrNegativeAmount     = errors.New("line amounts cannot be negative")
	ErrOneSidedLine       = errors.New("exactly one of debit and credit must be nonzero")
	ErrAmountPrecision    = fmt.Errorf("line amounts allow at most %d decimal places", domain.AmountScale)
	ErrPeriodNotPostable  = errors.New("posting date is not in an open fiscal period")
	ErrAccountNotPostable = errors.New("account cannot receive postings")
	ErrAlreadyReversed    = errors.New("journal entry has already been reversed")
)

// Posting metric results.
const (
	postingResultPosted   = "posted"
	postingResultRejected = "rejected"
	postingResultFailed   = "failed"
)

// journalService is the posting engine.
type journalService struct {
	BaseService
	uow         portsrepo.UnitOfWork
	journalRepo portsrepo.JournalReader
	invalidator *balanceInvalidator
	metrics     portssvc.MetricsRecorder
	retry       RetryPolicy
}

// NewJournalService creates a new JournalService.
func NewJournalService(repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.JournalSvcFacade {
	o := buildOptions(options)
	return &journalService{
		BaseService: o.base(),
		uow:         repos.UnitOfWork,
		journalRepo: repos.JournalRepo,
		invalidator: o.invalidator(),
		metrics:     o.metrics,
		retry:       o.retry,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// checkLines runs the checks that need no storage access.
func checkLines(lines []domain.GLEntry) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: %w: got %d", apperrors.ErrValidation, ErrJournalMinLines, len(lines))
	}
	for i, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("%w: %w: line %d", apperrors.ErrValidation, ErrNegativeAmount, i+1)
		}
		if l.Debit.IsZero() == l.Credit.IsZero() {
			return fmt.Errorf("%w: %w: line %d", apperrors.ErrValidation, ErrOneSidedLine, i+1)
		}
		if !domain.FitsAmountColumn(l.Debit) || !domain.FitsAmountColumn(l.Credit) {
			return fmt.Errorf("%w: %w: line %d", apperrors.ErrValidation, ErrAmountPrecision, i+1)
		}
	}
	return nil
}

func touchedAccountIDs(lines []domain.GLEntry) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.AccountID
	}
	return uniqueSorted(ids)
}

// postInTx validates entry against the ledger state visible to repos, numbers
// it and stores it with its lines.
func (s *journalService) postInTx(ctx context.Context, repos portsrepo.TxRepositories, entry *domain.JournalEntry) error {
	companyID := entry.CompanyID
	ids := touchedAccountIDs(entry.Lines)

	accounts := repos.Accounts()
	if err := accounts.LockAccountsForShare(ctx, companyID, ids); err != nil {
		return err
	}
	found, err := accounts.FindAccountsByIDs(ctx, companyID, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		acc, ok := found[id]
		if !ok {
			return fmt.Errorf("%w: %w: account %s", apperrors.ErrValidation, apperrors.ErrNotFound, id)
		}
		if acc.IsGroup {
			return fmt.Errorf("%w: %w: %s is a group account", apperrors.ErrValidation, ErrAccountNotPostable, acc.Code)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: %w: %s is inactive", apperrors.ErrValidation, ErrAccountNotPostable, acc.Code)
		}
	}

	debit, credit := domain.SumLines(entry.Lines)
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: %w: debits %s, credits %s", apperrors.ErrValidation, ErrJournalUnbalanced, debit.String(), credit.String())
	}
	entry.TotalDebit, entry.TotalCredit = debit, credit

	period, err := lookupPeriod(ctx, repos.Fiscal(), companyID, entry.PostingDate)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("%w: %w: %s", apperrors.ErrValidation, ErrPeriodNotPostable, entry.PostingDate.Format(domain.DateLayout))
	case err != nil:
		return err
	case period.IsClosed:
		return fmt.Errorf("%w: %w: period %s is closed", apperrors.ErrValidation, ErrPeriodNotPostable, period.Name)
	}

	number, err := repos.Journals().NextEntryNumber(ctx, companyID)
	if err != nil {
		return err
	}
	entry.EntryNumber = number
	entry.IsPosted = true
	return repos.Journals().SaveJournalEntry(ctx, *entry)
}

// commit runs postInTx with retries and settles cache and metrics afterwards.
func (s *journalService) commit(ctx context.Context, entry *domain.JournalEntry, prepare func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	onRetry := func(attempt int, err error) {
		s.metrics.ObserveRetry("post_journal_entry")
		s.LogWarn(ctx, "Posting collided, retrying",
			slog.String("company_id", entry.CompanyID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}
	err := s.retry.Do(ctx, onRetry, func(ctx context.Context) error {
		return s.uow.WithTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			if prepare != nil {
				if err := prepare(ctx, repos); err != nil {
					return err
				}
			}
			return s.postInTx(ctx, repos, entry)
		})
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || apperrors.IsConflict(err) || errors.Is(err, apperrors.ErrNotFound) {
			s.metrics.ObservePosting(postingResultRejected)
		} else {
			s.metrics.ObservePosting(postingResultFailed)
		}
		return err
	}

	s.metrics.ObservePosting(postingResultPosted)
	s.invalidator.invalidate(ctx, "post_journal_entry", entry.CompanyID, touchedAccountIDs(entry.Lines)...)
	return nil
}

func (s *journalService) newEntry(companyID, actorID string, postingDateRaw, reference, description string) (*domain.JournalEntry, error) {
	postingDate, err := domain.ParseDate(postingDateRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid posting date %q", apperrors.ErrValidation, postingDateRaw)
	}
	return &domain.JournalEntry{
		JournalEntryID: uuid.NewString(),
		CompanyID:      companyID,
		PostingDate:    postingDate,
		Reference:      strings.TrimSpace(reference),
		Description:    description,
		CreatedBy:      actorID,
		CreatedAt:      s.now(),
	}, nil
}

func (s *journalService) newLine(entry *domain.JournalEntry, accountID string, debit, credit decimal.Decimal, description, reference string) domain.GLEntry {
	return domain.GLEntry{
		GLEntryID:      uuid.NewString(),
		JournalEntryID: entry.JournalEntryID,
		CompanyID:      entry.CompanyID,
		AccountID:      accountID,
		PostingDate:    entry.PostingDate,
		Debit:          debit,
		Credit:         credit,
		Description:    description,
		Reference:      reference,
		CreatedAt:      entry.CreatedAt,
	}
}

// PostJournalEntry validates and commits a balanced entry in one transaction.
func (s *journalService) PostJournalEntry(ctx context.Context, companyID string, req dto.PostJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	entry, err := s.newEntry(companyID, actorID, req.PostingDate, req.Reference, req.Description)
	if err != nil {
		s.metrics.ObservePosting(postingResultRejected)
		return nil, err
	}
	entry.Lines = make([]domain.GLEntry, 0, len(req.Lines))
	for _, l := range req.Lines {
		entry.Lines = append(entry.Lines, s.newLine(entry, l.AccountID, l.Debit, l.Credit, l.Description, l.Reference))
	}
	if err := checkLines(entry.Lines); err != nil {
		s.metrics.ObservePosting(postingResultRejected)
		s.LogDebug(ctx, "Journal entry rejected", slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.commit(ctx, entry, nil); err != nil {
		s.LogError(ctx, err, "Failed to post journal entry",
			slog.String("company_id", companyID),
			slog.String("actor_id", actorID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("journal_entry_id", entry.JournalEntryID),
		slog.Int64("entry_number", entry.EntryNumber),
		slog.String("company_id", companyID))
	return entry, nil
}

// ReverseJournalEntry posts the mirror image of an existing entry.
func (s *journalService) ReverseJournalEntry(ctx context.Context, companyID, journalEntryID string, req dto.ReverseJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	entry, err := s.newEntry(companyID, actorID, req.PostingDate, "", req.Description)
	if err != nil {
		return nil, err
	}
	entry.ReversalOfID = journalEntryID

	prepare := func(ctx context.Context, repos portsrepo.TxRepositories) error {
		journals := repos.Journals()
		original, err := journals.FindJournalEntryByID(ctx, companyID, journalEntryID)
		if err != nil {
			return err
		}
		if _, err := journals.FindReversalOf(ctx, companyID, journalEntryID); err == nil {
			return fmt.Errorf("%w: %w: %s", apperrors.ErrConflict, ErrAlreadyReversed, journalEntryID)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		entry.Reference = original.Reference
		if entry.Description == "" {
			entry.Description = fmt.Sprintf("Reversal of entry #%d", original.EntryNumber)
		}
		entry.Lines = make([]domain.GLEntry, 0, len(original.Lines))
		for _, l := range original.Lines {
			entry.Lines = append(entry.Lines, s.newLine(entry, l.AccountID, l.Credit, l.Debit, l.Description, l.Reference))
		}
		return checkLines(entry.Lines)
	}

	if err := s.commit(ctx, entry, prepare); err != nil {
		s.LogError(ctx, err, "Failed to reverse journal entry",
			slog.String("company_id", companyID),
			slog.String("journal_entry_id", journalEntryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("journal_entry_id", journalEntryID),
		slog.String("reversal_id", entry.JournalEntryID))
	return entry, nil
}

func (s *journalService) GetJournalEntry(ctx context.Context, companyID, journalEntryID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindJournalEntryByID(ctx, companyID, journalEntryID)
}

func (s *journalService) ListJournalEntries(ctx context.Context, companyID string, params dto.ListJournalEntriesParams) (*domain.JournalEntryPage, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	entries, next, err := s.journalRepo.ListJournalEntries(ctx, companyID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("company_id", companyID))
		return nil, err
	}
	return &domain.JournalEntryPage{Entries: entries, NextToken: next}, nil
}
