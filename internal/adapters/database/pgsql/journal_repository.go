package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
	"github.com/SscSPs/general_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	journalColumns = `journal_entry_id, company_id, entry_number, posting_date, reference, description,
	total_debit, total_credit, is_posted, reversal_of_id, created_by, created_at`
	glEntryColumns = `gl_entry_id, journal_entry_id, company_id, account_id, posting_date,
	debit, credit, description, reference, created_at`
)

type journalRepository struct {
	db dbtx
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

func (r *journalRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query journal entries")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapError(err, "failed to scan journal entries")
	}
	entries := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nil
}

func (r *journalRepository) withLines(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+glEntryColumns+` FROM gl_entries WHERE journal_entry_id = $1 ORDER BY line_no`, entry.JournalEntryID)
	if err != nil {
		return nil, mapError(err, "failed to query lines of "+entry.JournalEntryID)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.GLEntry])
	if err != nil {
		return nil, mapError(err, "failed to scan lines of "+entry.JournalEntryID)
	}
	entry.Lines = make([]domain.GLEntry, len(ms))
	for i, m := range ms {
		entry.Lines[i] = mapping.ToDomainGLEntry(m)
	}
	return &entry, nil
}

func (r *journalRepository) FindJournalEntryByID(ctx context.Context, companyID, journalEntryID string) (*domain.JournalEntry, error) {
	entries, err := r.queryEntries(ctx,
		`SELECT `+journalColumns+` FROM journal_entries WHERE company_id = $1 AND journal_entry_id = $2`, companyID, journalEntryID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("journal entry %s: %w", journalEntryID, apperrors.ErrNotFound)
	}
	return r.withLines(ctx, entries[0])
}

func (r *journalRepository) FindReversalOf(ctx context.Context, companyID, journalEntryID string) (*domain.JournalEntry, error) {
	entries, err := r.queryEntries(ctx,
		`SELECT `+journalColumns+` FROM journal_entries WHERE company_id = $1 AND reversal_of_id = $2`, companyID, journalEntryID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("reversal of %s: %w", journalEntryID, apperrors.ErrNotFound)
	}
	return r.withLines(ctx, entries[0])
}

func (r *journalRepository) ListJournalEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	var before *int64
	if nextToken != nil && *nextToken != "" {
		n, err := pagination.DecodeEntryNumberToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		before = &n
	}
	// One extra row tells whether another page exists.
	entries, err := r.queryEntries(ctx, `
		SELECT `+journalColumns+` FROM journal_entries
		WHERE company_id = $1 AND ($2::bigint IS NULL OR entry_number < $2)
		ORDER BY entry_number DESC
		LIMIT $3`,
		companyID, before, limit+1)
	if err != nil {
		return nil, nil, err
	}
	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		token := pagination.EncodeEntryNumberToken(entries[limit-1].EntryNumber)
		next = &token
	}
	return entries, next, nil
}

// NextEntryNumber increments the company's counter row. The row lock is held
// until the surrounding transaction ends, so numbers stay gap-free.
func (r *journalRepository) NextEntryNumber(ctx context.Context, companyID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO journal_entry_sequences (company_id, last_number) VALUES ($1, 1)
		ON CONFLICT (company_id) DO UPDATE SET last_number = journal_entry_sequences.last_number + 1
		RETURNING last_number`, companyID).Scan(&n)
	if err != nil {
		return 0, mapError(err, "failed to allocate entry number")
	}
	return n, nil
}

func (r *journalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	_, err := r.db.Exec(ctx, `
		INSERT INTO journal_entries (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.JournalEntryID, m.CompanyID, m.EntryNumber, m.PostingDate, m.Reference, m.Description,
		m.TotalDebit, m.TotalCredit, m.IsPosted, m.ReversalOfID, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return mapError(err, "failed to insert journal entry "+m.JournalEntryID)
	}

	batch := &pgx.Batch{}
	lineQuery := `INSERT INTO gl_entries (` + glEntryColumns + `, line_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i, line := range entry.Lines {
		line.JournalEntryID = entry.JournalEntryID
		line.CompanyID = entry.CompanyID
		l := mapping.ToModelGLEntry(line)
		batch.Queue(lineQuery,
			l.GLEntryID, l.JournalEntryID, l.CompanyID, l.AccountID, l.PostingDate,
			l.Debit, l.Credit, l.Description, l.Reference, l.CreatedAt, i+1)
	}
	br := r.db.SendBatch(ctx, batch)
	for range entry.Lines {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return mapError(err, "failed to insert lines of "+m.JournalEntryID)
		}
	}
	return mapError(br.Close(), "failed to close line batch")
}

func (r *journalRepository) SumByAccounts(ctx context.Context, companyID string, accountIDs []string, asOf *time.Time) (map[string]domain.LedgerTotals, error) {
	out := make(map[string]domain.LedgerTotals, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	var cutoff *time.Time
	if asOf != nil {
		d := domain.NormalizeDate(*asOf)
		cutoff = &d
	}
	rows, err := r.db.Query(ctx, `
		SELECT account_id, SUM(debit), SUM(credit) FROM gl_entries
		WHERE company_id = $1 AND account_id = ANY($2) AND ($3::date IS NULL OR posting_date <= $3)
		GROUP BY account_id`,
		companyID, accountIDs, cutoff)
	if err != nil {
		return nil, mapError(err, "failed to sum ledger lines")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id            string
			debit, credit decimal.Decimal
		)
		if err := rows.Scan(&id, &debit, &credit); err != nil {
			return nil, mapError(err, "failed to scan ledger sums")
		}
		out[id] = domain.LedgerTotals{Debit: debit, Credit: credit}
	}
	return out, mapError(rows.Err(), "failed to read ledger sums")
}

func (r *journalRepository) CountEntriesByAccount(ctx context.Context, companyID, accountID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM gl_entries WHERE company_id = $1 AND account_id = $2`, companyID, accountID).Scan(&n)
	return n, mapError(err, "failed to count ledger lines")
}

func (r *journalRepository) queryIDs(ctx context.Context, msg, query string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, msg)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err, msg)
	}
	return ids, nil
}

func (r *journalRepository) FindUnbalancedJournalEntries(ctx context.Context, companyID string) ([]string, error) {
	return r.queryIDs(ctx, "failed to find unbalanced entries", `
		SELECT j.journal_entry_id
		FROM journal_entries j
		LEFT JOIN gl_entries g ON g.journal_entry_id = j.journal_entry_id
		WHERE j.company_id = $1
		GROUP BY j.journal_entry_id, j.total_debit, j.total_credit
		HAVING j.total_debit <> j.total_credit
		    OR COALESCE(SUM(g.debit), 0) <> j.total_debit
		    OR COALESCE(SUM(g.credit), 0) <> j.total_credit
		ORDER BY j.journal_entry_id`, companyID)
}

func (r *journalRepository) FindEntriesOnGroupAccounts(ctx context.Context, companyID string) ([]string, error) {
	return r.queryIDs(ctx, "failed to find lines on group accounts", `
		SELECT g.gl_entry_id
		FROM gl_entries g
		JOIN accounts a ON a.account_id = g.account_id
		WHERE g.company_id = $1 AND a.is_group
		ORDER BY g.gl_entry_id`, companyID)
}

func (r *journalRepository) RepointEntries(ctx context.Context, companyID, fromAccountID, toAccountID string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE gl_entries SET account_id = $3 WHERE company_id = $1 AND account_id = $2`,
		companyID, fromAccountID, toAccountID)
	if err != nil {
		return 0, mapError(err, "failed to repoint ledger lines")
	}
	return tag.RowsAffected(), nil
}
