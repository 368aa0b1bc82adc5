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
	"github.com/jackc/pgx/v5"
)

type fiscalRepository struct {
	db dbtx
}

var _ portsrepo.FiscalRepositoryFacade = (*fiscalRepository)(nil)

func (r *fiscalRepository) FindPeriodsByDate(ctx context.Context, companyID string, date time.Time) ([]domain.FiscalPeriod, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.fiscal_period_id, p.fiscal_year_id, p.company_id, p.name, p.start_date, p.end_date,
		       p.is_closed, y.is_closed AS year_closed
		FROM fiscal_periods p
		JOIN fiscal_years y ON y.fiscal_year_id = p.fiscal_year_id
		WHERE p.company_id = $1 AND $2::date BETWEEN p.start_date AND p.end_date
		ORDER BY p.start_date`,
		companyID, domain.NormalizeDate(date))
	if err != nil {
		return nil, mapError(err, "failed to query fiscal periods")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.FiscalPeriod])
	if err != nil {
		return nil, mapError(err, "failed to scan fiscal periods")
	}
	out := make([]domain.FiscalPeriod, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainFiscalPeriod(m)
	}
	return out, nil
}

func (r *fiscalRepository) SaveFiscalYear(ctx context.Context, year domain.FiscalYear) error {
	if err := year.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	y := mapping.ToModelFiscalYear(year)
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO fiscal_years (fiscal_year_id, company_id, name, start_date, end_date, is_closed)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		y.FiscalYearID, y.CompanyID, y.Name, y.StartDate, y.EndDate, y.IsClosed)
	for _, p := range year.Periods {
		batch.Queue(`
			INSERT INTO fiscal_periods (fiscal_period_id, fiscal_year_id, company_id, name, start_date, end_date, is_closed)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.FiscalPeriodID, y.FiscalYearID, y.CompanyID, p.Name,
			domain.NormalizeDate(p.StartDate), domain.NormalizeDate(p.EndDate), p.IsClosed)
	}
	br := r.db.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return mapError(err, "failed to save fiscal year "+y.FiscalYearID)
		}
	}
	return mapError(br.Close(), "failed to save fiscal year "+y.FiscalYearID)
}
