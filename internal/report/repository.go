package report

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/model"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]model.Report, error)
	ListByStatus(ctx context.Context, status string) ([]model.Report, error)
	Resolve(ctx context.Context, tx pgx.Tx, reportID uuid.UUID, status, note string) (*model.Report, error)
}

type ReportRepo struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{db: db}
}

const reportColumns = `id, reporter_id, reported_user_id, crop_id, reason, status,
	COALESCE(resolution_note, ''), created_at, updated_at`

func scanReport(row pgx.Row) (*model.Report, error) {
	var rep model.Report
	err := row.Scan(&rep.ID, &rep.ReporterID, &rep.ReportedUserID, &rep.CropID,
		&rep.Reason, &rep.Status, &rep.ResolutionNote, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (rr *ReportRepo) Create(ctx context.Context, report *model.Report) error {
	err := rr.db.QueryRow(ctx, `
		INSERT INTO reports (reporter_id, reported_user_id, crop_id, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, report.ReporterID, report.ReportedUserID, report.CropID, report.Reason, report.Status).
		Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (rr *ReportRepo) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]model.Report, error) {
	rows, err := rr.db.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports WHERE reporter_id = $1
		ORDER BY created_at DESC
	`, reporterID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return collect(rows)
}

// ListByStatus lists reports for admin review. An empty status lists all.
func (rr *ReportRepo) ListByStatus(ctx context.Context, status string) ([]model.Report, error) {
	rows, err := rr.db.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at ASC
	`, status)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return collect(rows)
}

// Resolve runs inside the caller's transaction so the admin audit log entry
// lands atomically with the status change.
func (rr *ReportRepo) Resolve(ctx context.Context, tx pgx.Tx, reportID uuid.UUID, status, note string) (*model.Report, error) {
	rep, err := scanReport(tx.QueryRow(ctx, `
		UPDATE reports SET status = $1, resolution_note = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'OPEN'
		RETURNING `+reportColumns, status, note, reportID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("open report not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rep, nil
}

func collect(rows pgx.Rows) ([]model.Report, error) {
	defer rows.Close()
	var reports []model.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		reports = append(reports, *rep)
	}
	return reports, nil
}
