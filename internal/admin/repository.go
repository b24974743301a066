package admin

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/internal/report"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
)

type AdminRepository interface {
	ListUsers(ctx context.Context, role constants.Role, status constants.AccountStatus) ([]model.User, error)
	SetUserStatus(ctx context.Context, actorID, userID uuid.UUID, status constants.AccountStatus) error
	VerifyUser(ctx context.Context, actorID, userID uuid.UUID) error
	ListCrops(ctx context.Context) ([]model.Crop, error)
	RemoveCrop(ctx context.Context, actorID, cropID uuid.UUID) (removed bool, err error)
	ResolveReport(ctx context.Context, actorID, reportID uuid.UUID, status, note string) (*model.Report, error)
	AuditTrail(ctx context.Context, limit int) ([]model.AuditLog, error)
}

type AdminRepo struct {
	db      *pgxpool.Pool
	reports report.ReportRepository
}

func NewAdminRepository(db *pgxpool.Pool, reports report.ReportRepository) *AdminRepo {
	return &AdminRepo{db: db, reports: reports}
}

// audit appends one audit log row inside the caller's transaction so the
// record cannot outlive a rolled-back action or go missing after a committed
// one.
func audit(ctx context.Context, tx pgx.Tx, actorID uuid.UUID, action string, targetID uuid.UUID, detail any) error {
	var raw []byte
	if detail != nil {
		var err error
		if raw, err = json.Marshal(detail); err != nil {
			return err
		}
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO audit_logs (actor_id, action, target_id, detail)
		VALUES ($1, $2, $3, $4)
	`, actorID, action, targetID, raw)
	return err
}

func (ar *AdminRepo) ListUsers(ctx context.Context, role constants.Role, status constants.AccountStatus) ([]model.User, error) {
	rows, err := ar.db.Query(ctx, `
		SELECT id, name, email, role, verified, account_status, trust_score, language,
		       created_at, updated_at
		FROM users
		WHERE ($1 = '' OR role = $1) AND ($2 = '' OR account_status = $2)
		ORDER BY created_at DESC
	`, string(role), string(status))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Verified,
			&u.AccountStatus, &u.TrustScore, &u.Language,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, apperr.Internal(err)
		}
		users = append(users, u)
	}
	return users, nil
}

func (ar *AdminRepo) SetUserStatus(ctx context.Context, actorID, userID uuid.UUID, status constants.AccountStatus) error {
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users SET account_status = $1, updated_at = NOW()
		WHERE id = $2 AND role <> 'ADMIN'
	`, status, userID)
	if err != nil {
		return apperr.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}

	if err := audit(ctx, tx, actorID, "user.status."+string(status), userID, nil); err != nil {
		return apperr.Internal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (ar *AdminRepo) VerifyUser(ctx context.Context, actorID, userID uuid.UUID) error {
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users SET verified = true, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return apperr.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}

	if err := audit(ctx, tx, actorID, "user.verified", userID, nil); err != nil {
		return apperr.Internal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (ar *AdminRepo) ListCrops(ctx context.Context) ([]model.Crop, error) {
	rows, err := ar.db.Query(ctx, `
		SELECT id, farmer_id, name, quality_grade, total_quantity, available_quantity,
		       min_price, bidding_type, status, bidding_status, bidding_start_time,
		       bidding_end_time, attempt_number, created_at, updated_at
		FROM crops
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var crops []model.Crop
	for rows.Next() {
		var c model.Crop
		if err := rows.Scan(&c.ID, &c.FarmerID, &c.Name, &c.QualityGrade,
			&c.TotalQuantity, &c.AvailableQuantity, &c.MinPrice, &c.BiddingType,
			&c.Status, &c.BiddingStatus, &c.BiddingStartTime, &c.BiddingEndTime,
			&c.AttemptNumber, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, apperr.Internal(err)
		}
		crops = append(crops, c)
	}
	return crops, nil
}

// RemoveCrop takes a listing off the marketplace. A listing with settled or
// in-flight orders is kept for bookkeeping and flipped to REMOVED; one with
// only open bids is deleted outright along with those bids.
func (ar *AdminRepo) RemoveCrop(ctx context.Context, actorID, cropID uuid.UUID) (bool, error) {
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return false, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT true FROM crops WHERE id = $1 FOR UPDATE`, cropID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, apperr.NotFound("listing not found")
	}
	if err != nil {
		return false, apperr.Internal(err)
	}

	var hasOrders bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM transactions WHERE crop_id = $1)
	`, cropID).Scan(&hasOrders)
	if err != nil {
		return false, apperr.Internal(err)
	}

	if hasOrders {
		_, err = tx.Exec(ctx, `
			UPDATE crops SET status = $1, bidding_status = $2, updated_at = NOW()
			WHERE id = $3
		`, constants.CropRemoved, constants.BiddingClosed, cropID)
		if err != nil {
			return false, apperr.Internal(err)
		}
		if err := audit(ctx, tx, actorID, "crop.removed", cropID, nil); err != nil {
			return false, apperr.Internal(err)
		}
		if err := tx.Commit(ctx); err != nil {
			return false, apperr.Internal(err)
		}
		return true, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM bids WHERE crop_id = $1`, cropID); err != nil {
		return false, apperr.Internal(err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM crops WHERE id = $1`, cropID); err != nil {
		return false, apperr.Internal(err)
	}
	if err := audit(ctx, tx, actorID, "crop.deleted", cropID, nil); err != nil {
		return false, apperr.Internal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, apperr.Internal(err)
	}
	return false, nil
}

func (ar *AdminRepo) ResolveReport(ctx context.Context, actorID, reportID uuid.UUID, status, note string) (*model.Report, error) {
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	rep, err := ar.reports.Resolve(ctx, tx, reportID, status, note)
	if err != nil {
		return nil, err
	}

	detail := map[string]string{"status": status, "note": note}
	if err := audit(ctx, tx, actorID, "report.resolved", reportID, detail); err != nil {
		return nil, apperr.Internal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	return rep, nil
}

func (ar *AdminRepo) AuditTrail(ctx context.Context, limit int) ([]model.AuditLog, error) {
	rows, err := ar.db.Query(ctx, `
		SELECT id, actor_id, action, target_id, detail, created_at, updated_at
		FROM audit_logs
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var entries []model.AuditLog
	for rows.Next() {
		var e model.AuditLog
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.TargetID,
			&e.Detail, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, apperr.Internal(err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
