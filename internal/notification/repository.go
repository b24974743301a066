package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	BroadcastToActiveRetailers(ctx context.Context, kind, title, message string) (int64, error)
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

type NotificationRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (nr *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	err := nr.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, title, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, n.UserID, n.Type, n.Title, n.Message).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// BroadcastToActiveRetailers fans one message out to every active retailer
// in a single statement. Used for new-listing announcements.
func (nr *NotificationRepo) BroadcastToActiveRetailers(ctx context.Context, kind, title, message string) (int64, error) {
	tag, err := nr.db.Exec(ctx, `
		INSERT INTO notifications (user_id, type, title, message)
		SELECT id, $1, $2, $3
		FROM users
		WHERE role = 'RETAILER' AND account_status = 'ACTIVE'
	`, kind, title, message)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return tag.RowsAffected(), nil
}

func (nr *NotificationRepo) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	rows, err := nr.db.Query(ctx, `
		SELECT id, user_id, type, title, message, read, created_at, updated_at
		FROM notifications
		WHERE user_id = $1 AND ($2 = false OR read = false)
		ORDER BY created_at DESC
		LIMIT 100
	`, userID, unreadOnly)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var ns []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.Read, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, apperr.Internal(err)
		}
		ns = append(ns, n)
	}
	return ns, nil
}

func (nr *NotificationRepo) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	tag, err := nr.db.Exec(ctx, `
		UPDATE notifications SET read = true, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return apperr.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}
