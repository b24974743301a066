package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
)

type UserRepository interface {
	CreateWithProfile(ctx context.Context, user *model.User, farmer *model.Farmer, retailer *model.Retailer) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, name, email, password_hash, role, verified, account_status, trust_score, language, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Verified,
		&u.AccountStatus, &u.TrustScore, &u.Language, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &u, nil
}

// CreateWithProfile inserts the user and its role profile in one transaction.
func (ur *UserRepo) CreateWithProfile(ctx context.Context, user *model.User, farmer *model.Farmer, retailer *model.Retailer) error {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, verified, account_status, trust_score, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, user.Name, user.Email, user.PasswordHash, user.Role, user.Verified,
		user.AccountStatus, user.TrustScore, user.Language,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Validation("email already registered")
		}
		return apperr.Internal(err)
	}

	switch user.Role {
	case constants.RoleFarmer:
		farmer.UserID = user.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO farmers (user_id, location) VALUES ($1, $2) RETURNING id
		`, farmer.UserID, farmer.Location).Scan(&farmer.ID)
	case constants.RoleRetailer:
		retailer.UserID = user.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO retailers (user_id, business_name, gst_number) VALUES ($1, $2, $3) RETURNING id
		`, retailer.UserID, retailer.BusinessName, retailer.GSTNumber).Scan(&retailer.ID)
	}
	if err != nil {
		return apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (ur *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(ur.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (ur *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return scanUser(ur.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}
