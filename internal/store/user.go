package store

import (
	"context"
	"fmt"

	"vidly/internal/database"
	"vidly/internal/model"

	"github.com/google/uuid"
)

const userColumns = `id, name, email, password_hash, is_admin, created_at`

func scanUser(row rowScanner, u *model.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
}

func GetUserByID(ctx context.Context, db database.Querier, userID uuid.UUID) (*model.User, error) {
	u := &model.User{}
	row := db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	if err := scanUser(row, u); err != nil {
		return nil, wrapErr("GetUserByID", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.Querier, email string) (*model.User, error) {
	u := &model.User{}
	row := db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err := scanUser(row, u); err != nil {
		return nil, wrapErr("GetUserByEmail", err)
	}
	return u, nil
}

func CreateUser(ctx context.Context, db database.Querier, u *model.User) (*model.User, error) {
	u.ID = newID()
	row := db.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash, is_admin)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.IsAdmin,
	)
	if err := row.Scan(&u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("CreateUser: %w", ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}
