package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lfcamara/user-auth-service/internal/model"
)

const userColumns = "id,email,name,password_hash,role,is_active,email_verified,created_at,updated_at"

// UserRepo is the User Directory: it owns user records, identity
// uniqueness and activation state.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns the stored record. Emails are stored
// exactly as given; uniqueness is enforced by the unique index and
// surfaced as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, name, passwordHash string, role model.Role) (model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash, role) VALUES (?,?,?,?)",
		email, name, passwordHash, role)
	if err != nil {
		// MySQL error 1062: duplicate entry for a unique key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.FindByID(ctx, uint64(id))
}

// FindByEmail fetches a user by exact email match.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdatePassword overwrites the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	return r.updateByID(ctx, id, "UPDATE users SET password_hash=? WHERE id=?", passwordHash, id)
}

// UpdateRole changes the user's role. Role validity is the caller's
// concern; the column enum rejects unknown values regardless.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role model.Role) error {
	return r.updateByID(ctx, id, "UPDATE users SET role=? WHERE id=?", role, id)
}

// SetActive toggles the activation flag.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	return r.updateByID(ctx, id, "UPDATE users SET is_active=? WHERE id=?", active, id)
}

// ListAll returns the public projection of every user, secrets excluded.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.PublicUser, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,email,name,role,is_active,email_verified,created_at,updated_at FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PublicUser
	for rows.Next() {
		var u model.PublicUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.IsActive,
			&u.EmailVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Delete removes a user and, in the same transaction, every token row
// the user owns. The schema declares ON DELETE CASCADE as well, but the
// cascade step is explicit here so the directory does not rely on
// store-level semantics.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM password_reset_tokens WHERE user_id=?", id); err != nil {
		return fmt.Errorf("delete reset tokens: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id=?", id); err != nil {
		return fmt.Errorf("delete refresh tokens: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// updateByID runs an update statement and reports ErrNotFound when the
// id does not exist. MySQL reports zero affected rows for no-op updates
// too, so a zero count falls back to an existence check.
func (r *UserRepo) updateByID(ctx context.Context, id uint64, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
