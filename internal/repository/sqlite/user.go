package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tinggo/tinggo/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

const userColumns = `id, auth_id, email, first_name, last_name, phone, bio, avatar, country, city,
	language, role, is_verified, is_active, password_hash, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ApplyDefaults()
	now := time.Now().UTC()
	id, err := insertUser(ctx, r.db, user, now)
	if err != nil {
		return err
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// CreateWithProfile inserts user and profile in one transaction. Nothing is
// stored when either insert fails.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.UserProfile) error {
	user.ApplyDefaults()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	userID, err := insertUser(ctx, tx, user, now)
	if err != nil {
		return err
	}
	profileID, err := insertProfile(ctx, tx, userID, profile, now)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	user.ID = userID
	user.CreatedAt = now
	user.UpdatedAt = now
	profile.ID = profileID
	profile.UserID = userID
	profile.CreatedAt = now
	profile.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	if err := updateUser(ctx, r.db, user, now); err != nil {
		return err
	}
	user.UpdatedAt = now
	return nil
}

// UpdateWithProfile writes user and profile in one transaction.
func (r *UserRepository) UpdateWithProfile(ctx context.Context, user *domain.User, profile *domain.UserProfile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if err := updateUser(ctx, tx, user, now); err != nil {
		return err
	}
	if err := updateProfile(ctx, tx, profile, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	user.UpdatedAt = now
	profile.UpdatedAt = now
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return expectOneRow(result)
}

func (r *UserRepository) ListRecent(ctx context.Context, limit, offset int) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, string(role)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertUser(ctx context.Context, ex execer, user *domain.User, now time.Time) (int64, error) {
	result, err := ex.ExecContext(ctx,
		`INSERT INTO users (auth_id, email, first_name, last_name, phone, bio, avatar, country, city,
			language, role, is_verified, is_active, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.AuthID.String(), user.Email, user.FirstName, user.LastName, user.Phone, user.Bio, user.Avatar,
		user.Country, user.City, string(user.Language), string(user.Role), user.IsVerified, user.IsActive,
		user.PasswordHash, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, domain.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

func updateUser(ctx context.Context, ex execer, user *domain.User, now time.Time) error {
	result, err := ex.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, phone = ?, bio = ?, avatar = ?, country = ?,
			city = ?, language = ?, role = ?, is_verified = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		user.FirstName, user.LastName, user.Phone, user.Bio, user.Avatar, user.Country,
		user.City, string(user.Language), string(user.Role), user.IsVerified, user.IsActive, now,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return expectOneRow(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*domain.User, error) {
	user := &domain.User{}
	var language, role string
	err := s.Scan(&user.ID, &user.AuthID, &user.Email, &user.FirstName, &user.LastName, &user.Phone,
		&user.Bio, &user.Avatar, &user.Country, &user.City, &language, &role, &user.IsVerified,
		&user.IsActive, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	user.Language = domain.Language(language)
	user.Role = domain.Role(role)
	return user, nil
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
