package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tinggo/tinggo/internal/domain"
)

// UserRepository implements domain.UserRepository on a pgx pool.
type UserRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `id, auth_id, email, first_name, last_name, phone, bio, avatar, country, city,
	language, role, is_verified, is_active, password_hash, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ApplyDefaults()
	return insertUser(ctx, r.pool, user)
}

// CreateWithProfile inserts user and profile in one transaction. Nothing is
// stored when either insert fails.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.UserProfile) error {
	user.ApplyDefaults()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created, createdProfile := *user, *profile
	if err := insertUser(ctx, tx, &created); err != nil {
		return err
	}
	createdProfile.UserID = created.ID
	if err := insertProfile(ctx, tx, &createdProfile); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	*user, *profile = created, createdProfile
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("query user by id: %w", notFound(err))
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", notFound(err))
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return updateUser(ctx, r.pool, user)
}

// UpdateWithProfile writes user and profile in one transaction.
func (r *UserRepository) UpdateWithProfile(ctx context.Context, user *domain.User, profile *domain.UserProfile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	updated, updatedProfile := *user, *profile
	if err := updateUser(ctx, tx, &updated); err != nil {
		return err
	}
	if err := updateProfile(ctx, tx, &updatedProfile); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	*user, *profile = updated, updatedProfile
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ListRecent(ctx context.Context, limit, offset int) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
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
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertUser(ctx context.Context, q querier, user *domain.User) error {
	const query = `
		INSERT INTO users (auth_id, email, first_name, last_name, phone, bio, avatar, country, city,
			language, role, is_verified, is_active, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`
	err := q.QueryRow(ctx, query,
		user.AuthID, user.Email, user.FirstName, user.LastName, user.Phone, user.Bio, user.Avatar,
		user.Country, user.City, string(user.Language), string(user.Role), user.IsVerified, user.IsActive,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func updateUser(ctx context.Context, q querier, user *domain.User) error {
	const query = `
		UPDATE users SET first_name = $1, last_name = $2, phone = $3, bio = $4, avatar = $5, country = $6,
			city = $7, language = $8, role = $9, is_verified = $10, is_active = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at`
	err := q.QueryRow(ctx, query,
		user.FirstName, user.LastName, user.Phone, user.Bio, user.Avatar, user.Country,
		user.City, string(user.Language), string(user.Role), user.IsVerified, user.IsActive, user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", notFound(err))
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	var language, role string
	err := row.Scan(&user.ID, &user.AuthID, &user.Email, &user.FirstName, &user.LastName, &user.Phone,
		&user.Bio, &user.Avatar, &user.Country, &user.City, &language, &role, &user.IsVerified,
		&user.IsActive, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.Language = domain.Language(language)
	user.Role = domain.Role(role)
	return user, nil
}
