package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tinggo/tinggo/internal/domain"
)

// ProfileRepository implements domain.UserProfileRepository using SQLite.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new SQLite-backed ProfileRepository.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db.SqlDB}
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.UserProfile) error {
	now := time.Now().UTC()
	id, err := insertProfile(ctx, r.db, p.UserID, p, now)
	if err != nil {
		return err
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	p := &domain.UserProfile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, website, instagram, facebook, twitter, business_name, business_description,
			email_notifications, push_notifications, created_at, updated_at
		 FROM user_profiles WHERE user_id = ?`, userID,
	).Scan(&p.ID, &p.UserID, &p.Website, &p.Instagram, &p.Facebook, &p.Twitter, &p.BusinessName,
		&p.BusinessDescription, &p.EmailNotifications, &p.PushNotifications, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *domain.UserProfile) error {
	now := time.Now().UTC()
	if err := updateProfile(ctx, r.db, p, now); err != nil {
		return err
	}
	p.UpdatedAt = now
	return nil
}

func insertProfile(ctx context.Context, ex execer, userID int64, p *domain.UserProfile, now time.Time) (int64, error) {
	result, err := ex.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id, website, instagram, facebook, twitter, business_name,
			business_description, email_notifications, push_notifications, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, p.Website, p.Instagram, p.Facebook, p.Twitter, p.BusinessName,
		p.BusinessDescription, p.EmailNotifications, p.PushNotifications, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, fmt.Errorf("%w: user %d already has a profile", domain.ErrInvalidInput, userID)
		}
		return 0, fmt.Errorf("insert user profile: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

func updateProfile(ctx context.Context, ex execer, p *domain.UserProfile, now time.Time) error {
	result, err := ex.ExecContext(ctx,
		`UPDATE user_profiles SET website = ?, instagram = ?, facebook = ?, twitter = ?, business_name = ?,
			business_description = ?, email_notifications = ?, push_notifications = ?, updated_at = ?
		 WHERE user_id = ?`,
		p.Website, p.Instagram, p.Facebook, p.Twitter, p.BusinessName,
		p.BusinessDescription, p.EmailNotifications, p.PushNotifications, now, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	return expectOneRow(result)
}
