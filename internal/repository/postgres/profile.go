package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tinggo/tinggo/internal/domain"
)

// ProfileRepository implements domain.UserProfileRepository on a pgx pool.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.UserProfile) error {
	return insertProfile(ctx, r.pool, p)
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	p := &domain.UserProfile{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, website, instagram, facebook, twitter, business_name, business_description,
			email_notifications, push_notifications, created_at, updated_at
		FROM user_profiles WHERE user_id = $1`, userID,
	).Scan(&p.ID, &p.UserID, &p.Website, &p.Instagram, &p.Facebook, &p.Twitter, &p.BusinessName,
		&p.BusinessDescription, &p.EmailNotifications, &p.PushNotifications, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("query user profile: %w", notFound(err))
	}
	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *domain.UserProfile) error {
	return updateProfile(ctx, r.pool, p)
}

func insertProfile(ctx context.Context, q querier, p *domain.UserProfile) error {
	const query = `
		INSERT INTO user_profiles (user_id, website, instagram, facebook, twitter, business_name,
			business_description, email_notifications, push_notifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := q.QueryRow(ctx, query,
		p.UserID, p.Website, p.Instagram, p.Facebook, p.Twitter, p.BusinessName,
		p.BusinessDescription, p.EmailNotifications, p.PushNotifications,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %d already has a profile", domain.ErrInvalidInput, p.UserID)
		}
		return fmt.Errorf("insert user profile: %w", err)
	}
	return nil
}

func updateProfile(ctx context.Context, q querier, p *domain.UserProfile) error {
	err := q.QueryRow(ctx, `
		UPDATE user_profiles SET website = $1, instagram = $2, facebook = $3, twitter = $4,
			business_name = $5, business_description = $6, email_notifications = $7,
			push_notifications = $8, updated_at = NOW()
		WHERE user_id = $9
		RETURNING updated_at`,
		p.Website, p.Instagram, p.Facebook, p.Twitter, p.BusinessName, p.BusinessDescription,
		p.EmailNotifications, p.PushNotifications, p.UserID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user profile: %w", notFound(err))
	}
	return nil
}
