// Package supabase talks to the hosted Supabase project: GoTrue for
// identities and the user_profiles table for the profile mirror.
//
// Every operation reports failure as nil or false and logs the cause at
// warn level. The local store is authoritative, so callers decide whether a
// remote failure matters.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/postgrest-go"
	supabasego "github.com/supabase-community/supabase-go"
	"github.com/tinggo/tinggo/internal/domain"
)

// ProfileTable is the hosted table holding mirror records.
const ProfileTable = "user_profiles"

var (
	_ domain.IdentityProvider = (*Client)(nil)
	_ domain.ProfileMirror    = (*Client)(nil)
)

// Client wraps a configured Supabase project.
type Client struct {
	auth gotrue.Client
	from func(table string) *postgrest.QueryBuilder
}

// New builds a client for the project at url using the given API key.
func New(url, key string) (*Client, error) {
	sb, err := supabasego.NewClient(url, key, &supabasego.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &Client{auth: sb.Auth, from: sb.From}, nil
}

func warn(ctx context.Context, op string, err error) {
	log.Ctx(ctx).Warn().Err(err).Str("op", op).Msg("supabase request failed")
}

// SignUp creates a remote identity. attributes become the user metadata.
func (c *Client) SignUp(ctx context.Context, email, password string, attributes map[string]any) *domain.RemoteIdentity {
	resp, err := c.auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     attributes,
	})
	if err != nil {
		warn(ctx, "sign_up", err)
		return nil
	}

	// With autoconfirm on the user arrives inside the session.
	id := resp.User.ID
	if id == uuid.Nil {
		id = resp.Session.User.ID
	}
	if id == uuid.Nil {
		warn(ctx, "sign_up", fmt.Errorf("%w: no user id in response", domain.ErrRemoteUnavailable))
		return nil
	}
	return &domain.RemoteIdentity{ID: id, Email: email, AccessToken: resp.Session.AccessToken}
}

// SignIn exchanges email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) *domain.RemoteIdentity {
	resp, err := c.auth.SignInWithEmailPassword(email, password)
	if err != nil {
		warn(ctx, "sign_in", err)
		return nil
	}
	if resp.AccessToken == "" {
		warn(ctx, "sign_in", fmt.Errorf("%w: empty access token", domain.ErrRemoteUnavailable))
		return nil
	}
	return &domain.RemoteIdentity{ID: resp.User.ID, Email: email, AccessToken: resp.AccessToken}
}

// ResetPasswordEmail asks GoTrue to send a recovery email.
func (c *Client) ResetPasswordEmail(ctx context.Context, email string) bool {
	if err := c.auth.Recover(types.RecoverRequest{Email: email}); err != nil {
		warn(ctx, "reset_password_email", err)
		return false
	}
	return true
}

// UpdatePassword changes the password of the identity owning accessToken.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) bool {
	_, err := c.auth.WithToken(accessToken).UpdateUser(types.UpdateUserRequest{Password: &newPassword})
	if err != nil {
		warn(ctx, "update_password", err)
		return false
	}
	return true
}

// UpsertProfile writes record keyed by user_id: update when a row exists,
// insert otherwise. The check and the write are separate requests.
func (c *Client) UpsertProfile(ctx context.Context, record domain.MirrorRecord) *domain.MirrorRecord {
	existing, err := c.selectOne(ProfileTable, "user_id", strconv.FormatInt(record.UserID, 10))
	if err != nil {
		warn(ctx, "upsert_profile", err)
		return nil
	}

	var body []byte
	if existing != nil {
		body, _, err = c.from(ProfileTable).
			Update(record, "representation", "").
			Eq("user_id", strconv.FormatInt(record.UserID, 10)).
			Execute()
	} else {
		body, _, err = c.from(ProfileTable).
			Insert(record, false, "", "representation", "").
			Execute()
	}
	if err != nil {
		warn(ctx, "upsert_profile", err)
		return nil
	}

	saved, err := firstRecord(body)
	if err != nil {
		warn(ctx, "upsert_profile", err)
		return nil
	}
	if saved == nil {
		// Some deployments return no representation; the write still succeeded.
		return &record
	}
	return saved
}

// GetProfile fetches the mirror row for userID.
func (c *Client) GetProfile(ctx context.Context, userID int64) *domain.MirrorRecord {
	rec, err := c.selectOne(ProfileTable, "user_id", strconv.FormatInt(userID, 10))
	if err != nil {
		warn(ctx, "get_profile", err)
		return nil
	}
	return rec
}

// GetProfileByEmail fetches the mirror row holding email.
func (c *Client) GetProfileByEmail(ctx context.Context, email string) *domain.MirrorRecord {
	rec, err := c.selectOne(ProfileTable, "email", email)
	if err != nil {
		warn(ctx, "get_profile_by_email", err)
		return nil
	}
	return rec
}

// Ping reports whether the profile table is reachable with the configured key.
func (c *Client) Ping(ctx context.Context) bool {
	_, _, err := c.from(ProfileTable).Select("user_id", "", false).Limit(1, "").Execute()
	if err != nil {
		warn(ctx, "ping", err)
		return false
	}
	return true
}

func (c *Client) selectOne(table, column, value string) (*domain.MirrorRecord, error) {
	body, _, err := c.from(table).Select("*", "", false).Eq(column, value).Limit(1, "").Execute()
	if err != nil {
		return nil, err
	}
	return firstRecord(body)
}

func firstRecord(body []byte) (*domain.MirrorRecord, error) {
	if len(body) == 0 {
		return nil, nil
	}
	var rows []domain.MirrorRecord
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", ProfileTable, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
