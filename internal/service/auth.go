package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/tinggo/tinggo/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Remote is the hosted identity service together with its profile mirror.
type Remote interface {
	domain.IdentityProvider
	domain.ProfileMirror
}

// AuthService handles registration, login, password management and session tokens.
//
// Accounts live in two places: the hosted identity service and the local
// store. The local store is authoritative; the hosted user_profiles table is
// a best-effort mirror.
type AuthService struct {
	users      domain.UserRepository
	remote     Remote
	jwtSecret  []byte
	bcryptCost int
	sessionTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, remote Remote, jwtSecret string, bcryptCost int, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		remote:     remote,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
		sessionTTL: sessionTTL,
	}
}

// SessionTTL is the lifetime of issued session tokens.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Register creates the remote identity, then the local user and its empty
// profile in one transaction, mirrors the user, and signs the new user in.
// It returns the user and a session token.
//
// A remote failure leaves the local store untouched. A local failure after
// remote success leaves the remote identity behind.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	if err := ValidateRegister(&in); err != nil {
		return nil, "", err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("check email: %w", err)
	}

	identity := s.remote.SignUp(ctx, in.Email, in.Password, map[string]any{
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"role":       in.Role,
		"language":   string(in.Language),
	})
	if identity == nil {
		return nil, "", domain.ErrAccountCreation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		AuthID:       identity.ID,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         domain.Role(in.Role),
		Language:     in.Language,
		IsActive:     true,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateWithProfile(ctx, user, domain.NewUserProfile(0)); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("auth_id", identity.ID.String()).
			Msg("local user creation failed after remote sign-up")
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	if s.remote.UpsertProfile(ctx, domain.NewMirrorRecord(user).WithCreatedAt(user.CreatedAt)) == nil {
		log.Ctx(ctx).Warn().Int64("user_id", user.ID).Msg("profile mirror not written after registration")
	}

	authenticated, err := s.checkLocal(ctx, in.Email, in.Password)
	if err != nil {
		return nil, "", err
	}
	token, err := s.generateJWT(authenticated)
	if err != nil {
		return nil, "", fmt.Errorf("generate jwt: %w", err)
	}

	log.Ctx(ctx).Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return authenticated, token, nil
}

// Login checks the credentials against the hosted service first and the
// local store second. Every failure is ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	if s.remote.SignIn(ctx, email, password) == nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := s.checkLocal(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate jwt: %w", err)
	}
	return user, token, nil
}

// RequestPasswordReset asks the hosted service to email a reset link.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if !s.remote.ResetPasswordEmail(ctx, email) {
		return domain.ErrRemoteUnavailable
	}
	return nil
}

// ChangePasswordInput is the submitted password change form.
type ChangePasswordInput struct {
	Current string `form:"old_password" validate:"required"`
	New     string `form:"new_password1" validate:"required,min=6"`
	Confirm string `form:"new_password2" validate:"required,eqfield=New"`
}

// ChangePassword verifies the current password locally and remotely, then
// updates the remote identity and the local hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, in ChangePasswordInput) error {
	if err := check(&in); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Current)); err != nil {
		return domain.ErrInvalidCredentials
	}

	identity := s.remote.SignIn(ctx, user.Email, in.Current)
	if identity == nil {
		return domain.ErrInvalidCredentials
	}
	if !s.remote.UpdatePassword(ctx, identity.AccessToken, in.New) {
		return domain.ErrRemoteUnavailable
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.New), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ValidateToken parses and validates a JWT token string.
// Returns the user ID from the sub claim.
func (s *AuthService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	return userID, nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// checkLocal is the local half of authentication: the user exists, is
// active, and the password matches the stored hash.
func (s *AuthService) checkLocal(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
