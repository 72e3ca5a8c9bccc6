package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jobzee/jobzee/auth"
	"github.com/jobzee/jobzee/internal/cache"
	"github.com/jobzee/jobzee/internal/config"
	"github.com/jobzee/jobzee/internal/events"
	"github.com/jobzee/jobzee/internal/log"
	"github.com/jobzee/jobzee/internal/metrics"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/validation"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// selfServiceRoles are the roles an account may pick at sign-up.
var selfServiceRoles = []string{string(models.RoleCandidate), string(models.RoleHR)}

// AuthService handles sign-up, sessions and password management.
type AuthService struct {
	users      repository.UserStore
	issuer     *auth.TokenIssuer
	tokens     *cache.TokenStore
	events     events.Publisher
	bcryptCost int
	resetTTL   time.Duration
	newToken   func() (string, error)
	now        func() time.Time
}

func NewAuthService(users repository.UserStore, issuer *auth.TokenIssuer, tokens *cache.TokenStore, pub events.Publisher, cfg config.AuthConfig) *AuthService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	resetTTL := cfg.ResetTokenTTL
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AuthService{
		users:      users,
		issuer:     issuer,
		tokens:     tokens,
		events:     pub,
		bcryptCost: cost,
		resetTTL:   resetTTL,
		newToken:   randomToken,
		now:        time.Now,
	}
}

var _ auth.Verifier = (*AuthService)(nil)

// Register creates a candidate or HR account and signs it in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if req.Role == "" {
		req.Role = models.RoleCandidate
	}
	v := validation.Violations{}
	validation.Email("email", req.Email, v)
	validation.Required("password", req.Password, v)
	validation.MinLength("password", req.Password, minPasswordLength, v)
	validation.Required("first_name", req.FirstName, v)
	validation.Required("last_name", req.LastName, v)
	validation.OneOf("role", string(req.Role), selfServiceRoles, v)
	if err := invalid(v); err != nil {
		return nil, err
	}

	email := models.NormalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		IsActive:  true,
		Phone:     req.Phone,
		Location:  req.Location,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues(string(user.Role)).Inc()
	publish(ctx, s.events, events.UserRegistered, user.ID, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	})
	return s.session(user)
}

// Login checks the credentials and returns a fresh token pair.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, models.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("disabled").Inc()
		return nil, ErrAccountDisabled
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		log.FromContext(ctx).Warn().Err(err).Uint(log.FieldUserID, user.ID).Msg("update last login failed")
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return s.session(user)
}

// RefreshToken rotates a refresh token: the old one is revoked.
func (s *AuthService) RefreshToken(ctx context.Context, raw string) (*models.AuthResponse, error) {
	claims, err := s.issuer.Parse(raw, auth.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.activeUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return s.session(user)
}

// VerifyAccessToken implements auth.Verifier.
func (s *AuthService) VerifyAccessToken(ctx context.Context, raw string) (*auth.Claims, error) {
	claims, err := s.issuer.Parse(raw, auth.AccessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if _, err := s.activeUser(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateToken returns the account behind a valid, unrevoked access token.
func (s *AuthService) ValidateToken(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.issuer.Parse(raw, auth.AccessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.activeUser(ctx, claims)
}

func (s *AuthService) activeUser(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// Logout revokes the access token and, when given, the refresh token of the
// same user. Each stays revoked until it would have expired.
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, refreshRaw string) error {
	if err := s.revoke(ctx, access); err != nil {
		return err
	}
	if refreshRaw == "" {
		return nil
	}
	refresh, err := s.issuer.Parse(refreshRaw, auth.RefreshToken)
	if err != nil || refresh.UserID != access.UserID {
		return nil
	}
	return s.revoke(ctx, refresh)
}

func (s *AuthService) revoke(ctx context.Context, claims *auth.Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	if err := s.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(s.now())); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, req models.ChangePasswordRequest) error {
	v := validation.Violations{}
	validation.Required("current_password", req.CurrentPassword, v)
	validation.MinLength("new_password", req.NewPassword, minPasswordLength, v)
	if err := invalid(v); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		return ErrInvalidCredentials
	}
	return s.setPassword(ctx, user, req.NewPassword)
}

func (s *AuthService) setPassword(ctx context.Context, user *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hash)
	return s.users.Update(ctx, user)
}

func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetUserWithProfile(ctx, userID)
}

// UpdateProfile applies the non-nil fields of req.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	v := validation.Violations{}
	if req.FirstName != nil {
		validation.Required("first_name", *req.FirstName, v)
	}
	if req.LastName != nil {
		validation.Required("last_name", *req.LastName, v)
	}
	if err := invalid(v); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = req.ProfilePictureURL
	}
	if req.CompanyName != nil {
		user.CompanyName = req.CompanyName
	}
	if req.JobTitle != nil {
		user.JobTitle = req.JobTitle
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ForgotPassword stores a single-use reset token for the account. Unknown
// and disabled addresses succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}
	token, err := s.newToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.tokens.PutResetToken(ctx, token, user.ID, s.resetTTL); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	// No mail delivery yet: the token is only logged at debug level.
	log.FromContext(ctx).Debug().Uint(log.FieldUserID, user.ID).Str("reset_token", token).Msg("password reset requested")
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	v := validation.Violations{}
	validation.Required("token", req.Token, v)
	validation.MinLength("new_password", req.NewPassword, minPasswordLength, v)
	if err := invalid(v); err != nil {
		return err
	}
	userID, err := s.tokens.ConsumeResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return ErrInvalidToken
		}
		return err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return s.setPassword(ctx, user, req.NewPassword)
}

func (s *AuthService) session(user *models.User) (*models.AuthResponse, error) {
	subject := auth.Subject{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		CompanyID: user.TenantID(),
	}
	access, err := s.issuer.Issue(subject, auth.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.Issue(subject, auth.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		User:         user,
		AccessToken:  access.Value,
		RefreshToken: refresh.Value,
		ExpiresIn:    int64(s.issuer.AccessTTL().Seconds()),
	}, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
