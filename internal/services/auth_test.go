package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jobzee/jobzee/auth"
	"github.com/jobzee/jobzee/internal/cache"
	"github.com/jobzee/jobzee/internal/config"
	"github.com/jobzee/jobzee/internal/events"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(f *fixture, pub events.Publisher) *AuthService {
	issuer := auth.NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthService(f.users, issuer, cache.NewTokenStore(f.cache), pub, config.AuthConfig{
		BcryptCost:    bcrypt.MinCost,
		ResetTokenTTL: time.Hour,
	})
}

func register(t *testing.T, svc *AuthService, email string, role models.Role) *models.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: email, Password: "s3cret-pass", FirstName: "Ada", LastName: "Lovelace", Role: role,
	})
	require.NoError(t, err)
	return resp
}

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, f.events)

	resp := register(t, svc, " Ada@Example.com ", "")
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, models.RoleCandidate, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.EqualValues(t, 15*60, resp.ExpiresIn)
	assert.NotEqual(t, "s3cret-pass", resp.User.Password)
	assert.Equal(t, []string{events.UserRegistered}, f.events.Types())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: "ADA@example.com", Password: "another-pass", FirstName: "A", LastName: "L",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(context.Background(), models.RegisterRequest{
		Email: "root@example.com", Password: "short", FirstName: "R", LastName: "T", Role: models.RoleAdmin,
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	assert.Equal(t, "invalid_choice", verr.Violations["role"])
	assert.Equal(t, "too_short", verr.Violations["password"])
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, e events.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

func TestAuthService_RegisterSurvivesPublishFailure(t *testing.T) {
	f := newFixture(t)
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.UserRegistered && e.AggregateID != ""
	})).Return(errors.New("broker down")).Once()

	resp := register(t, newAuthService(f, pub), "hr@example.com", models.RoleHR)
	assert.Equal(t, models.RoleHR, resp.User.Role)
	pub.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, f.events)
	reg := register(t, svc, "ada@example.com", models.RoleCandidate)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ada@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ADA@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	stored, err := f.users.GetByID(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
	assert.Equal(t, reg.User.ID, resp.User.ID)

	stored.IsActive = false
	require.NoError(t, f.users.Update(context.Background(), stored))
	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "ada@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
	_, err = svc.VerifyAccessToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthService_TokensAndLogout(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, f.events)
	reg := register(t, svc, "ada@example.com", models.RoleCandidate)
	ctx := context.Background()

	claims, err := svc.VerifyAccessToken(ctx, reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)

	_, err = svc.VerifyAccessToken(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh tokens are not accepted for API calls")
	_, err = svc.RefreshToken(ctx, reg.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens cannot refresh")

	rotated, err := svc.RefreshToken(ctx, reg.RefreshToken)
	require.NoError(t, err)
	_, err = svc.RefreshToken(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "a refresh token is single use")

	claims, err = svc.VerifyAccessToken(ctx, rotated.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, claims, rotated.RefreshToken))

	_, err = svc.VerifyAccessToken(ctx, rotated.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.ValidateToken(ctx, rotated.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.RefreshToken(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_PasswordReset(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, f.events)
	svc.newToken = func() (string, error) { return "reset-token", nil }
	register(t, svc, "ada@example.com", models.RoleCandidate)
	ctx := context.Background()

	require.NoError(t, svc.ForgotPassword(ctx, "unknown@example.com"))
	assert.Equal(t, 0, f.cache.Len(), "unknown emails must not create tokens")

	require.NoError(t, svc.ForgotPassword(ctx, "ADA@example.com"))
	err := svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: "reset-token", NewPassword: "brand-new-pass"})
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: "reset-token", NewPassword: "another-pass"})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestAuthService_ChangePasswordAndProfile(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, f.events)
	reg := register(t, svc, "ada@example.com", models.RoleCandidate)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, reg.User.ID, models.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "brand-new-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.NoError(t, svc.ChangePassword(ctx, reg.User.ID, models.ChangePasswordRequest{CurrentPassword: "s3cret-pass", NewPassword: "brand-new-pass"}))

	updated, err := svc.UpdateProfile(ctx, reg.User.ID, models.UpdateProfileRequest{
		FirstName: ptr("Augusta"),
		Bio:       ptr("Analyst"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "Lovelace", updated.LastName)

	_, err = svc.UpdateProfile(ctx, reg.User.ID, models.UpdateProfileRequest{LastName: ptr(" ")})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	profile, err := svc.GetProfile(ctx, reg.User.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.Bio)
	assert.Equal(t, "Analyst", *profile.Bio)
}
