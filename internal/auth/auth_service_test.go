package auth_test

import (
	"context"
	"testing"

	"go-paie/internal/auth"
	autherrors "go-paie/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeAuthRepository struct {
	findByEmailFn func(ctx context.Context, email string) (*auth.User, error)
}

func (f *fakeAuthRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) Create(ctx context.Context, u *auth.User) error { return nil }

func hashedPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	employeeID := uuid.New()
	user := &auth.User{
		ID:         uuid.New(),
		EmployeeID: &employeeID,
		Email:      "hr@example.tn",
		Password:   hashedPassword(t, "s3cret"),
		Role:       auth.RoleHR,
		IsActive:   true,
	}

	repo := &fakeAuthRepository{findByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
		assert.Equal(t, user.Email, email)
		return user, nil
	}}
	svc := auth.NewService(repo)

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: user.Email, Password: "s3cret"})

	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), resp.UserID)
	assert.Equal(t, auth.RoleHR, resp.Role)
	assert.NotNil(t, resp.EmployeeID)
	assert.Equal(t, employeeID.String(), *resp.EmployeeID)

	token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, employeeID.String(), claims["employee_id"])
	assert.Equal(t, auth.RoleHR, claims["role"])
}

func TestAuthService_Login_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{})
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.tn", Password: "x"})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := &fakeAuthRepository{findByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return &auth.User{
				ID:       uuid.New(),
				Email:    email,
				Password: hashedPassword(t, "right"),
				Role:     auth.RoleEmployee,
				IsActive: true,
			}, nil
		}}
		svc := auth.NewService(repo)

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "e@example.tn", Password: "wrong"})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		repo := &fakeAuthRepository{findByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return &auth.User{
				ID:       uuid.New(),
				Email:    email,
				Password: hashedPassword(t, "s3cret"),
				Role:     auth.RoleEmployee,
			}, nil
		}}
		svc := auth.NewService(repo)

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "e@example.tn", Password: "s3cret"})
		assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	})
}
