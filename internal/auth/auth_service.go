package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "go-paie/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", zap.Error(err))
		return AuthResponse{}, err
	}

	if !user.IsActive {
		return AuthResponse{}, autherrors.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.logger.Warn("login password mismatch", zap.String("email", req.Email))
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(user, 24*time.Hour)
	if err != nil {
		s.logger.Error("login token sign failed", zap.Error(err))
		return AuthResponse{}, err
	}

	resp := AuthResponse{
		AccessToken: token,
		UserID:      user.ID.String(),
		Role:        user.Role,
	}
	if user.EmployeeID != nil {
		v := user.EmployeeID.String()
		resp.EmployeeID = &v
	}
	s.logger.Info("login success", zap.String("user_id", resp.UserID), zap.String("role", user.Role))
	return resp, nil
}

func (s *service) generateToken(user *User, expiry time.Duration) (string, error) {
	employeeID := ""
	if user.EmployeeID != nil {
		employeeID = user.EmployeeID.String()
	}

	claims := jwt.MapClaims{
		"user_id":     user.ID.String(),
		"employee_id": employeeID,
		"role":        user.Role,
		"exp":         time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
