package auth

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	autherrors "go-hrdesk/internal/auth/errors"
	"go-hrdesk/internal/employee"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	Refresh(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

type service struct {
	employees employee.Repository
	logger    *zap.Logger
}

func NewService(employees employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{employees: employees, logger: l}
}

// Login authenticates against the official email. Lookup failure and a bad
// password produce the same error so the endpoint does not leak which
// addresses exist.
func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	emp, err := s.employees.FindByOfficialEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if !emp.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountInactive
	}

	accessToken, err := s.generateToken(emp.ID.String(), emp.Role, accessTokenTTL)
	if err != nil {
		s.logger.Error("access token generation failed", zap.Error(err))
		return "", "", AuthResponse{}, err
	}
	refreshToken, err := s.generateToken(emp.ID.String(), emp.Role, refreshTokenTTL)
	if err != nil {
		s.logger.Error("refresh token generation failed", zap.Error(err))
		return "", "", AuthResponse{}, err
	}

	s.logger.Info("login success", zap.String("employee_id", emp.ID.String()))
	return accessToken, refreshToken, mapToAuthResponse(emp), nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		if err != nil && strings.Contains(err.Error(), "expired") {
			return "", "", AuthResponse{}, autherrors.ErrTokenExpired
		}
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	emp, err := s.employees.FindByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	if !emp.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountInactive
	}

	newAccess, err := s.generateToken(emp.ID.String(), emp.Role, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	newRefresh, err := s.generateToken(emp.ID.String(), emp.Role, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	return newAccess, newRefresh, mapToAuthResponse(emp), nil
}

func (s *service) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if _, err := uuid.Parse(userID); err != nil {
		return autherrors.ErrInvalidToken
	}

	emp, err := s.employees.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return autherrors.ErrInvalidCredentials
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return autherrors.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	emp.PasswordHash = string(hash)
	if err := s.employees.Update(ctx, emp); err != nil {
		s.logger.Error("change password persist failed", zap.Error(err))
		return err
	}

	s.logger.Info("password changed", zap.String("employee_id", userID))
	return nil
}

func (s *service) generateToken(userID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToAuthResponse(emp *employee.Employee) AuthResponse {
	resp := AuthResponse{
		ID:               emp.ID.String(),
		FullName:         emp.FullName,
		OfficialEmail:    emp.OfficialEmail,
		Role:             emp.Role,
		OnboardingStatus: emp.OnboardingStatus,
	}
	if emp.EmployeeID != nil {
		resp.EmployeeCode = *emp.EmployeeID
	}
	return resp
}
