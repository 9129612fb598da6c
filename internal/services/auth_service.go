package services

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/dto"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService checks the single configured admin account.
type AuthService struct {
	cfg *config.Config
	now func() time.Time
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg, now: time.Now}
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if !s.checkCredentials(req.Username, req.Password) {
		slog.Warn("admin login rejected", "action", "login")
		return nil, ErrInvalidCredentials
	}

	resp := &dto.LoginResponse{
		Success: true,
		Message: "Login successful",
		User:    dto.AdminUser{Username: s.cfg.AdminUsername},
	}
	if s.cfg.JWTSecret == "" {
		return resp, nil
	}

	expiresAt := s.now().Add(s.cfg.JWTExpiry)
	token, err := s.signToken(expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to sign admin token: %w", err)
	}
	resp.Token = token
	resp.ExpiresAt = expiresAt.Unix()
	return resp, nil
}

// checkCredentials accepts either a bcrypt hash or a plain value in ADMIN_PASSWORD.
func (s *AuthService) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1

	var passOK bool
	if strings.HasPrefix(s.cfg.AdminPassword, "$2") {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPassword), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	}
	return userOK && passOK
}

func (s *AuthService) signToken(expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  s.cfg.AdminUsername,
		"role": "admin",
		"iat":  s.now().Unix(),
		"exp":  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
