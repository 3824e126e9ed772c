package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mgodoy/bookkeeper-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the single bookkeeper. Credentials live in
// configuration; there is no users table.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// LoginResult represents the result of a login attempt
type LoginResult struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login verifies the admin credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if s.cfg.AdminPasswordHash == "" {
		return nil, errors.New("admin password is not configured")
	}
	if email != s.cfg.AdminEmail {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	expiresAt := time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)
	token, err := s.generateJWT(email, expiresAt)
	if err != nil {
		return nil, errors.New("failed to sign token")
	}

	return &LoginResult{Token: token, Email: email, ExpiresAt: expiresAt}, nil
}

// generateJWT creates a new token for the admin session
func (s *AuthService) generateJWT(email string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// HashPassword hashes a password using bcrypt, for provisioning
// ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}
