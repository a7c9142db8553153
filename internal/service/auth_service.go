package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for hashing a configured plain-text password
	BcryptCost = 10

	// RoleAdmin is the only role a token can carry
	RoleAdmin = "admin"

	// DefaultTokenExpiration applies when no expiry is configured
	DefaultTokenExpiration = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService issues and verifies the admin bearer token
type AuthService interface {
	Login(ctx context.Context, username, password string) (*Token, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents the JWT claims. Subject holds the admin username.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Token is a signed access token handed to the admin UI
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AdminCredentials identifies the single admin account
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

type authService struct {
	admin       AdminCredentials
	jwtSecret   string
	tokenExpiry time.Duration
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(admin AdminCredentials, jwtSecret string, tokenExpiry time.Duration) AuthService {
	if tokenExpiry <= 0 {
		tokenExpiry = DefaultTokenExpiration
	}
	return &authService{
		admin:       admin,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

// HashPassword hashes a password using bcrypt with cost factor 10
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Login checks the admin credentials and returns a signed token
func (s *authService) Login(_ context.Context, username, password string) (*Token, error) {
	// Always run bcrypt so a wrong username costs the same as a wrong password
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password))
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1

	if !usernameOK || passwordErr != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// generateAccessToken generates a JWT access token with subject and role claims
func (s *authService) generateAccessToken(username string) (*Token, error) {
	now := time.Now()
	expirationTime := now.Add(s.tokenExpiry)
	claims := &Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &Token{
		AccessToken: tokenString,
		TokenType:   "bearer",
		ExpiresAt:   expirationTime.UTC(),
	}, nil
}
