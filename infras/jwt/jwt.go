package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"resort/config"
	"resort/shared/timezone"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
)

// PrincipalKind distinguishes the admin and visitor identity tracks. The two
// tracks are never cross-readable: a visitor token is rejected on admin routes
// and vice versa.
type PrincipalKind string

const (
	KindAdmin   PrincipalKind = "admin"
	KindVisitor PrincipalKind = "visitor"
)

// Claims binds a principal id, email, role and kind to a time-bound session.
type Claims struct {
	PrincipalID string        `json:"principal_id"`
	Email       string        `json:"email"`
	Role        string        `json:"role,omitempty"`
	Kind        PrincipalKind `json:"kind"`
	TokenID     string        `json:"token_id"`
	jwt.RegisteredClaims
}

// Session is the issued credential together with its expiry metadata.
type Session struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
	TokenID   string `json:"-"`
}

// JWT handles session token operations
type JWT interface {
	Generate(principalID, email, role string, kind PrincipalKind) (*Session, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Service handles session token operations
type Service struct {
	config *config.Config
}

// New creates a new JWT service
func New(cfg *config.Config) JWT {
	return &Service{
		config: cfg,
	}
}

// Generate issues a signed session token with a fixed expiry (2 hours by default).
func (s *Service) Generate(principalID, email, role string, kind PrincipalKind) (*Session, error) {
	now := timezone.Now()
	expiresAt := now.Add(time.Duration(s.config.Session.ExpireMin) * time.Minute)
	tokenID := uuid.New().String()

	claims := Claims{
		PrincipalID: principalID,
		Email:       email,
		Role:        role,
		Kind:        kind,
		TokenID:     tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.App.Name,
			Subject:   principalID,
			ID:        tokenID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.config.Session.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{
		Token:     signedToken,
		TokenType: "Bearer",
		ExpiresIn: int64(s.config.Session.ExpireMin) * 60,
		TokenID:   tokenID,
	}, nil
}

// ValidateToken validates and parses a session token
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Session.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Kind != KindAdmin && claims.Kind != KindVisitor {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts a session token from an Authorization header
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is required")
	}

	const prefix = "Bearer "
	if len(authHeader) < len(prefix) || authHeader[:len(prefix)] != prefix {
		return "", errors.New("authorization header must start with 'Bearer '")
	}

	return authHeader[len(prefix):], nil
}
