package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ExportToken carries the validated claims of a presigned export link
type ExportToken struct {
	City      string
	TokenID   string
	ExpiresAt time.Time
}

// URLSignerService issues and validates short-lived single-use tokens for
// CSV export links, so a search result can be shared without exposing the
// trigger secret
type URLSignerService struct {
	secretKey []byte
	cache     CacheInterface
}

// NewURLSignerService creates a new URL signer service
func NewURLSignerService(secretKey []byte, cache CacheInterface) *URLSignerService {
	return &URLSignerService{
		secretKey: secretKey,
		cache:     cache,
	}
}

// GenerateExportToken signs a token scoped to one city filter
func (s *URLSignerService) GenerateExportToken(city string, ttl time.Duration) (string, error) {
	tokenID := uuid.New().String()

	claims := jwt.MapClaims{
		"city": city,
		"jti":  tokenID,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates an export token and marks it used
func (s *URLSignerService) ValidateToken(tokenString string) (*ExportToken, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	city, _ := (*claims)["city"].(string)

	tokenID, ok := (*claims)["jti"].(string)
	if !ok {
		return nil, errors.New("missing or invalid jti claim")
	}

	expFloat, ok := (*claims)["exp"].(float64)
	if !ok {
		return nil, errors.New("missing or invalid exp claim")
	}
	expiresAt := time.Unix(int64(expFloat), 0)

	if time.Now().After(expiresAt) {
		return nil, errors.New("token expired")
	}

	usedKey := "export_token_used:" + tokenID
	if _, used := s.cache.Get(usedKey); used {
		return nil, errors.New("token already used")
	}
	s.cache.Set(usedKey, true, time.Until(expiresAt))

	return &ExportToken{
		City:      city,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}
