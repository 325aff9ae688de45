package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/exhibit-api/internal/models"
	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
)

// AuthConfig holds the verification settings for identity-service tokens.
type AuthConfig struct {
	AccessTokenSecret string
	Issuer            string
}

// AuthService resolves callers from access tokens minted by the identity service.
type AuthService struct {
	config AuthConfig
	logger *zap.Logger
}

// NewAuthService constructs the resolver.
func NewAuthService(config AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{config: config, logger: logger}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	claims.Role = models.UserRole(strings.ToUpper(string(claims.Role)))
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token does not identify a known caller")
	}

	return claims, nil
}

// IssueToken signs claims with the shared secret. The identity service owns issuance in production;
// this exists for local tooling and tests.
func (s *AuthService) IssueToken(claims models.JWTClaims, ttl time.Duration) (string, error) {
	issuedAt := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   claims.UserID,
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}
