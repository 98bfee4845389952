package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ferremas/config"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  string        // Secret key for signing access tokens.
	refreshSecret string        // Secret key for signing refresh tokens.
	accessTTL     time.Duration // Time-to-live for access tokens.
	refreshTTL    time.Duration // Time-to-live for refresh tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}
	return &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		accessTTL:     time.Minute * 15,
		refreshTTL:    time.Hour * 24 * 7,
	}, nil
}

// GenerateTokens creates a new access token and refresh token for a given user and roles.
func (s *jwtService) GenerateTokens(userID uint, roles []string) (accessToken string, refreshToken string, err error) {
	accessToken, err = s.generateToken(userID, roles, s.accessTTL, s.accessSecret, service.TokenTypeAccess)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = s.generateToken(userID, nil, s.refreshTTL, s.refreshSecret, service.TokenTypeRefresh)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateToken verifies the signature with the secret matching the token's type claim.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	unverified := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, unverified); err != nil {
		return nil, errors.Wrap(err, "failed to parse token structure")
	}

	tokenType, _ := unverified["type"].(string)
	var secret string
	switch tokenType {
	case service.TokenTypeAccess:
		secret = s.accessSecret
	case service.TokenTypeRefresh:
		secret = s.refreshSecret
	default:
		return nil, errors.Errorf("unknown token type: %q", tokenType)
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject claim")
	}

	result := &service.Claims{
		UserID: uint(userID),
		Type:   tokenType,
	}
	if rawRoles, ok := claims["roles"].([]any); ok {
		result.Roles = make([]string, 0, len(rawRoles))
		for _, r := range rawRoles {
			if role, ok := r.(string); ok {
				result.Roles = append(result.Roles, role)
			}
		}
	}

	return result, nil
}

// HashToken returns the hex SHA-256 of token.
func (s *jwtService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// GetRefreshTokenDuration returns the configured duration for refresh tokens.
func (s *jwtService) GetRefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(userID uint, roles []string, ttl time.Duration, secret, tokenType string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10), // Subject (who the token is for)
		"iat":  now.Unix(),                              // Issued At
		"exp":  now.Add(ttl).Unix(),                     // Expiration Time
		"jti":  uuid.NewString(),
		"type": tokenType, // Type of token (access or refresh)
	}
	// Only add roles to the access token for stateless authorization.
	if roles != nil {
		claims["roles"] = roles
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
