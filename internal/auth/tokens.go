package auth

import (
	"encoding/hex"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/errors"
)

const (
	tokenIssuer   = "parabens-server"
	tokenAudience = "parabens-client"
)

// AccessClaims carries the identity encoded in an access token.
type AccessClaims struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// TokenService issues and verifies PASETO v4.local access tokens.
type TokenService struct {
	key      paseto.V4SymmetricKey
	duration time.Duration
}

// NewTokenService creates a token service from a 32-byte hex-encoded key.
func NewTokenService(hexKey string, duration time.Duration) (*TokenService, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode token key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &TokenService{key: key, duration: duration}, nil
}

// GenerateAccessToken creates a signed access token for the user.
func (s *TokenService) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.duration))
	token.SetSubject(user.ID)
	token.SetString("user_id", user.ID)
	token.SetString("username", user.Username)
	token.SetString("role", string(user.Role))

	return token.V4Encrypt(s.key, nil), nil
}

// VerifyAccessToken validates a token and returns its claims.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, errors.Unauthorized("invalid or expired token")
	}

	claims := &AccessClaims{}

	if claims.UserID, err = token.GetString("user_id"); err != nil {
		return nil, errors.Unauthorized("token missing user_id claim")
	}
	if claims.Username, err = token.GetString("username"); err != nil {
		return nil, errors.Unauthorized("token missing username claim")
	}
	role, err := token.GetString("role")
	if err != nil {
		return nil, errors.Unauthorized("token missing role claim")
	}
	claims.Role = domain.Role(role)

	return claims, nil
}
