package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultIssuer is used when NewJWTService gets an empty issuer.
const DefaultIssuer = "activemail"

// TokenService issues and checks API tokens.
type TokenService interface {
	GenerateAccessToken(subject string, scopes []string) (string, error)
	ValidateAccessToken(token string) (*Claims, error)
}

// Claims is the payload of an API token.
type Claims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies HS256 tokens.
type JWTService struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
}

// NewJWTService creates a token service. A zero ttl means one hour.
func NewJWTService(secretKey string, ttl time.Duration, issuer string) *JWTService {
	if ttl == 0 {
		ttl = time.Hour
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &JWTService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		issuer:    issuer,
	}
}

// GenerateAccessToken signs a token for subject granting scopes.
func (j *JWTService) GenerateAccessToken(subject string, scopes []string) (string, error) {
	now := time.Now()
	if scopes == nil {
		scopes = []string{}
	}

	claims := Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", authErrors.NewWithCause(ErrTokenGeneration, err)
	}
	return signed, nil
}

// ValidateAccessToken verifies the signature, issuer and expiry of token.
func (j *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, authErrors.New(ErrInvalidToken).WithDetail("error", err.Error())
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, authErrors.New(ErrInvalidToken).WithDetail("error", "invalid claims")
	}
	return claims, nil
}
