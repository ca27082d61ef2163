package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitquest/fitquest/config"
)

const sessionIssuer = "fitquest"

// ErrInvalidSession rejects tokens that parse but carry unusable claims.
var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims is the payload of a session JWT. UserID is the authoritative
// identity; Username rides along for request logging.
type SessionClaims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"name"`
	jwt.RegisteredClaims
}

// NewSessionToken issues a signed session JWT valid for ttl.
func NewSessionToken(userID uint, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Get().JWTSecret))
}

// ParseSessionToken validates a session JWT and returns its claims. Only
// HS256 tokens minted by this service, unexpired and carrying a user id,
// pass.
func ParseSessionToken(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(config.Get().JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
