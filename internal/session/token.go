// Package session issues and verifies the signed session assertions handed to
// clients after a successful signup or login, and manages the cookie that
// carries them. Assertions are stateless: there is no server-side revocation,
// validity is purely signature plus expiry.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued assertion stays valid.
const TokenTTL = time.Hour

var (
	ErrNoSecret     = errors.New("signing secret is not configured")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims embeds the registered claim set and the identity pair encoded into
// every session assertion.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session assertions with a shared HS256 secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an Issuer. An empty secret is a configuration error and is
// rejected here so the caller fails at startup rather than at request time.
func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Issuer{secret: []byte(secret), ttl: TokenTTL}, nil
}

// Issue signs a new assertion for the given user.
func (i *Issuer) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
	return token.SignedString(i.secret)
}

// Parse verifies a token string and returns its claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
