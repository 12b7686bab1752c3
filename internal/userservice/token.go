package userservice

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

const DefaultTokenTTL = time.Hour

// TokenMaker issues and verifies HS256 tokens whose subject is the user id.
type TokenMaker struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenMaker(secret string, ttl time.Duration) *TokenMaker {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenMaker{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenMaker) Create(userID string) (string, error) {
	now := t.now()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}

	return signed, nil
}

// Verify returns the user id carried by a valid token.
func (t *TokenMaker) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
