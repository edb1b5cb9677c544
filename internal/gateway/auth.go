package gateway

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// ErrForbidden rejects admin commands from callers that do not own the
// game.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthenticated rejects admin commands from anonymous connections.
var ErrUnauthenticated = errors.New("authentication required")

// Authenticator verifies host JWTs. Players connect anonymously; only
// admin commands require a token.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// UserID extracts the host user id from a bearer token. The subject
// claim carries the numeric id.
func (a *Authenticator) UserID(tokenString string) (int32, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, ErrUnauthenticated
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim: %w", err)
	}
	return int32(userID), nil
}
