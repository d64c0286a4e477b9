package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims holds the claims of an access token the widget cares about.
type TokenClaims struct {
	// Subject is the owner identifier ("sub").
	Subject string
	// ExpiresAt is the "exp" claim; zero when absent.
	ExpiresAt time.Time
}

// Expired reports whether the token has an expiry at or before now.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseTokenClaims extracts the subject and expiry from tokenString without
// verifying its signature. The backend verifies the token; the widget only
// needs the owner for the query filter and the expiry to skip hopeless
// requests.
func ParseTokenClaims(tokenString string) (TokenClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return TokenClaims{}, errors.New("empty token")
	}

	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return TokenClaims{}, fmt.Errorf("error parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return TokenClaims{}, fmt.Errorf("error getting subject from token: %w", err)
	}
	if sub == "" {
		return TokenClaims{}, errors.New("empty subject error")
	}

	result := TokenClaims{Subject: sub}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return TokenClaims{}, fmt.Errorf("error getting expiry from token: %w", err)
	}
	if exp != nil {
		result.ExpiresAt = exp.Time
	}

	return result, nil
}
