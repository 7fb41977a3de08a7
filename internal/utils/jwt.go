package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opsbase/itvault/models"
)

// GenerateSessionToken creates a signed HMAC-SHA256 JWT carrying the opaque
// session ID as the "sub" claim. The token is a session handle only: all
// session state, including the unlocked vault key, lives server-side and is
// looked up by this ID on every request.
//
// All parameters are required; the function returns an error if any of them
// are empty or zero.
func GenerateSessionToken(issuer, sessionID string, lifetime time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || sessionID == "" || lifetime == 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating session token")
	}

	now := time.Now()
	expiresAt := now.Add(lifetime)
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   sessionID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing session token: %w", err)
	}

	return models.Token{
		SignedString: tokenString,
		SessionID:    sessionID,
		ExpiresAt:    expiresAt,
	}, nil
}

// ValidateAndParseSessionToken verifies the signature, issuer and expiry of a
// raw session token and extracts the session ID from the "sub" claim.
func ValidateAndParseSessionToken(tokenString, signKey, issuer string) (models.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(signKey), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	sessionID, err := token.Claims.GetSubject()
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if sessionID == "" {
		return models.Token{}, errors.New("empty subject error")
	}

	expiresAt, err := token.Claims.GetExpirationTime()
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during getting expiry from token: %w", err)
	}

	return models.Token{
		SignedString: tokenString,
		SessionID:    sessionID,
		ExpiresAt:    expiresAt.Time,
	}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
