// Package auth implements the credential primitives of the portal boundary:
// stateless signed session tokens and salted password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lmwansa/studentportal/internal/common"
)

// IssueToken produces a compact signed token (HS256) carrying the subject id
// and a fixed expiry. Tokens are not persisted; validity is determined
// entirely by signature and expiry at verification time.
func IssueToken(subjectID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
	})

	return token.SignedString(secretKey)
}

// SubjectFromToken verifies the token and returns its subject id.
// Failures map to exactly one of common.ErrTokenExpired,
// common.ErrTokenSignatureInvalid or common.ErrTokenMalformed.
func SubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", common.ErrTokenSignatureInvalid
		default:
			return "", common.ErrTokenMalformed
		}
	}

	if !token.Valid {
		return "", common.ErrTokenMalformed
	}

	return claims.Subject, nil
}
