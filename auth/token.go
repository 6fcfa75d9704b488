package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/notefeed-go/apperror"
)

// Claims defines the payload of issued identity tokens. Embedding
// jwt.RegisteredClaims brings the standard `exp`/`iat` handling.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// IssueToken serializes the user's identity plus an issuance timestamp,
// signs it with the process-wide secret (HS256), and returns the opaque
// token string. Every issued token carries a bounded lifetime.
func IssueToken(userID int64, secret []byte, lifetime time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken checks the signature and structural validity of a token and
// returns the embedded Identity. Any tampering, malformed input, signature
// mismatch, or expiry yields an InvalidSession error. Verification never
// consults persistence: the claim is trusted as issued.
func VerifyToken(tokenString string, secret []byte) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Accept only HMAC; a token re-signed with "none" or an asymmetric
		// algorithm must not verify.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, apperror.NewInvalidSessionError("Session invalid", err)
	}
	if !token.Valid {
		return nil, apperror.NewInvalidSessionError("Session invalid", nil)
	}
	if claims.UserID == 0 {
		return nil, apperror.NewInvalidSessionError("Session invalid", nil)
	}

	return &Identity{UserID: claims.UserID}, nil
}
