package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lockbox/internal/common"
)

// Claims includes the registered claims plus the public identity of the
// subject, so the guard can attach a principal without a second lookup of
// the profile fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// GenerateToken mints a signed HS256 token embedding the subject's id,
// email and display name with the given validity window.
func GenerateToken(userID, email, name string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Email:  email,
		Name:   name,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies the signature and expiry of a token and returns its
// claims. Expired, tampered and malformed tokens all collapse into
// common.ErrInvalidToken so callers cannot tell the cases apart.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
