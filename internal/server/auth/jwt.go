// Package auth mints and verifies the HS256 access tokens that carry the
// portal's current-user identity. The signup-time role choice rides along
// as a hint claim; it never overrides a provisioned profile role.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/saydemoon/internship-portal/internal/common"
	"github.com/saydemoon/internship-portal/internal/server/models"
)

// Claims extends the registered JWT claims with the user id and the
// optional signup-time role hint.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	RoleHint string `json:"role_hint,omitempty"`
}

// GenerateToken signs an access token for userID. roleHint may be empty.
func GenerateToken(userID string, roleHint models.Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID:   userID,
		RoleHint: string(roleHint),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// IdentityFromToken parses and verifies tokenString, returning the embedded
// identity. Expired tokens yield common.ErrTokenExpired; anything else
// invalid yields common.ErrInvalidToken.
func IdentityFromToken(tokenString string, secretKey []byte) (*models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return &models.Identity{UserID: claims.UserID, RoleHint: models.Role(claims.RoleHint)}, nil
}
