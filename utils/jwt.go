package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "tableorder"

// StaffClaims is what the identity provider puts into staff tokens. Only the
// display name and role are consumed here.
type StaffClaims struct {
	StaffName string `json:"staff_name"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a staff token with HS256.
func GenerateToken(secret []byte, staffName, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &StaffClaims{
		StaffName: staffName,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a staff token.
func ValidateToken(secret []byte, tokenString string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role == "" {
		return nil, errors.New("token has no role")
	}
	return claims, nil
}
