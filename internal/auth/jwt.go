package auth

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "crm-backend"

// defaultTokenTTLHours keeps a session alive for a week unless
// JWT_TTL_HOURS overrides it.
const defaultTokenTTLHours = 7 * 24

var errMissingSecret = errors.New("JWT_SECRET is not set")

func tokenSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errMissingSecret
	}
	return []byte(secret), nil
}

func tokenTTL() time.Duration {
	if raw := os.Getenv("JWT_TTL_HOURS"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return defaultTokenTTLHours * time.Hour
}

type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 session token carrying the user id as the
// subject.
func GenerateToken(userID string) (string, error) {
	secret, err := tokenSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL())),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies the signature, expiry and issuer, and returns the
// claims.
func ParseToken(tokenString string) (*Claims, error) {
	secret, err := tokenSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
