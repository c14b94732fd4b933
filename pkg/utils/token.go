package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func accessSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "insurewise-dev-secret"
	}
	return []byte(secret)
}

func refreshSecret() []byte {
	secret := os.Getenv("JWT_REFRESH_SECRET")
	if secret == "" {
		secret = "insurewise-dev-refresh"
	}
	return []byte(secret)
}

// GenerateAccessToken signs a short-lived token carrying the user identity
// and role.
func GenerateAccessToken(userID uint64, role string) (string, error) {
	hours := 24
	if v := os.Getenv("JWT_EXPIRY_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			hours = n
		}
	}

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Duration(hours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(accessSecret())
}

// GenerateRefreshToken signs a long-lived token used only to mint new access
// tokens. It carries no role so a stale role can't be replayed.
func GenerateRefreshToken(userID uint64) (string, error) {
	days := 7
	if v := os.Getenv("JWT_REFRESH_EXPIRY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}

	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Duration(days) * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(refreshSecret())
}

// ValidateAccessToken verifies signature and algorithm of an access token.
func ValidateAccessToken(encodedToken string) (*jwt.Token, error) {
	return parseWithSecret(encodedToken, accessSecret())
}

// ValidateRefreshToken verifies a refresh token.
func ValidateRefreshToken(encodedToken string) (*jwt.Token, error) {
	return parseWithSecret(encodedToken, refreshSecret())
}

func parseWithSecret(encodedToken string, secret []byte) (*jwt.Token, error) {
	return jwt.Parse(encodedToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
}
