package utils

import (
	"fmt"
	"os"
	"time"

	userModel "clinic-booking/models/user"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 8 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

func signToken(claims jwt.MapClaims) (string, error) {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET_KEY is not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateAccessToken signs an 8-hour access token carrying the identity
// claims the controllers read from c.Locals.
func GenerateAccessToken(u *userModel.User) (string, error) {
	nowTime := time.Now()
	return signToken(jwt.MapClaims{
		"type":    "access",
		"user_id": u.ID,
		"uuid":    u.UUID,
		"dni":     u.DNI(),
		"nombre":  u.FullName(),
		"rol_id":  u.RolID,
		"iat":     nowTime.Unix(),
		"exp":     nowTime.Add(AccessTokenTTL).Unix(),
	})
}

// GenerateRefreshToken signs a 7-day refresh token carrying only the user ID.
func GenerateRefreshToken(u *userModel.User) (string, error) {
	nowTime := time.Now()
	return signToken(jwt.MapClaims{
		"type":    "refresh",
		"user_id": u.ID,
		"iat":     nowTime.Unix(),
		"exp":     nowTime.Add(RefreshTokenTTL).Unix(),
	})
}

// VerifyRefreshToken validates a refresh token and returns the user ID.
func VerifyRefreshToken(tokenString string) (uint, error) {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return 0, fmt.Errorf("JWT_SECRET_KEY is not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to parse JWT: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid refresh token")
	}
	if typ, _ := claims["type"].(string); typ != "refresh" {
		return 0, fmt.Errorf("token is not a refresh token")
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("refresh token has no user_id")
	}
	return uint(id), nil
}
