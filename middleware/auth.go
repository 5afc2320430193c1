package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"clinic-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// tokenFromRequest reads the access token from the Authorization header or,
// failing that, from the HTTP-only access_token cookie.
func tokenFromRequest(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Cookies("access_token")
}

// VerifyToken validates an HMAC-signed token and returns its claims.
func VerifyToken(tokenString string) (jwt.MapClaims, error) {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid JWT token")
	}
	if typ, _ := claims["type"].(string); typ != "" && typ != "access" {
		return nil, fmt.Errorf("token is not an access token")
	}
	return claims, nil
}

// IsAuthenticated rejects requests without a valid access token and stores
// the claims in c.Locals("user") for the controllers.
func IsAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			return c.Status(http.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Missing authentication token",
				Status:  http.StatusUnauthorized,
			})
		}

		claims, err := VerifyToken(tokenString)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Invalid or expired token",
				Status:  http.StatusUnauthorized,
			})
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

// RequireRoles allows only the given role IDs. Use after IsAuthenticated.
func RequireRoles(roles ...uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("user").(jwt.MapClaims)
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Missing authentication token",
				Status:  http.StatusUnauthorized,
			})
		}

		rolID := ClaimUint(claims, "rol_id")
		for _, role := range roles {
			if rolID == role {
				return c.Next()
			}
		}

		return c.Status(http.StatusForbidden).JSON(types.ApiResponse{
			Message: "No tiene permisos para esta operación",
			Status:  http.StatusForbidden,
		})
	}
}

// ClaimUint reads a numeric claim; JSON numbers decode as float64.
func ClaimUint(claims jwt.MapClaims, key string) uint {
	if v, ok := claims[key].(float64); ok {
		return uint(v)
	}
	return 0
}

// CurrentUserID returns the authenticated user's ID, or 0 when anonymous.
func CurrentUserID(c *fiber.Ctx) uint {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return 0
	}
	return ClaimUint(claims, "user_id")
}

// CurrentUserRole returns the authenticated user's role ID.
func CurrentUserRole(c *fiber.Ctx) uint {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return 0
	}
	return ClaimUint(claims, "rol_id")
}
