package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtPkg "github.com/sefazor/crowdfund-backend/pkg/jwt"
)

func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authorization header is required",
			})
		}

		// Check if the header starts with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid authorization header format",
			})
		}

		// Extract the token
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		// Parse and validate the token
		claims, err := jwtPkg.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid token",
			})
		}

		// Güvenli bir şekilde userID ve email'i al
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid user ID in token",
			})
		}

		userEmail, ok := claims["email"].(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid email in token",
			})
		}

		role, _ := claims["role"].(string)

		c.Locals("userID", uint(userIDFloat))
		c.Locals("userEmail", userEmail)
		c.Locals("userRole", role)

		return c.Next()
	}
}

// OptionalAuthMiddleware token varsa locals'ı doldurur, yoksa isteği
// anonim olarak geçirir. Pledge submit akışı iki durumda da çalışır.
func OptionalAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Next()
		}

		claims, err := jwtPkg.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return c.Next()
		}

		if userIDFloat, ok := claims["user_id"].(float64); ok {
			c.Locals("userID", uint(userIDFloat))
		}
		if userEmail, ok := claims["email"].(string); ok {
			c.Locals("userEmail", userEmail)
		}
		if role, ok := claims["role"].(string); ok {
			c.Locals("userRole", role)
		}

		return c.Next()
	}
}

// RequireRole yönetim uçları için rol kontrolü. AuthMiddleware'den
// SONRA kullanılmalı.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, _ := c.Locals("userRole").(string)
		if userRole != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Insufficient privileges",
			})
		}
		return c.Next()
	}
}
