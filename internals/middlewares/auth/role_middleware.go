package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles mengizinkan request bila salah satu role staff cocok (case-insensitive).
// Tanpa allowedRoles → semua staff yang lolos AuthJWT diizinkan.
func RequireRoles(customForbiddenMessage string, allowedRoles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	if customForbiddenMessage == "" {
		customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
	}

	return func(c *fiber.Ctx) error {
		if len(allowed) == 0 {
			return c.Next()
		}
		for _, r := range Roles(c) {
			if _, ok := allowed[strings.ToLower(r)]; ok {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, customForbiddenMessage)
	}
}
