// file: internals/route/details/auth_routes.go
package details

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	helper "feeportal_backend/internals/helpers"
	"feeportal_backend/internals/middlewares/auth"
)

// TokenRevoker menyimpan token ke blacklist sampai expiresAt.
type TokenRevoker func(ctx context.Context, rawToken string, expiresAt time.Time) error

// token tanpa exp tetap diblok selama ini
const revokeFallbackTTL = 24 * time.Hour

// AuthAdminRoutes: logout staff (cabut access token yang sedang dipakai).
func AuthAdminRoutes(r fiber.Router, revoke TokenRevoker, logger *zap.Logger) {
	r.Post("/auth/logout", logoutHandler(revoke, logger))
}

func logoutHandler(revoke TokenRevoker, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if revoke == nil {
			return helper.JsonError(c, fiber.StatusNotImplemented, "Token revocation is not configured")
		}
		exp, ok := auth.ExpiresAt(c)
		if !ok {
			exp = time.Now().Add(revokeFallbackTTL)
		}
		if err := revoke(c.UserContext(), auth.RawToken(c), exp); err != nil {
			logger.Error("logout: revoke token gagal",
				zap.String("staff_id", auth.StaffID(c)),
				zap.Error(err),
			)
			return helper.JsonError(c, fiber.StatusInternalServerError, "")
		}
		c.ClearCookie("access_token")
		logger.Info("staff logout", zap.String("staff_id", auth.StaffID(c)))
		return helper.JsonOK(c, "Logged out", nil)
	}
}
