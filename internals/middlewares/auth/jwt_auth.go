// internals/middlewares/auth/jwt_auth.go
package auth

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Locals keys
const (
	LocClaims  = "jwt_claims"
	LocStaffID = "staff_id"
	LocRoles   = "staff_roles"
	LocToken   = "jwt_raw"
)

type AuthJWTOpts struct {
	Secret              string
	BlacklistChecker    func(rawToken string) (bool, error) // return true if blacklisted
	AllowCookieFallback bool                                // pakai cookie access_token jika tidak ada Bearer
}

// AuthJWT verifies an HMAC-signed staff token issued by the auth service and
// hydrates staff id + roles into locals.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil token: Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Cek blacklist (opsional)
		if o.BlacklistChecker != nil {
			if black, err := o.BlacklistChecker(raw); err == nil && black {
				return fiber.NewError(fiber.StatusUnauthorized, "Token revoked")
			}
		}

		// 3) Parse + verifikasi algoritma
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}
		c.Locals(LocClaims, claims)
		c.Locals(LocToken, raw)

		// staff id: id/sub/user_id dalam urutan preferensi
		for _, key := range []string{"id", "sub", "user_id"} {
			if v := strClaim(claims, key); v != "" {
				c.Locals(LocStaffID, v)
				break
			}
		}

		roles := readStringSlice(claims["roles"])
		if r := strClaim(claims, "role"); r != "" {
			roles = append(roles, r)
		}
		c.Locals(LocRoles, roles)

		return c.Next()
	}
}

// StaffID returns the authenticated staff id, or "" when the route is public.
func StaffID(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocStaffID).(string); ok {
		return v
	}
	return ""
}

// RawToken returns the bearer/cookie token that authenticated the request.
func RawToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocToken).(string); ok {
		return v
	}
	return ""
}

// ExpiresAt reads the "exp" claim of the authenticated token.
func ExpiresAt(c *fiber.Ctx) (time.Time, bool) {
	claims, ok := c.Locals(LocClaims).(jwt.MapClaims)
	if !ok {
		return time.Time{}, false
	}
	var sec int64
	switch v := claims["exp"].(type) {
	case float64:
		sec = int64(v)
	case int64:
		sec = v
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		sec = n
	default:
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}

func Roles(c *fiber.Ctx) []string {
	if v, ok := c.Locals(LocRoles).([]string); ok {
		return v
	}
	return nil
}

// util kecil untuk ambil string claim
func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// util: ubah nilai interface{} → []string (robust untuk []string atau []any)
func readStringSlice(v any) []string {
	out := make([]string, 0)
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
