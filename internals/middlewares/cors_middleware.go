// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsMiddleware membuat middleware CORS untuk portal admin fee
func CorsMiddleware(origins []string) fiber.Handler {
	joined := strings.Join(origins, ", ")
	// wildcard tidak boleh dipakai bersama credentials
	withCredentials := joined != "" && !strings.Contains(joined, "*")
	if joined == "" {
		joined = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:     joined,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "X-Request-ID, Content-Disposition",
		AllowCredentials: withCredentials,
	})
}
