package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"feeportal_backend/internals/middlewares/logger"
)

type Options struct {
	Logger         *zap.Logger
	CORSOrigins    []string
	RateLimit      int
	RequestTimeout time.Duration
	TimeZone       string
}

// SetupMiddlewares memasang middleware global (urutan penting: request id dulu
// supaya recovery & access log bisa membaca requestid).
func SetupMiddlewares(app *fiber.App, o Options) {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	app.Use(RequestID(o.Logger, o.RequestTimeout))
	app.Use(RecoveryMiddleware(o.Logger))
	app.Use(logger.LoggerMiddleware(o.TimeZone))
	app.Use(CorsMiddleware(o.CORSOrigins))
	app.Use(GlobalRateLimiter(o.RateLimit))
}
