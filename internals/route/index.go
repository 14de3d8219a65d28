// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"feeportal_backend/internals/constants"
	feeController "feeportal_backend/internals/features/finance/fees/controller"
	"feeportal_backend/internals/middlewares/auth"
	routeDetails "feeportal_backend/internals/route/details"
)

var startTime time.Time

type Deps struct {
	FeeController *feeController.FeeController
	JWTSecret     string
	Logger        *zap.Logger
	// opsional; nil = tanpa cek blacklist
	BlacklistChecker func(rawToken string) (bool, error)
	// opsional; nil = POST /auth/logout balas 501
	TokenRevoker routeDetails.TokenRevoker

	// health check
	Ping        func() error
	StoreKind   string
	Environment string
}

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime = time.Now()
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	log.Info("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, deps)

	// ===================== ADMIN (staff fee desk) =====================
	log.Info("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		auth.AuthJWT(auth.AuthJWTOpts{
			Secret:              deps.JWTSecret,
			BlacklistChecker:    deps.BlacklistChecker,
			AllowCookieFallback: true,
		}),
		auth.RequireRoles(constants.RoleErrorFeeDesk("fee desk"), constants.FeeDeskRoles...),
	)

	// ===================== MOUNT ROUTES =====================
	log.Info("[INFO] Mounting Auth routes...")
	routeDetails.AuthAdminRoutes(admin, deps.TokenRevoker, log)

	log.Info("[INFO] Mounting Finance routes...")
	routeDetails.FinanceAdminRoutes(admin, deps.FeeController)
}
