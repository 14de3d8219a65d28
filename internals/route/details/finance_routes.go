// file: internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	feeController "feeportal_backend/internals/features/finance/fees/controller"
	feeRoute "feeportal_backend/internals/features/finance/fees/route"
)

func FinanceAdminRoutes(r fiber.Router, feeCtl *feeController.FeeController) {
	feeRoute.FeeAdminRoutes(r, feeCtl)
}
