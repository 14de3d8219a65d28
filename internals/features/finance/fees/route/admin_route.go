// file: internals/features/finance/fees/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	feeController "feeportal_backend/internals/features/finance/fees/controller"
	"feeportal_backend/internals/middlewares"
)

// FeeAdminRoutes: meja kasir/akuntan (butuh token staff)
func FeeAdminRoutes(r fiber.Router, ctl *feeController.FeeController) {
	fees := r.Group("/fees")

	students := fees.Group("/students")
	{
		students.Get("/", ctl.ListStudents)
		students.Get("/:id/ledger", ctl.Ledger)
		students.Get("/:id/fee-types", ctl.FeeTypes)
		students.Get("/:id/payments", ctl.Payments)
		students.Post("/:id/payments/preview", ctl.Preview)
	}

	payments := fees.Group("/payments")
	{
		payments.Post("/", middlewares.PaymentWriteRateLimiter(), ctl.Create)
		payments.Get("/:id/receipt", ctl.Receipt)
		payments.Get("/:id/receipt.xlsx", ctl.ReceiptXLSX)
	}
}
