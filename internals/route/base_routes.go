package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func BaseRoutes(app *fiber.App, deps Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Fee portal backend is running 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		storeStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if deps.Ping != nil {
			if err := deps.Ping(); err != nil {
				storeStatus = "Store connection error"
				serverStatus = "DOWN"
				httpStatus = fiber.StatusServiceUnavailable
			}
		}

		uptime := time.Since(startTime).Seconds()

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"store":          storeStatus,
			"store_kind":     deps.StoreKind,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(uptime),
			"environment":    deps.Environment,
		})
	})
}
