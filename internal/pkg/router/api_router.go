package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/Bysiu/designstron-sub001/app/controllers"
	"github.com/Bysiu/designstron-sub001/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Designstron API",
		})
	})

	v1 := api.Group("/v1")

	// Pricing (public)
	v1.Get("/pricing", controllers.HandlePricingCatalog)
	v1.Post("/pricing/quote", controllers.HandlePricingQuote)
	v1.Post("/hosting/quote", controllers.HandleHostingQuote)

	// Checkout
	v1.Post("/checkout", middleware.RequireAPISessionAuth, controllers.HandleCheckoutStart)
	v1.Get("/payments/verify", middleware.RequireAPISessionAuth, controllers.HandleCheckoutSuccess)

	// Orders
	v1.Get("/orders", middleware.RequireAPISessionAuth, controllers.HandleOrderList)
	v1.Get("/orders/:id", middleware.RequireAPISessionAuth, controllers.HandleOrderDetail)
	v1.Get("/orders/:id/messages", middleware.RequireAPISessionAuth, controllers.HandleOrderMessages)
	v1.Post("/orders/:id/messages", middleware.RequireAPISessionAuth, controllers.HandleOrderMessageCreate)

	// Hosting
	v1.Post("/hosting", middleware.RequireAPISessionAuth, controllers.HandleHostingRequest)
	v1.Post("/hosting/:id/extend", middleware.RequireAPISessionAuth, controllers.HandleHostingExtend)
	v1.Post("/hosting/:id/change-plan", middleware.RequireAPISessionAuth, controllers.HandleHostingChangePlan)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
