package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Bysiu/designstron-sub001/app/controllers"
	"github.com/Bysiu/designstron-sub001/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Public price catalog
	app.Get("/pricing", controllers.HandlePricingCatalog)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)
	app.Get("/activate/:token", controllers.HandleActivate)

	// Social OAuth
	app.Get("/auth/:provider", controllers.HandleOAuthLogin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Checkout provider webhook (no CSRF, signature-verified in controller)
	app.Post("/webhooks/checkout", controllers.HandlePaymentWebhook)

	// Checkout browser landing pages
	app.Get("/checkout/success", middleware.RequireAuth, controllers.HandleCheckoutSuccess)
	app.Get("/checkout/cancel", controllers.HandleCheckoutCancel)
}
