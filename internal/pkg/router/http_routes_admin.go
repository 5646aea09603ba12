package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Bysiu/designstron-sub001/app/controllers"
	"github.com/Bysiu/designstron-sub001/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/api", middleware.RequireAPISessionAuth, middleware.RequireAPIAdmin)
	adminGroup.Get("/orders", controllers.HandleAdminOrderList)
	adminGroup.Post("/orders/:id/start", controllers.HandleAdminOrderStart)
	adminGroup.Post("/orders/:id/complete", controllers.HandleAdminOrderComplete)
	adminGroup.Post("/orders/:id/cancel", controllers.HandleAdminOrderCancel)
	adminGroup.Post("/orders/:id/messages", controllers.HandleAdminOrderMessage)
}
