package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Bysiu/designstron-sub001/internal/pkg/middleware"
	"github.com/Bysiu/designstron-sub001/internal/pkg/oauth"
	"github.com/Bysiu/designstron-sub001/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
