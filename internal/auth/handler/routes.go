package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, ah *AuthHandler, uh *UserHandler, guard fiber.Handler) {
	auth := app.Group("/api/v1/auth")
	auth.Post("/register", ah.Register)
	auth.Post("/login", ah.Login)
	auth.Get("/logout", ah.Logout)
	auth.Get("/refresh-tokens", ah.Refresh)
	auth.Get("/:provider/callback", ah.ProviderCallback)

	user := app.Group("/api/v1/user", guard)
	user.Get("/:idOrEmail", uh.GetUser)
	user.Delete("/:id", uh.DeleteUser)
}
