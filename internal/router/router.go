package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"userbase/internal/auth"
	"userbase/internal/handler"
	"userbase/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	authService service.AuthService,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/user/create", userHandler.Register)
	api.POST("/user/token", authHandler.CreateToken)

	// Self-profile routes (require a bearer token)
	me := api.Group("/user/me", auth.TokenAuth(authService))
	me.GET("", userHandler.Me)
	me.PATCH("", userHandler.UpdateMe)
	// The profile is never replaced wholesale
	me.POST("", userHandler.MeNotAllowed)

	// Admin routes: staff may read, superusers may write
	admin := api.Group("/admin", auth.TokenAuth(authService), auth.RequireStaff())
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PATCH("/users/:id", adminHandler.UpdateUser, auth.RequireSuperuser())
	admin.DELETE("/users/:id", adminHandler.DeactivateUser, auth.RequireSuperuser())
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
