package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/convocatorias/portal/internal/app/controllers"
	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/middleware"
)

// ResourceRoutes is implemented by every controllers.ResourceController
type ResourceRoutes interface {
	Resource() string
	RegisterRoutes(read, write gin.IRoutes)
}

// Controllers groups everything the router mounts
type Controllers struct {
	// Readable by anyone
	PublicResources []ResourceRoutes
	// Readable by administrators only
	AdminResources []ResourceRoutes

	Confirmation *controllers.ConfirmationController
	Call         *controllers.CallController
	Explorer     *controllers.ExplorerController
	Favorites    *controllers.FavoritesController
	Preferences  *controllers.PreferencesController
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	Health       *controllers.HealthController

	// WebSocket upgrades /ws; nil disables it
	WebSocket gin.HandlerFunc
	// UploadsDir serves locally stored images under /uploads; empty disables it
	UploadsDir string
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.OptionalAuth())

	// Writes and private reads need an administrator
	admin := v1.Group("")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.AdminRoleName))

	for _, r := range c.PublicResources {
		r.RegisterRoutes(v1, admin)
	}
	for _, r := range c.AdminResources {
		r.RegisterRoutes(admin, admin)
	}

	admin.POST("/confirmations/:token", c.Confirmation.Resolve)

	// --- Public catalog routes ---
	calls := v1.Group("/" + models.ResourceCalls)
	{
		calls.GET("/:id/detail", c.Call.Detail)
		calls.POST("/:id/click", c.Call.Click)
	}
	admin.POST("/"+models.ResourceCalls+"/:id/image", c.Call.UploadImage)

	v1.GET("/home", c.Explorer.Home)
	v1.GET("/explorer", c.Explorer.Explorer)

	favorites := v1.Group("/favorites")
	{
		favorites.GET("", c.Favorites.List)
		favorites.POST("/:id", c.Favorites.Toggle)
	}

	preferences := v1.Group("/preferences")
	{
		preferences.GET("", c.Preferences.Get())
		preferences.PUT("", c.Preferences.Update)
		preferences.POST("/dark-mode/toggle", c.Preferences.ToggleDarkMode())
		preferences.POST("/font-size/increase", c.Preferences.IncreaseFontSize())
		preferences.POST("/font-size/decrease", c.Preferences.DecreaseFontSize())
		preferences.POST("/font-size/reset", c.Preferences.ResetFontSize())
	}

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/forgot-password", c.Auth.ForgotPassword)
		auth.POST("/reset-password", c.Auth.ResetPassword)
	}

	// --- Authenticated routes ---
	profile := v1.Group("/profile")
	profile.Use(authMiddleware.JWTAuth())
	{
		profile.GET("", c.Profile.GetProfile)
		profile.PUT("", c.Profile.UpdateProfile)
		profile.PUT("/password", c.Profile.ChangePassword)
	}

	// Health check endpoint (public)
	v1.GET("/health", c.Health.Health)

	if c.WebSocket != nil {
		router.GET("/ws", c.WebSocket)
	}
	if c.UploadsDir != "" {
		router.Static("/uploads", c.UploadsDir)
	}
}
