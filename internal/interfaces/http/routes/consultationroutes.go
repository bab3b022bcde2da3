package routes

import (
	"github.com/gin-gonic/gin"

	consultationhandlers "github.com/ibis1225/pet-ai/internal/interfaces/http/handlers/consultation"
	"github.com/ibis1225/pet-ai/internal/interfaces/http/middleware"
	"github.com/ibis1225/pet-ai/internal/shared/constants"
)

type ConsultationRouteConfig struct {
	Handler        *consultationhandlers.Handler
	AdminHandler   *consultationhandlers.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
	// RateLimiter is optional; chat endpoints are unthrottled without Redis.
	RateLimiter *middleware.RateLimiter
}

func SetupConsultationRoutes(engine *gin.Engine, config *ConsultationRouteConfig) {
	chat := engine.Group("/api/v1/consultations")
	if config.RateLimiter != nil {
		chat.Use(config.RateLimiter.Limit())
	}
	{
		chat.POST("", config.Handler.Start)
		chat.POST("/input", config.Handler.ProcessInput)
		chat.POST("/step", config.Handler.ProcessStep)
		chat.POST("/cancel/:channel/:channel_user_id", config.Handler.Cancel)
		chat.GET("/active/:channel/:channel_user_id", config.Handler.GetActive)
		chat.GET("/user/:channel/:channel_user_id", config.Handler.GetHistory)
	}

	admin := engine.Group("/api/v1/admin/consultations")
	admin.Use(config.AuthMiddleware.RequireAuth(), middleware.RequireRole(constants.RoleAdmin))
	{
		// Static paths before /:id
		admin.GET("", config.AdminHandler.List)
		admin.GET("/stats", config.AdminHandler.Stats)
		admin.GET("/number/:number", config.AdminHandler.GetByNumber)

		admin.GET("/:id", config.AdminHandler.Get)
		admin.PATCH("/:id", config.AdminHandler.Update)
	}
}
