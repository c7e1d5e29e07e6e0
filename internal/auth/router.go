package auth

import (
	"github.com/gin-gonic/gin"

	"showtix/internal/shared/middleware"
)

func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller, jwtSecret string) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", ctrl.Register)
		authGroup.POST("/login", ctrl.Login)
		authGroup.POST("/refresh", ctrl.Refresh)
		authGroup.GET("/profile", middleware.JWTAuth(jwtSecret), ctrl.Profile)
	}
}
