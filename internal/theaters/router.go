package theaters

import (
	"github.com/gin-gonic/gin"

	"showtix/internal/shared/middleware"
)

func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller, jwtSecret string) {
	theatersGroup := rg.Group("/theaters")
	{
		theatersGroup.GET("", ctrl.List)

		protected := theatersGroup.Group("")
		protected.Use(middleware.JWTAuth(jwtSecret))
		{
			protected.POST("/register", ctrl.Register)
			protected.GET("/mine", ctrl.GetMine)
			protected.GET("/:id", ctrl.Get)
			protected.POST("/:id/screens", ctrl.AddScreen)
		}
	}
}
