package events

import (
	"github.com/gin-gonic/gin"

	"showtix/internal/shared/middleware"
	"showtix/internal/users"
)

// RegisterRoutes wires the event endpoints. Browsing is public; event
// management needs a theater admin or platform admin.
func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller, jwtSecret string) {
	eventsGroup := rg.Group("/events")
	{
		eventsGroup.GET("", ctrl.GetEvents)
		eventsGroup.GET("/:id", ctrl.GetEvent)
		eventsGroup.GET("/:id/seats", ctrl.GetSeatMap)

		protected := eventsGroup.Group("")
		protected.Use(middleware.JWTAuth(jwtSecret))
		protected.Use(middleware.RequireRoles(string(users.RoleTheaterAdmin), string(users.RoleAdmin)))
		{
			protected.POST("", ctrl.CreateEvent)
			protected.PUT("/:id", ctrl.UpdateEvent)
			protected.DELETE("/:id", ctrl.DeleteEvent)
		}
	}
}
