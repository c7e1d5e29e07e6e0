package admin

import (
	"github.com/gin-gonic/gin"

	"showtix/internal/shared/middleware"
)

func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller, jwtSecret string) {
	adminGroup := rg.Group("/admin")
	adminGroup.Use(middleware.JWTAuth(jwtSecret))
	adminGroup.Use(middleware.RequireAdmin())
	{
		adminGroup.GET("/users", ctrl.ListUsers)
		adminGroup.PUT("/users/:id/deactivate", ctrl.DeactivateUser)

		adminGroup.GET("/theaters/pending", ctrl.PendingTheaters)
		adminGroup.PUT("/theaters/:id/approve", ctrl.ApproveTheater)
		adminGroup.PUT("/theaters/:id/reject", ctrl.RejectTheater)

		adminGroup.GET("/bookings", ctrl.ListBookings)
		adminGroup.PUT("/bookings/:id/refund", ctrl.RefundBooking)

		adminGroup.GET("/events", ctrl.ListEvents)
		adminGroup.PUT("/events/:id/deactivate", ctrl.DeactivateEvent)
	}
}
