package bookings

import (
	"github.com/gin-gonic/gin"

	"showtix/internal/shared/middleware"
)

func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller, jwtSecret string) {
	bookingsGroup := rg.Group("/bookings")
	bookingsGroup.Use(middleware.JWTAuth(jwtSecret))
	{
		bookingsGroup.POST("/lock-seats", ctrl.LockSeats)
		bookingsGroup.POST("", ctrl.ConfirmBooking)
		bookingsGroup.GET("", ctrl.GetMine)
		bookingsGroup.GET("/code/:code", ctrl.GetByCode)
		bookingsGroup.GET("/:id", ctrl.Get)
		bookingsGroup.PUT("/:id/cancel", ctrl.Cancel)
		bookingsGroup.GET("/:id/ticket", ctrl.Ticket)
	}
}
