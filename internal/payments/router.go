package payments

import (
	"github.com/gin-gonic/gin"

	"showtix/internal/shared/middleware"
)

func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller, jwtSecret string) {
	paymentsGroup := rg.Group("/payments")
	{
		// Webhook authenticates via its HMAC signature, not a JWT.
		paymentsGroup.POST("/webhook", ctrl.Webhook)

		protected := paymentsGroup.Group("")
		protected.Use(middleware.JWTAuth(jwtSecret))
		{
			protected.POST("/create-order", ctrl.CreateOrder)
			protected.POST("/verify", ctrl.VerifyPayment)
			protected.POST("/orders/:id/pay", ctrl.SimulatePayment)
		}
	}
}
