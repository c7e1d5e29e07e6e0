package payments

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"showtix/internal/shared/utils/response"
	"showtix/pkg/logger"
)

type CreateOrderRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Method Method  `json:"method" binding:"required,oneof=card netbanking qr"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature"`
	Method    Method `json:"method" binding:"required,oneof=card netbanking qr"`
}

// WebhookHandler is invoked for an authenticated webhook event.
type WebhookHandler func(ctx *gin.Context, event *WebhookEvent)

type Controller struct {
	gateway    *Gateway
	webhook    *WebhookVerifier
	onCaptured WebhookHandler
	onRefunded WebhookHandler
	log        *logger.Logger
}

func NewController(gateway *Gateway, webhook *WebhookVerifier, onCaptured, onRefunded WebhookHandler, log *logger.Logger) *Controller {
	return &Controller{
		gateway:    gateway,
		webhook:    webhook,
		onCaptured: onCaptured,
		onRefunded: onRefunded,
		log:        log,
	}
}

// CreateOrder handles POST /payments/orders
func (ctrl *Controller) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	userID := c.GetString("user_id")
	order, err := ctrl.gateway.CreateOrder(c.Request.Context(), userID, req.Amount, req.Method)
	if err != nil {
		if errors.Is(err, ErrUnsupportedMethod) {
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create payment order", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Payment order created", order, nil)
}

// VerifyPayment handles POST /payments/verify. It checks an attempt
// against its order without consuming the payment, so clients can
// validate before confirming a booking. Consumption happens exactly
// once, inside booking confirmation.
func (ctrl *Controller) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	order, err := ctrl.gateway.GetOrder(c.Request.Context(), req.OrderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load order", nil, nil)
		return
	}

	attempt := &Attempt{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		Method:    req.Method,
	}
	if err := ctrl.gateway.Verify(c.Request.Context(), attempt, order.Amount); err != nil {
		response.RespondJSON(c, "error", http.StatusPaymentRequired, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Payment verified", gin.H{
		"order_id":   req.OrderID,
		"payment_id": req.PaymentID,
		"verified":   true,
	}, nil)
}

// SimulatePayment handles POST /payments/orders/:id/pay. It plays the
// provider's role in development: settles the order and returns the
// payment id (and card signature) the client would normally get from
// the provider callback.
func (ctrl *Controller) SimulatePayment(c *gin.Context) {
	orderID := c.Param("id")
	order, err := ctrl.gateway.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load order", nil, nil)
		return
	}

	paymentID, err := ctrl.gateway.NewPaymentID()
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to settle payment", nil, nil)
		return
	}

	result := gin.H{
		"order_id":   orderID,
		"payment_id": paymentID,
		"method":     order.Method,
		"amount":     order.Amount,
	}
	if order.Method == MethodCard {
		result["signature"] = ctrl.gateway.SignPayment(orderID, paymentID)
	}
	response.RespondJSON(c, "success", http.StatusOK, "Payment settled", result, nil)
}

// Webhook handles POST /payments/webhook
func (ctrl *Controller) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to read body", nil, nil)
		return
	}

	event, err := ctrl.webhook.Parse(body, c.GetHeader(WebhookSignatureHeader))
	if err != nil {
		ctrl.log.Warn("rejected webhook", "reason", err.Error())
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid webhook", nil, nil)
		return
	}

	switch event.Event {
	case EventCaptured:
		if ctrl.onCaptured != nil {
			ctrl.onCaptured(c, event)
		}
	case EventRefunded:
		if ctrl.onRefunded != nil {
			ctrl.onRefunded(c, event)
		}
	case EventFailed:
		ctrl.log.Info("payment failed",
			"order_id", event.OrderID,
			"payment_id", event.PaymentID,
		)
	default:
		ctrl.log.Warn("ignoring unknown webhook event", "event", event.Event)
	}
	response.RespondJSON(c, "success", http.StatusOK, "Webhook processed", nil, nil)
}
