package payments

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"showtix/internal/shared/config"
	"showtix/internal/shared/constants"
	"showtix/pkg/logger"
)

// Gateway simulates a payment provider. Orders are parked in Redis for
// the seat lock window; verification checks the card signature or the
// provider payment id, and consumption is once-only so a payment id
// can never settle two bookings.
type Gateway struct {
	redis    *redis.Client
	secret   []byte
	currency string
	vpa      string
	orderTTL time.Duration
	log      *logger.Logger
}

func NewGateway(redisClient *redis.Client, cfg *config.Config, log *logger.Logger) *Gateway {
	return &Gateway{
		redis:    redisClient,
		secret:   []byte(cfg.Payments.Secret),
		currency: cfg.Payments.Currency,
		vpa:      cfg.Payments.MerchantVPA,
		orderTTL: cfg.Booking.SeatLockTTL,
		log:      log,
	}
}

// CreateOrder opens a payment intent for amount. The order expires with
// the seat lock it pays for.
func (g *Gateway) CreateOrder(ctx context.Context, userID string, amount float64, method Method) (*Order, error) {
	if !method.IsValid() {
		return nil, ErrUnsupportedMethod
	}
	if amount <= 0 {
		return nil, fmt.Errorf("invalid order amount %.2f", amount)
	}

	id, err := randomID("order")
	if err != nil {
		return nil, err
	}

	order := &Order{
		OrderID:   id,
		UserID:    userID,
		Amount:    amount,
		Currency:  g.currency,
		Method:    method,
		CreatedAt: time.Now(),
	}
	if method == MethodQR {
		order.UPIString = fmt.Sprintf("upi://pay?pa=%s&am=%.2f&cu=%s&tn=%s",
			g.vpa, amount, g.currency, id)
	}

	raw, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}
	key := constants.BuildPaymentOrderKey(id)
	if err := g.redis.Set(ctx, key, raw, g.orderTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	g.log.Info("payment order created",
		"order_id", id,
		"amount", amount,
		"method", string(method),
	)
	return order, nil
}

// GetOrder loads a pending order
func (g *Gateway) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	raw, err := g.redis.Get(ctx, constants.BuildPaymentOrderKey(orderID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	return &order, nil
}

// Verify checks an attempt against its order without consuming it.
func (g *Gateway) Verify(ctx context.Context, attempt *Attempt, expectedAmount float64) error {
	if attempt.PaymentID == "" {
		return ErrInvalidSignature
	}

	order, err := g.GetOrder(ctx, attempt.OrderID)
	if err != nil {
		return err
	}
	if !amountsEqual(order.Amount, expectedAmount) {
		return ErrAmountMismatch
	}

	switch attempt.Method {
	case MethodCard:
		expected := g.SignPayment(attempt.OrderID, attempt.PaymentID)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(attempt.Signature)) != 1 {
			return ErrInvalidSignature
		}
	case MethodNetbanking, MethodQR:
		// Provider-side payment ids carry no client-computable
		// signature; presence of the id against a live order is the
		// check.
	default:
		return ErrUnsupportedMethod
	}
	return nil
}

// VerifyAndConsume verifies the attempt and marks the payment id as
// used. The consume mark is what makes booking confirmation idempotent
// against replayed payment ids.
func (g *Gateway) VerifyAndConsume(ctx context.Context, attempt *Attempt, expectedAmount float64) error {
	if err := g.Verify(ctx, attempt, expectedAmount); err != nil {
		return err
	}

	key := constants.BuildPaymentUsedKey(attempt.PaymentID)
	ok, err := g.redis.SetNX(ctx, key, attempt.OrderID, 30*24*time.Hour).Result()
	if err != nil {
		return fmt.Errorf("failed to consume payment: %w", err)
	}
	if !ok {
		return ErrPaymentConsumed
	}

	g.redis.Del(ctx, constants.BuildPaymentOrderKey(attempt.OrderID))
	return nil
}

// SignPayment produces the card payment signature the client echoes
// back: HMAC-SHA256 over "orderID|paymentID".
func (g *Gateway) SignPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, g.secret)
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

// NewPaymentID issues a provider-style payment id for simulated
// netbanking and QR settlements.
func (g *Gateway) NewPaymentID() (string, error) {
	return randomID("pay")
}

func amountsEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func randomID(prefix string) (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return prefix + "_" + hex.EncodeToString(buf), nil
}
