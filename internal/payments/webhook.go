package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
)

// WebhookVerifier authenticates gateway callbacks. The signature header
// carries hex(HMAC-SHA256(body, webhookSecret)).
type WebhookVerifier struct {
	secret []byte
}

const WebhookSignatureHeader = "X-Webhook-Signature"

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// Parse authenticates and decodes a webhook body
func (w *WebhookVerifier) Parse(body []byte, signature string) (*WebhookEvent, error) {
	expected := w.Sign(body)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return nil, ErrInvalidSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, ErrInvalidWebhookBody
	}
	if event.Event == "" || event.OrderID == "" {
		return nil, ErrInvalidWebhookBody
	}
	return &event, nil
}

// Sign computes the signature for a webhook body
func (w *WebhookVerifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, w.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
