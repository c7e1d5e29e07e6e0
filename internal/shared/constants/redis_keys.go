package constants

import (
	"fmt"
	"time"
)

// Redis key and TTL catalog.
// Pattern: showtix:{module}:{operation}:{identifier}

const (
	CACHE_PREFIX = "showtix"
)

// Cache TTLs
const (
	TTL_EVENT_LIST   = 5 * time.Minute
	TTL_EVENT_DETAIL = 2 * time.Minute
	TTL_SEAT_MAP     = 30 * time.Second
	TTL_THEATER_LIST = 15 * time.Minute
)

// Event cache keys
const (
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":events:list"   // + :page:X:limit:Y:...
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:" // + event-id
	CACHE_KEY_SEAT_MAP     = CACHE_PREFIX + ":events:seats:"  // + event-id
)

// Coordination keys
const (
	KEY_EVENT_MUTEX    = CACHE_PREFIX + ":eventlock:"    // + event-id
	KEY_PAYMENT_USED   = CACHE_PREFIX + ":payment:used:" // + payment-id
	KEY_PAYMENT_ORDER  = CACHE_PREFIX + ":payment:order:" // + order-id
	KEY_RATELIMIT_BASE = CACHE_PREFIX + ":ratelimit"
)

// BuildEventListKey builds a cache key for a filtered event listing page
func BuildEventListKey(page, limit int, category, city, search string) string {
	return fmt.Sprintf("%s:page:%d:limit:%d:category:%s:city:%s:search:%s",
		CACHE_KEY_EVENTS_LIST, page, limit, category, city, search)
}

// BuildEventDetailKey builds a cache key for a single event
func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

// BuildSeatMapKey builds a cache key for an event's seat map
func BuildSeatMapKey(eventID string) string {
	return CACHE_KEY_SEAT_MAP + eventID
}

// BuildEventMutexKey builds the per-event lock fencing key
func BuildEventMutexKey(eventID string) string {
	return KEY_EVENT_MUTEX + eventID
}

// BuildPaymentUsedKey builds the consume-once payment idempotency key
func BuildPaymentUsedKey(paymentID string) string {
	return KEY_PAYMENT_USED + paymentID
}

// BuildPaymentOrderKey builds the pending payment order key
func BuildPaymentOrderKey(orderID string) string {
	return KEY_PAYMENT_ORDER + orderID
}

// BuildTheaterListKey builds a cache key for the approved theater list
func BuildTheaterListKey(city string) string {
	return fmt.Sprintf("%s:theaters:list:city:%s", CACHE_PREFIX, city)
}
