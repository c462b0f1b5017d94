package orders

import (
	"fmt"
	"math/rand"
	"time"
)

// generateOrderNumber builds a customer-facing order reference. Uniqueness is
// enforced by the orders.order_number unique index; the random suffix keeps
// two checkouts inside the same millisecond from colliding in practice.
func generateOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), rand.Intn(1000))
}
