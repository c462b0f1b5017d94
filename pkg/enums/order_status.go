package enums

import "fmt"

// OrderStatus tracks the lifecycle of a customer order. Orders are created as
// pending; later transitions are driven by fulfillment, except cancellation
// which customers may trigger while the order is still pending.
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "pending"
	OrderStatusAccepted          OrderStatus = "accepted"
	OrderStatusRejected          OrderStatus = "rejected"
	OrderStatusPartiallyAccepted OrderStatus = "partially_accepted"
	OrderStatusProcessing        OrderStatus = "processing"
	OrderStatusShipped           OrderStatus = "shipped"
	OrderStatusDelivered         OrderStatus = "delivered"
	OrderStatusCancelled         OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusRejected,
	OrderStatusPartiallyAccepted,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
