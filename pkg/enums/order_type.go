package enums

import "fmt"

// OrderType classifies an order as regular catalog pricing or negotiated bulk
// pricing. It derives from the cart lines being checked out, never from the
// request payload.
type OrderType string

const (
	OrderTypeRegular OrderType = "regular"
	OrderTypeBulk    OrderType = "bulk"
)

var validOrderTypes = []OrderType{
	OrderTypeRegular,
	OrderTypeBulk,
}

// String implements fmt.Stringer.
func (t OrderType) String() string {
	return string(t)
}

// IsValid reports whether the value is known.
func (t OrderType) IsValid() bool {
	for _, candidate := range validOrderTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOrderType converts raw input into an OrderType.
func ParseOrderType(value string) (OrderType, error) {
	for _, candidate := range validOrderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order type %q", value)
}
