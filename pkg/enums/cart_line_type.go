package enums

import "fmt"

// CartLineType distinguishes catalog-priced lines from negotiated bulk lines.
type CartLineType string

const (
	CartLineTypeRegular CartLineType = "regular"
	CartLineTypeBulk    CartLineType = "bulk"
)

var validCartLineTypes = []CartLineType{
	CartLineTypeRegular,
	CartLineTypeBulk,
}

// String implements fmt.Stringer.
func (t CartLineType) String() string {
	return string(t)
}

// IsValid reports whether the value is known.
func (t CartLineType) IsValid() bool {
	for _, candidate := range validCartLineTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseCartLineType converts raw input into a CartLineType. Empty input maps
// to the regular type, matching how legacy cart rows are stored.
func ParseCartLineType(value string) (CartLineType, error) {
	if value == "" {
		return CartLineTypeRegular, nil
	}
	for _, candidate := range validCartLineTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart line type %q", value)
}
