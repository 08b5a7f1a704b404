package enums

import "fmt"

// OrderEvent is the kind of order mutation driving a real-time notification.
type OrderEvent string

const (
	OrderEventNewOrder      OrderEvent = "new_order"
	OrderEventStatusChanged OrderEvent = "status_changed"
	OrderEventCancelled     OrderEvent = "cancelled"
)

var validOrderEvents = []OrderEvent{
	OrderEventNewOrder,
	OrderEventStatusChanged,
	OrderEventCancelled,
}

// String implements fmt.Stringer.
func (o OrderEvent) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderEvent.
func (o OrderEvent) IsValid() bool {
	for _, candidate := range validOrderEvents {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderEvent converts raw input into an OrderEvent.
func ParseOrderEvent(value string) (OrderEvent, error) {
	for _, candidate := range validOrderEvents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order event %q", value)
}
