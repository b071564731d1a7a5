package enums

import "fmt"

// SupplierOrderStatus tracks the fulfillment lifecycle of a supplier order.
type SupplierOrderStatus string

const (
	SupplierOrderStatusPending      SupplierOrderStatus = "pending"
	SupplierOrderStatusConfirmed    SupplierOrderStatus = "confirmed"
	SupplierOrderStatusInProduction SupplierOrderStatus = "in_production"
	SupplierOrderStatusReadyToShip  SupplierOrderStatus = "ready_to_ship"
	SupplierOrderStatusShipped      SupplierOrderStatus = "shipped"
	SupplierOrderStatusDelivered    SupplierOrderStatus = "delivered"
	SupplierOrderStatusCancelled    SupplierOrderStatus = "cancelled"
)

var validSupplierOrderStatuses = []SupplierOrderStatus{
	SupplierOrderStatusPending,
	SupplierOrderStatusConfirmed,
	SupplierOrderStatusInProduction,
	SupplierOrderStatusReadyToShip,
	SupplierOrderStatusShipped,
	SupplierOrderStatusDelivered,
	SupplierOrderStatusCancelled,
}

// supplierOrderTransitions lists the legal successor states per status.
// Delivered and cancelled are terminal.
var supplierOrderTransitions = map[SupplierOrderStatus][]SupplierOrderStatus{
	SupplierOrderStatusPending:      {SupplierOrderStatusConfirmed, SupplierOrderStatusCancelled},
	SupplierOrderStatusConfirmed:    {SupplierOrderStatusInProduction, SupplierOrderStatusCancelled},
	SupplierOrderStatusInProduction: {SupplierOrderStatusReadyToShip, SupplierOrderStatusCancelled},
	SupplierOrderStatusReadyToShip:  {SupplierOrderStatusShipped, SupplierOrderStatusCancelled},
	SupplierOrderStatusShipped:      {SupplierOrderStatusDelivered},
	SupplierOrderStatusDelivered:    {},
	SupplierOrderStatusCancelled:    {},
}

// String implements fmt.Stringer.
func (s SupplierOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SupplierOrderStatus.
func (s SupplierOrderStatus) IsValid() bool {
	for _, candidate := range validSupplierOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s SupplierOrderStatus) IsTerminal() bool {
	return len(supplierOrderTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether target is a legal successor of s.
func (s SupplierOrderStatus) CanTransitionTo(target SupplierOrderStatus) bool {
	for _, candidate := range supplierOrderTransitions[s] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseSupplierOrderStatus converts raw input into a SupplierOrderStatus.
func ParseSupplierOrderStatus(value string) (SupplierOrderStatus, error) {
	for _, candidate := range validSupplierOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supplier order status %q", value)
}
