package enums

import "fmt"

// ReturnStatus tracks the lifecycle of a customer return request.
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusApproved ReturnStatus = "approved"
	ReturnStatusRejected ReturnStatus = "rejected"
	ReturnStatusReceived ReturnStatus = "received"
	ReturnStatusRefunded ReturnStatus = "refunded"
)

var validReturnStatuses = []ReturnStatus{
	ReturnStatusPending,
	ReturnStatusApproved,
	ReturnStatusRejected,
	ReturnStatusReceived,
	ReturnStatusRefunded,
}

// returnTransitions lists the legal successor states per status.
// Rejected and refunded are terminal.
var returnTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnStatusPending:  {ReturnStatusApproved, ReturnStatusRejected},
	ReturnStatusApproved: {ReturnStatusReceived},
	ReturnStatusReceived: {ReturnStatusRefunded},
	ReturnStatusRejected: {},
	ReturnStatusRefunded: {},
}

// String implements fmt.Stringer.
func (r ReturnStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReturnStatus.
func (r ReturnStatus) IsValid() bool {
	for _, candidate := range validReturnStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (r ReturnStatus) IsTerminal() bool {
	return len(returnTransitions[r]) == 0 && r.IsValid()
}

// CanTransitionTo reports whether target is a legal successor of r.
func (r ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	for _, candidate := range returnTransitions[r] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseReturnStatus converts raw input into a ReturnStatus.
func ParseReturnStatus(value string) (ReturnStatus, error) {
	for _, candidate := range validReturnStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid return status %q", value)
}
