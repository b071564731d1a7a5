package enums

import "fmt"

// NotificationType classifies outbound customer notifications.
type NotificationType string

const (
	NotificationTypeReturnApproved NotificationType = "return_approved"
	NotificationTypeOrderShipped   NotificationType = "order_shipped"
	NotificationTypeOrderDelivered NotificationType = "order_delivered"
	NotificationTypeRefundOutcome  NotificationType = "refund_outcome"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeReturnApproved,
	NotificationTypeOrderShipped,
	NotificationTypeOrderDelivered,
	NotificationTypeRefundOutcome,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

// DispatchStatus tracks whether a consolidated notification reached the
// dispatcher. Failed dispatches stay visible for manual resend.
type DispatchStatus string

const (
	DispatchStatusPending DispatchStatus = "pending"
	DispatchStatusSent    DispatchStatus = "sent"
	DispatchStatusFailed  DispatchStatus = "failed"
)

var validDispatchStatuses = []DispatchStatus{
	DispatchStatusPending,
	DispatchStatusSent,
	DispatchStatusFailed,
}

// IsValid reports whether the value is a known DispatchStatus.
func (d DispatchStatus) IsValid() bool {
	for _, candidate := range validDispatchStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDispatchStatus converts raw input into a DispatchStatus.
func ParseDispatchStatus(value string) (DispatchStatus, error) {
	for _, candidate := range validDispatchStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dispatch status %q", value)
}
