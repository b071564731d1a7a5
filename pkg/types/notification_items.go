package types

// NotificationItem is one line of a consolidated customer notification.
type NotificationItem struct {
	ProductName string `json:"product_name"`
	Reason      string `json:"reason,omitempty"`
}

// NotificationItems is the jsonb-serialized item list on a notification row.
type NotificationItems []NotificationItem
