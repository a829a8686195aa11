package web

import "github.com/sportaccessories/storefront/internal/app/model"

// Badge is how an order status is shown
type Badge struct {
	Label string
	Color string
}

// StatusBadge covers every value of model.OrderStatuses
func StatusBadge(status model.OrderStatus) Badge {
	switch status {
	case model.OrderStatusPending:
		return Badge{Label: "Pending", Color: "warning"}
	case model.OrderStatusProcessing:
		return Badge{Label: "Processing", Color: "info"}
	case model.OrderStatusShipped:
		return Badge{Label: "Shipped", Color: "primary"}
	case model.OrderStatusDelivered:
		return Badge{Label: "Delivered", Color: "success"}
	case model.OrderStatusCancelled:
		return Badge{Label: "Cancelled", Color: "danger"}
	}
	return Badge{Label: string(status), Color: "secondary"}
}
