package domain

import (
	"fmt"
	"strings"
)

type OrderStatus string

const (
	StatusPreOrder  OrderStatus = "PRE-PEDIDO"
	StatusPending   OrderStatus = "PENDENTE"
	StatusDelivered OrderStatus = "ENTREGUE"
	StatusCancelled OrderStatus = "CANCELADO"
)

var orderStatuses = []OrderStatus{StatusPreOrder, StatusPending, StatusDelivered, StatusCancelled}

var deletableStatuses = []OrderStatus{StatusDelivered, StatusCancelled}

// DeletableStatuses lists the statuses in which an order may be removed.
func DeletableStatuses() []OrderStatus {
	return append([]OrderStatus(nil), deletableStatuses...)
}

// ParseOrderStatus accepts the status labels case-insensitively.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	candidate := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	for _, status := range orderStatuses {
		if candidate == status {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}
