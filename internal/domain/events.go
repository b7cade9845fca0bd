package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "order_placed"
	EventOrderUpdated       = "order_updated"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderDeleted       = "order_deleted"
)

type OrderEvent struct {
	Type      string          `json:"type"`
	OrderID   int             `json:"order_id"`
	Status    OrderStatus     `json:"status,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Items     []ItemQuantity  `json:"items,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// OrderUpdateOutcome distinguishes an order whose lines were replaced from
// one that was removed because its new item list was empty.
type OrderUpdateOutcome int

const (
	OrderUpdated OrderUpdateOutcome = iota + 1
	OrderDeletedEmpty
)
