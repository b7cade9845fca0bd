package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrItemInUse     = errors.New("item is referenced by existing orders")
	ErrInvalidItem   = errors.New("invalid item")
	ErrInvalidOrder  = errors.New("invalid order")
	ErrInvalidStatus = errors.New("invalid order status")
)

// MissingItemsError reports the item ids of an order that do not exist.
type MissingItemsError struct {
	IDs []int
}

func (e *MissingItemsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprint(id)
	}
	return "items not found: " + strings.Join(ids, ", ")
}

func (e *MissingItemsError) Unwrap() error { return ErrItemNotFound }
