package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// maxPrice is the first value that does not fit the NUMERIC(10,2) price column.
var maxPrice = decimal.New(1, 8)

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: preco must not be negative", ErrInvalidItem)
	}
	if !price.Equal(price.Round(2)) {
		return fmt.Errorf("%w: preco must have at most 2 decimal places", ErrInvalidItem)
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: preco must be below %s", ErrInvalidItem, maxPrice)
	}
	return nil
}

type NewItem struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
}

func (n NewItem) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("%w: nome is required", ErrInvalidItem)
	}
	if strings.TrimSpace(n.Category) == "" {
		return fmt.Errorf("%w: categoria is required", ErrInvalidItem)
	}
	return validatePrice(n.Price)
}

// ItemPatch carries the fields of a partial item update. A nil field is
// left unchanged; a non-nil field is written even when it holds a zero value.
type ItemPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	ImageURL    *string
}

func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Category == nil && p.ImageURL == nil
}

func (p ItemPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: nome must not be empty", ErrInvalidItem)
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return fmt.Errorf("%w: categoria must not be empty", ErrInvalidItem)
	}
	if p.Price != nil {
		return validatePrice(*p.Price)
	}
	return nil
}

// Apply returns item with the present fields of the patch written over it.
func (p ItemPatch) Apply(item MenuItem) MenuItem {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	return item
}
