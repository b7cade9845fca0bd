package domain

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, as the menu clients expect.
	decimal.MarshalJSONWithoutQuotes = true
}

type MenuItem struct {
	ID          int             `json:"id"`
	Name        string          `json:"nome"`
	Description string          `json:"descricao"`
	Price       decimal.Decimal `json:"preco"`
	Category    string          `json:"categoria"`
	ImageURL    string          `json:"url_imagem"`
}

type Order struct {
	ID         int             `json:"id"`
	Status     OrderStatus     `json:"status"`
	TotalPrice decimal.Decimal `json:"preco_total"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type OrderSummary struct {
	ID         int             `json:"id"`
	Status     OrderStatus     `json:"status"`
	TotalPrice decimal.Decimal `json:"preco_total"`
}

// OrderDetail lists the order lines as parallel sequences in line order.
type OrderDetail struct {
	ID         int               `json:"id"`
	Items      []string          `json:"itens"`
	Quantities []int             `json:"quantidade"`
	UnitPrices []decimal.Decimal `json:"precos_unitario"`
	TotalPrice decimal.Decimal   `json:"preco_total"`
}

type ItemQuantity struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantidade"`
}

type PopularItem struct {
	Item     MenuItem `json:"item"`
	Quantity int64    `json:"quantidade"`
}

// CountItems folds a list of item ids into per-item quantities, keeping the
// order in which each id first appears.
func CountItems(ids []int) []ItemQuantity {
	index := make(map[int]int, len(ids))
	var counted []ItemQuantity
	for _, id := range ids {
		if i, ok := index[id]; ok {
			counted[i].Quantity++
			continue
		}
		index[id] = len(counted)
		counted = append(counted, ItemQuantity{ItemID: id, Quantity: 1})
	}
	return counted
}

// OrderTotal sums price × quantity over the lines. Prices must hold every
// line's item.
func OrderTotal(lines []ItemQuantity, prices map[int]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(prices[line.ItemID].Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemScore is an item's position in the popularity ranking.
type ItemScore struct {
	ItemID int
	Score  int64
}

// ImageUpload is an image file received for a menu item.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}
