package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountItems(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		want []ItemQuantity
	}{
		{name: "empty", ids: nil, want: nil},
		{name: "duplicates folded", ids: []int{1, 1, 2}, want: []ItemQuantity{{ItemID: 1, Quantity: 2}, {ItemID: 2, Quantity: 1}}},
		{name: "first appearance order", ids: []int{3, 1, 3, 3}, want: []ItemQuantity{{ItemID: 3, Quantity: 3}, {ItemID: 1, Quantity: 1}}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, CountItems(testCase.ids))
		})
	}
}

func TestOrderTotal(t *testing.T) {
	lines := CountItems([]int{1, 1, 2})
	prices := map[int]decimal.Decimal{
		1: decimal.RequireFromString("12.50"),
		2: decimal.RequireFromString("4.90"),
	}

	total := OrderTotal(lines, prices)
	assert.True(t, decimal.RequireFromString("29.90").Equal(total), total.String())
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    OrderStatus
		wantErr bool
	}{
		{raw: "PRE-PEDIDO", want: StatusPreOrder},
		{raw: " pendente ", want: StatusPending},
		{raw: "Entregue", want: StatusDelivered},
		{raw: "CANCELADO", want: StatusCancelled},
		{raw: "", wantErr: true},
		{raw: "PAGO", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.raw, func(t *testing.T) {
			got, err := ParseOrderStatus(testCase.raw)
			if testCase.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestDeletableStatuses(t *testing.T) {
	statuses := DeletableStatuses()
	assert.ElementsMatch(t, []OrderStatus{StatusDelivered, StatusCancelled}, statuses)

	statuses[0] = StatusPending
	assert.NotContains(t, DeletableStatuses(), StatusPending)
}

func TestItemPatchApplyOnlyPresentFields(t *testing.T) {
	item := MenuItem{ID: 1, Name: "Suco", Description: "Laranja", Price: decimal.NewFromInt(8), Category: "bebidas", ImageURL: "/static/images/1_suco.png"}
	category := "sucos naturais"

	updated := ItemPatch{Category: &category}.Apply(item)

	assert.Equal(t, "sucos naturais", updated.Category)
	assert.Equal(t, item.Name, updated.Name)
	assert.True(t, item.Price.Equal(updated.Price))
	assert.Equal(t, item.ImageURL, updated.ImageURL)
}

func TestItemPatchZeroPriceIsApplied(t *testing.T) {
	zero := decimal.Zero
	item := MenuItem{Price: decimal.NewFromInt(8)}

	patch := ItemPatch{Price: &zero}
	require.NoError(t, patch.Validate())
	assert.True(t, patch.Apply(item).Price.IsZero())
}

func TestItemPatchValidate(t *testing.T) {
	empty := " "
	negative := decimal.NewFromInt(-1)

	assert.ErrorIs(t, ItemPatch{Name: &empty}.Validate(), ErrInvalidItem)
	assert.ErrorIs(t, ItemPatch{Category: &empty}.Validate(), ErrInvalidItem)
	assert.ErrorIs(t, ItemPatch{Price: &negative}.Validate(), ErrInvalidItem)
	assert.True(t, ItemPatch{}.Empty())

	for _, raw := range []string{"9.999", "100000000", "1e20"} {
		price := decimal.RequireFromString(raw)
		assert.ErrorIs(t, ItemPatch{Price: &price}.Validate(), ErrInvalidItem, raw)
	}
	for _, raw := range []string{"9.99", "9.990", "99999999.99"} {
		price := decimal.RequireFromString(raw)
		assert.NoError(t, ItemPatch{Price: &price}.Validate(), raw)
	}
}

func TestNewItemValidate(t *testing.T) {
	valid := NewItem{Name: "Pastel", Price: decimal.NewFromInt(7), Category: "salgados"}
	assert.NoError(t, valid.Validate())

	invalid := valid
	invalid.Price = decimal.NewFromInt(-7)
	assert.ErrorIs(t, invalid.Validate(), ErrInvalidItem)

	invalid = valid
	invalid.Name = ""
	assert.ErrorIs(t, invalid.Validate(), ErrInvalidItem)

	tests := []struct {
		price   string
		wantErr bool
	}{
		{price: "12.50"},
		{price: "12.500"},
		{price: "0"},
		{price: "99999999.99"},
		{price: "9.999", wantErr: true},
		{price: "0.001", wantErr: true},
		{price: "100000000", wantErr: true},
		{price: "123456789", wantErr: true},
		{price: "1e20", wantErr: true},
	}
	for _, testCase := range tests {
		t.Run(testCase.price, func(t *testing.T) {
			item := valid
			item.Price = decimal.RequireFromString(testCase.price)
			if testCase.wantErr {
				assert.ErrorIs(t, item.Validate(), ErrInvalidItem)
			} else {
				assert.NoError(t, item.Validate())
			}
		})
	}
}

func TestMissingItemsError(t *testing.T) {
	var err error = &MissingItemsError{IDs: []int{4, 9}}

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, "items not found: 4, 9", err.Error())

	var missing *MissingItemsError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, []int{4, 9}, missing.IDs)
}

func TestPriceMarshalsAsNumber(t *testing.T) {
	body, err := json.Marshal(MenuItem{ID: 1, Price: decimal.RequireFromString("10.5")})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"preco":10.5`)
}
