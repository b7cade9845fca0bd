// Package mocks holds testify mocks for the service layer's dependencies.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cardapio-virtual/internal/domain"
)

type MenuRepository struct {
	mock.Mock
}

func NewMenuRepository(t mock.TestingT) *MenuRepository {
	m := &MenuRepository{}
	m.Test(t)
	return m
}

func (m *MenuRepository) ListItems(ctx context.Context, category string) ([]domain.MenuItem, error) {
	args := m.Called(ctx, category)
	items, _ := args.Get(0).([]domain.MenuItem)
	return items, args.Error(1)
}

func (m *MenuRepository) GetItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*domain.MenuItem)
	return item, args.Error(1)
}

func (m *MenuRepository) GetItemsByIDs(ctx context.Context, ids []int) ([]domain.MenuItem, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]domain.MenuItem)
	return items, args.Error(1)
}

func (m *MenuRepository) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]string)
	return categories, args.Error(1)
}

func (m *MenuRepository) NextItemID(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MenuRepository) CreateItem(ctx context.Context, item *domain.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MenuRepository) UpdateItem(ctx context.Context, id int, patch domain.ItemPatch) (*domain.MenuItem, error) {
	args := m.Called(ctx, id, patch)
	item, _ := args.Get(0).(*domain.MenuItem)
	return item, args.Error(1)
}

func (m *MenuRepository) DeleteItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*domain.MenuItem)
	return item, args.Error(1)
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t mock.TestingT) *OrderRepository {
	m := &OrderRepository{}
	m.Test(t)
	return m
}

func (m *OrderRepository) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]domain.OrderSummary)
	return orders, args.Error(1)
}

func (m *OrderRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *OrderRepository) GetOrderDetail(ctx context.Context, id int) (*domain.OrderDetail, error) {
	args := m.Called(ctx, id)
	detail, _ := args.Get(0).(*domain.OrderDetail)
	return detail, args.Error(1)
}

func (m *OrderRepository) CreateOrder(ctx context.Context, status domain.OrderStatus, lines []domain.ItemQuantity) (*domain.Order, error) {
	args := m.Called(ctx, status, lines)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, id, status)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *OrderRepository) ReplaceOrderLines(ctx context.Context, id int, lines []domain.ItemQuantity) (*domain.Order, error) {
	args := m.Called(ctx, id, lines)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

// DeleteOrder records the allowed statuses as a single slice argument.
func (m *OrderRepository) DeleteOrder(ctx context.Context, id int, allowed ...domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, id, allowed)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}
