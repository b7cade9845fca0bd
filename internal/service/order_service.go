package service

import (
	"context"
	"fmt"
	"time"

	"cardapio-virtual/internal/domain"
	"cardapio-virtual/internal/logging"
	"cardapio-virtual/internal/metrics"
)

const publishTimeout = 5 * time.Second

// OrderService manages orders. Events are published after the change is
// committed; a failed publish is logged and does not fail the request.
type OrderService struct {
	repo      OrderRepository
	publisher EventPublisher
	qrEncoder QRGenerator
}

func NewOrderService(repo OrderRepository, publisher EventPublisher, qr QRGenerator) *OrderService {
	return &OrderService{repo: repo, publisher: publisher, qrEncoder: qr}
}

func (s *OrderService) List(ctx context.Context) ([]domain.OrderSummary, error) {
	return s.repo.ListOrders(ctx)
}

func (s *OrderService) Detail(ctx context.Context, id int) (*domain.OrderDetail, error) {
	return s.repo.GetOrderDetail(ctx, id)
}

// Place creates an order with one line per distinct item id; repeated ids
// add to the line's quantity.
func (s *OrderService) Place(ctx context.Context, itemIDs []int, status domain.OrderStatus) (*domain.Order, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: itens must not be empty", domain.ErrInvalidOrder)
	}
	if _, err := domain.ParseOrderStatus(string(status)); err != nil {
		return nil, err
	}

	lines := domain.CountItems(itemIDs)
	order, err := s.repo.CreateOrder(ctx, status, lines)
	if err != nil {
		return nil, err
	}

	metrics.RecordOrderPlaced(string(order.Status))
	s.publish(ctx, domain.EventOrderPlaced, order, lines)
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	if _, err := domain.ParseOrderStatus(string(status)); err != nil {
		return nil, err
	}

	order, err := s.repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EventOrderStatusChanged, order, nil)
	return order, nil
}

// Update replaces the order's items. An empty list deletes the order.
func (s *OrderService) Update(ctx context.Context, id int, itemIDs []int) (domain.OrderUpdateOutcome, error) {
	if len(itemIDs) == 0 {
		order, err := s.repo.DeleteOrder(ctx, id)
		if err != nil {
			return 0, err
		}
		s.publish(ctx, domain.EventOrderDeleted, order, nil)
		return domain.OrderDeletedEmpty, nil
	}

	lines := domain.CountItems(itemIDs)
	order, err := s.repo.ReplaceOrderLines(ctx, id, lines)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, domain.EventOrderUpdated, order, lines)
	return domain.OrderUpdated, nil
}

// Delete removes delivered or cancelled orders. Orders in any other status
// are reported as not found.
func (s *OrderService) Delete(ctx context.Context, id int) error {
	order, err := s.repo.DeleteOrder(ctx, id, domain.DeletableStatuses()...)
	if err != nil {
		return err
	}
	s.publish(ctx, domain.EventOrderDeleted, order, nil)
	return nil
}

func (s *OrderService) QRCode(ctx context.Context, id int) ([]byte, error) {
	if _, err := s.repo.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.qrEncoder.Generate(id)
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order, lines []domain.ItemQuantity) {
	if s.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := domain.OrderEvent{
		Type:      eventType,
		OrderID:   order.ID,
		Status:    order.Status,
		Total:     order.TotalPrice,
		Items:     lines,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		logging.FromContext(ctx).WithError(err).
			WithField("order_id", order.ID).
			WithField("event", eventType).
			Warn("failed to publish order event")
	}
}
