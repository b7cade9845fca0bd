package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cardapio-virtual/internal/domain"
	"cardapio-virtual/internal/mocks"
)

func TestOrderService_Place(t *testing.T) {
	tests := []struct {
		name       string
		itemIDs    []int
		status     domain.OrderStatus
		setupMocks func(*mocks.OrderRepository, *mocks.EventPublisher)
		wantErr    error
	}{
		{
			name:    "repeated ids become quantities",
			itemIDs: []int{1, 2, 1},
			status:  domain.StatusPreOrder,
			setupMocks: func(repo *mocks.OrderRepository, publisher *mocks.EventPublisher) {
				lines := []domain.ItemQuantity{{ItemID: 1, Quantity: 2}, {ItemID: 2, Quantity: 1}}
				repo.On("CreateOrder", mock.Anything, domain.StatusPreOrder, lines).
					Return(&domain.Order{ID: 8, Status: domain.StatusPreOrder, TotalPrice: decimal.NewFromInt(25)}, nil).Once()
				publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
					return e.Type == domain.EventOrderPlaced && e.OrderID == 8 && len(e.Items) == 2
				})).Return(nil).Once()
			},
		},
		{
			name:       "empty item list",
			itemIDs:    nil,
			status:     domain.StatusPreOrder,
			setupMocks: func(*mocks.OrderRepository, *mocks.EventPublisher) {},
			wantErr:    domain.ErrInvalidOrder,
		},
		{
			name:       "unknown status",
			itemIDs:    []int{1},
			status:     domain.OrderStatus("PRONTO"),
			setupMocks: func(*mocks.OrderRepository, *mocks.EventPublisher) {},
			wantErr:    domain.ErrInvalidStatus,
		},
		{
			name:    "missing items",
			itemIDs: []int{1, 9},
			status:  domain.StatusPending,
			setupMocks: func(repo *mocks.OrderRepository, publisher *mocks.EventPublisher) {
				repo.On("CreateOrder", mock.Anything, domain.StatusPending, mock.Anything).
					Return(nil, &domain.MissingItemsError{IDs: []int{9}}).Once()
			},
			wantErr: domain.ErrItemNotFound,
		},
		{
			name:    "publish failure does not fail the order",
			itemIDs: []int{4},
			status:  domain.StatusPending,
			setupMocks: func(repo *mocks.OrderRepository, publisher *mocks.EventPublisher) {
				repo.On("CreateOrder", mock.Anything, domain.StatusPending, mock.Anything).
					Return(&domain.Order{ID: 8, Status: domain.StatusPending}, nil).Once()
				publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(assert.AnError).Once()
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewOrderRepository(t)
			publisher := mocks.NewEventPublisher(t)
			testCase.setupMocks(repo, publisher)

			order, err := NewOrderService(repo, publisher, nil).Place(context.Background(), testCase.itemIDs, testCase.status)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, order)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 8, order.ID)
			}
			repo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestOrderService_Update(t *testing.T) {
	t.Run("replaces lines", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		lines := []domain.ItemQuantity{{ItemID: 3, Quantity: 2}}
		repo.On("ReplaceOrderLines", mock.Anything, 7, lines).Return(&domain.Order{ID: 7}, nil).Once()

		outcome, err := NewOrderService(repo, nil, nil).Update(context.Background(), 7, []int{3, 3})

		require.NoError(t, err)
		assert.Equal(t, domain.OrderUpdated, outcome)
		repo.AssertExpectations(t)
	})

	t.Run("empty list deletes the order", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		publisher := mocks.NewEventPublisher(t)
		repo.On("DeleteOrder", mock.Anything, 7, []domain.OrderStatus(nil)).Return(&domain.Order{ID: 7}, nil).Once()
		publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
			return e.Type == domain.EventOrderDeleted && e.OrderID == 7
		})).Return(nil).Once()

		outcome, err := NewOrderService(repo, publisher, nil).Update(context.Background(), 7, []int{})

		require.NoError(t, err)
		assert.Equal(t, domain.OrderDeletedEmpty, outcome)
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("unknown order", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		repo.On("ReplaceOrderLines", mock.Anything, 70, mock.Anything).Return(nil, domain.ErrOrderNotFound).Once()

		_, err := NewOrderService(repo, nil, nil).Update(context.Background(), 70, []int{1})

		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	repo := mocks.NewOrderRepository(t)
	repo.On("UpdateOrderStatus", mock.Anything, 2, domain.StatusDelivered).
		Return(&domain.Order{ID: 2, Status: domain.StatusDelivered}, nil).Once()
	svc := NewOrderService(repo, nil, nil)

	order, err := svc.UpdateStatus(context.Background(), 2, domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, order.Status)

	_, err = svc.UpdateStatus(context.Background(), 2, domain.OrderStatus("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	repo.AssertExpectations(t)
}

func TestOrderService_Delete(t *testing.T) {
	allowed := []domain.OrderStatus{domain.StatusDelivered, domain.StatusCancelled}

	tests := []struct {
		name      string
		mockOrder *domain.Order
		mockError error
		wantErr   error
	}{
		{name: "delivered order", mockOrder: &domain.Order{ID: 1, Status: domain.StatusDelivered}},
		{name: "open order is reported as not found", mockError: domain.ErrOrderNotFound, wantErr: domain.ErrOrderNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewOrderRepository(t)
			repo.On("DeleteOrder", mock.Anything, 1, allowed).Return(testCase.mockOrder, testCase.mockError).Once()

			err := NewOrderService(repo, nil, nil).Delete(context.Background(), 1)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestOrderService_QRCode(t *testing.T) {
	t.Run("existing order", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		qr := mocks.NewQRGenerator(t)
		repo.On("GetOrder", mock.Anything, 4).Return(&domain.Order{ID: 4}, nil).Once()
		qr.On("Generate", 4).Return([]byte("png"), nil).Once()

		png, err := NewOrderService(repo, nil, qr).QRCode(context.Background(), 4)

		require.NoError(t, err)
		assert.Equal(t, []byte("png"), png)
		qr.AssertExpectations(t)
	})

	t.Run("unknown order", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		qr := mocks.NewQRGenerator(t)
		repo.On("GetOrder", mock.Anything, 4).Return(nil, domain.ErrOrderNotFound).Once()

		_, err := NewOrderService(repo, nil, qr).QRCode(context.Background(), 4)

		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
		qr.AssertNotCalled(t, "Generate", mock.Anything)
	})
}

func TestDefaultQRGenerator(t *testing.T) {
	gen := DefaultQRGenerator{BaseURL: "http://localhost:8000/"}
	png, err := gen.Generate(123)

	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
