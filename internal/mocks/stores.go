package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"cardapio-virtual/internal/domain"
)

type ImageStore struct {
	mock.Mock
}

func NewImageStore(t mock.TestingT) *ImageStore {
	m := &ImageStore{}
	m.Test(t)
	return m
}

func (m *ImageStore) Save(itemID int, filename string, content io.Reader) (string, int64, error) {
	args := m.Called(itemID, filename, content)
	written, _ := args.Get(1).(int64)
	return args.String(0), written, args.Error(2)
}

func (m *ImageStore) Remove(url string) error {
	return m.Called(url).Error(0)
}

type CategoryCache struct {
	mock.Mock
}

func NewCategoryCache(t mock.TestingT) *CategoryCache {
	m := &CategoryCache{}
	m.Test(t)
	return m
}

func (m *CategoryCache) GetCategories(ctx context.Context) ([]string, bool, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]string)
	return categories, args.Bool(1), args.Error(2)
}

func (m *CategoryCache) SetCategories(ctx context.Context, categories []string) error {
	return m.Called(ctx, categories).Error(0)
}

func (m *CategoryCache) InvalidateCategories(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type Ranking struct {
	mock.Mock
}

func NewRanking(t mock.TestingT) *Ranking {
	m := &Ranking{}
	m.Test(t)
	return m
}

func (m *Ranking) Increment(ctx context.Context, itemID, by int) error {
	return m.Called(ctx, itemID, by).Error(0)
}

func (m *Ranking) Remove(ctx context.Context, itemID int) error {
	return m.Called(ctx, itemID).Error(0)
}

func (m *Ranking) Top(ctx context.Context, n int) ([]domain.ItemScore, error) {
	args := m.Called(ctx, n)
	scores, _ := args.Get(0).([]domain.ItemScore)
	return scores, args.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t mock.TestingT) *EventPublisher {
	m := &EventPublisher{}
	m.Test(t)
	return m
}

func (m *EventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t mock.TestingT) *QRGenerator {
	m := &QRGenerator{}
	m.Test(t)
	return m
}

func (m *QRGenerator) Generate(orderID int) ([]byte, error) {
	args := m.Called(orderID)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}
