package service

import (
	"context"
	"io"

	"cardapio-virtual/internal/domain"
)

type MenuRepository interface {
	ListItems(ctx context.Context, category string) ([]domain.MenuItem, error)
	GetItem(ctx context.Context, id int) (*domain.MenuItem, error)
	GetItemsByIDs(ctx context.Context, ids []int) ([]domain.MenuItem, error)
	ListCategories(ctx context.Context) ([]string, error)
	NextItemID(ctx context.Context) (int, error)
	CreateItem(ctx context.Context, item *domain.MenuItem) error
	UpdateItem(ctx context.Context, id int, patch domain.ItemPatch) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, id int) (*domain.MenuItem, error)
}

type OrderRepository interface {
	ListOrders(ctx context.Context) ([]domain.OrderSummary, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	GetOrderDetail(ctx context.Context, id int) (*domain.OrderDetail, error)
	CreateOrder(ctx context.Context, status domain.OrderStatus, lines []domain.ItemQuantity) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error)
	ReplaceOrderLines(ctx context.Context, id int, lines []domain.ItemQuantity) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int, allowed ...domain.OrderStatus) (*domain.Order, error)
}

type ImageStore interface {
	Save(itemID int, filename string, content io.Reader) (string, int64, error)
	Remove(url string) error
}

type CategoryCache interface {
	GetCategories(ctx context.Context) ([]string, bool, error)
	SetCategories(ctx context.Context, categories []string) error
	InvalidateCategories(ctx context.Context) error
}

type Ranking interface {
	Increment(ctx context.Context, itemID, by int) error
	Remove(ctx context.Context, itemID int) error
	Top(ctx context.Context, n int) ([]domain.ItemScore, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type MenuServiceInterface interface {
	List(ctx context.Context, category string) ([]domain.MenuItem, error)
	Get(ctx context.Context, id int) (*domain.MenuItem, error)
	Create(ctx context.Context, input domain.NewItem, upload *domain.ImageUpload) (*domain.MenuItem, error)
	Update(ctx context.Context, id int, patch domain.ItemPatch, upload *domain.ImageUpload) (*domain.MenuItem, error)
	Delete(ctx context.Context, id int) error
	Categories(ctx context.Context) ([]string, error)
}

type OrderServiceInterface interface {
	List(ctx context.Context) ([]domain.OrderSummary, error)
	Detail(ctx context.Context, id int) (*domain.OrderDetail, error)
	Place(ctx context.Context, itemIDs []int, status domain.OrderStatus) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error)
	Update(ctx context.Context, id int, itemIDs []int) (domain.OrderUpdateOutcome, error)
	Delete(ctx context.Context, id int) error
	QRCode(ctx context.Context, id int) ([]byte, error)
}

type PopularityServiceInterface interface {
	Top(ctx context.Context, n int) ([]domain.PopularItem, error)
}

var (
	_ MenuServiceInterface       = (*MenuService)(nil)
	_ OrderServiceInterface      = (*OrderService)(nil)
	_ PopularityServiceInterface = (*PopularityService)(nil)
)
