package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"cardapio-virtual/internal/domain"
)

const orderColumns = "id, status, total_price, created_at, updated_at"

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	if err := row.Scan(&order.ID, &order.Status, &order.TotalPrice, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, status, total_price FROM orders ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.OrderSummary{}
	for rows.Next() {
		var order domain.OrderSummary
		if err := rows.Scan(&order.ID, &order.Status, &order.TotalPrice); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	return order, err
}

func (r *PostgresRepository) GetOrderDetail(ctx context.Context, id int) (*domain.OrderDetail, error) {
	order, err := r.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT i.name, l.quantity, i.price
		FROM order_lines l
		JOIN menu_items i ON i.id = l.item_id
		WHERE l.order_id = $1
		ORDER BY l.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detail := &domain.OrderDetail{
		ID:         order.ID,
		Items:      []string{},
		Quantities: []int{},
		UnitPrices: []decimal.Decimal{},
		TotalPrice: order.TotalPrice,
	}
	for rows.Next() {
		var (
			name     string
			quantity int
			price    decimal.Decimal
		)
		if err := rows.Scan(&name, &quantity, &price); err != nil {
			return nil, err
		}
		detail.Items = append(detail.Items, name)
		detail.Quantities = append(detail.Quantities, quantity)
		detail.UnitPrices = append(detail.UnitPrices, price)
	}
	return detail, rows.Err()
}

// lockItemPrices loads the prices of the requested items, holding a share
// lock on their rows until the transaction ends. Unknown ids are reported
// through MissingItemsError.
func lockItemPrices(ctx context.Context, tx *sql.Tx, lines []domain.ItemQuantity) (map[int]decimal.Decimal, error) {
	ids := make([]int, len(lines))
	for i, line := range lines {
		ids[i] = line.ItemID
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT id, price FROM menu_items WHERE id = ANY($1) FOR SHARE", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make(map[int]decimal.Decimal, len(ids))
	for rows.Next() {
		var (
			id    int
			price decimal.Decimal
		)
		if err := rows.Scan(&id, &price); err != nil {
			return nil, err
		}
		prices[id] = price
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int
	for _, id := range ids {
		if _, ok := prices[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.MissingItemsError{IDs: missing}
	}
	return prices, nil
}

// CreateOrder validates every line's item and writes the order with its
// lines in one transaction. Nothing is written when an item is missing.
func (r *PostgresRepository) CreateOrder(ctx context.Context, status domain.OrderStatus, lines []domain.ItemQuantity) (*domain.Order, error) {
	var order *domain.Order
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		prices, err := lockItemPrices(ctx, tx, lines)
		if err != nil {
			return err
		}

		order, err = scanOrder(tx.QueryRowContext(ctx,
			"INSERT INTO orders (status, total_price) VALUES ($1, $2) RETURNING "+orderColumns,
			status, domain.OrderTotal(lines, prices)))
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, line := range lines {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO order_lines (order_id, item_id, quantity) VALUES ($1, $2, $3)",
				order.ID, line.ItemID, line.Quantity); err != nil {
				return fmt.Errorf("insert order line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING "+orderColumns,
		status, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	return order, err
}

// ReplaceOrderLines makes the order's lines match lines exactly and stores
// the recomputed total.
func (r *PostgresRepository) ReplaceOrderLines(ctx context.Context, id int, lines []domain.ItemQuantity) (*domain.Order, error) {
	var order *domain.Order
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		current, err := scanOrder(tx.QueryRowContext(ctx,
			"SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id))
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		prices, err := lockItemPrices(ctx, tx, lines)
		if err != nil {
			return err
		}

		keep := make([]int, len(lines))
		for i, line := range lines {
			keep[i] = line.ItemID
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM order_lines WHERE order_id = $1 AND NOT (item_id = ANY($2))",
			id, pq.Array(keep)); err != nil {
			return fmt.Errorf("remove order lines: %w", err)
		}

		for _, line := range lines {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO order_lines (order_id, item_id, quantity) VALUES ($1, $2, $3)
				ON CONFLICT (order_id, item_id) DO UPDATE SET quantity = EXCLUDED.quantity`,
				id, line.ItemID, line.Quantity); err != nil {
				return fmt.Errorf("upsert order line: %w", err)
			}
		}

		current.TotalPrice = domain.OrderTotal(lines, prices)
		if err := tx.QueryRowContext(ctx,
			"UPDATE orders SET total_price = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at",
			current.TotalPrice, id).Scan(&current.UpdatedAt); err != nil {
			return fmt.Errorf("update order total: %w", err)
		}
		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder removes the order and, by cascade, its lines. When allowed is
// not empty the order is only removed if its status is one of them; an order
// in any other status reports ErrOrderNotFound.
func (r *PostgresRepository) DeleteOrder(ctx context.Context, id int, allowed ...domain.OrderStatus) (*domain.Order, error) {
	var row *sql.Row
	if len(allowed) == 0 {
		row = r.DB.QueryRowContext(ctx,
			"DELETE FROM orders WHERE id = $1 RETURNING "+orderColumns, id)
	} else {
		statuses := make([]string, len(allowed))
		for i, status := range allowed {
			statuses[i] = string(status)
		}
		row = r.DB.QueryRowContext(ctx,
			"DELETE FROM orders WHERE id = $1 AND status = ANY($2) RETURNING "+orderColumns,
			id, pq.Array(statuses))
	}

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	return order, err
}
