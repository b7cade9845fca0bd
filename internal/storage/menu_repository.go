package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"cardapio-virtual/internal/domain"
)

const menuItemColumns = "id, name, description, price, category, image_url"

func scanMenuItem(row rowScanner) (*domain.MenuItem, error) {
	var item domain.MenuItem
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.ImageURL); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) queryMenuItems(ctx context.Context, query string, args ...any) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ListItems(ctx context.Context, category string) ([]domain.MenuItem, error) {
	if category == "" {
		return r.queryMenuItems(ctx, "SELECT "+menuItemColumns+" FROM menu_items ORDER BY id")
	}
	return r.queryMenuItems(ctx,
		"SELECT "+menuItemColumns+` FROM menu_items WHERE category ILIKE $1 ESCAPE '\' ORDER BY id`,
		containsPattern(category))
}

func (r *PostgresRepository) GetItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	item, err := scanMenuItem(r.DB.QueryRowContext(ctx,
		"SELECT "+menuItemColumns+" FROM menu_items WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	return item, err
}

func (r *PostgresRepository) GetItemsByIDs(ctx context.Context, ids []int) ([]domain.MenuItem, error) {
	if len(ids) == 0 {
		return []domain.MenuItem{}, nil
	}
	return r.queryMenuItems(ctx,
		"SELECT "+menuItemColumns+" FROM menu_items WHERE id = ANY($1) ORDER BY id", pq.Array(ids))
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT DISTINCT UPPER(category) AS category FROM menu_items ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// NextItemID reserves an id from the menu_items sequence. Reserved ids are
// never handed out twice, even when the insert that follows fails.
func (r *PostgresRepository) NextItemID(ctx context.Context) (int, error) {
	var id int
	err := r.DB.QueryRowContext(ctx,
		"SELECT nextval(pg_get_serial_sequence('menu_items', 'id'))").Scan(&id)
	return id, err
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *domain.MenuItem) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO menu_items ("+menuItemColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		item.ID, item.Name, item.Description, item.Price, item.Category, item.ImageURL)
	return err
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, id int, patch domain.ItemPatch) (*domain.MenuItem, error) {
	var updated domain.MenuItem
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		current, err := scanMenuItem(tx.QueryRowContext(ctx,
			"SELECT "+menuItemColumns+" FROM menu_items WHERE id = $1 FOR UPDATE", id))
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrItemNotFound
		}
		if err != nil {
			return err
		}

		updated = patch.Apply(*current)
		_, err = tx.ExecContext(ctx, `
			UPDATE menu_items
			SET name = $1, description = $2, price = $3, category = $4, image_url = $5
			WHERE id = $6`,
			updated.Name, updated.Description, updated.Price, updated.Category, updated.ImageURL, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem removes an item that no order line references and returns the
// deleted row.
func (r *PostgresRepository) DeleteItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	var deleted *domain.MenuItem
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var referenced bool
		if err := tx.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM order_lines WHERE item_id = $1)", id).Scan(&referenced); err != nil {
			return err
		}
		if referenced {
			return domain.ErrItemInUse
		}

		item, err := scanMenuItem(tx.QueryRowContext(ctx,
			"DELETE FROM menu_items WHERE id = $1 RETURNING "+menuItemColumns, id))
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return domain.ErrItemNotFound
		case isForeignKeyViolation(err):
			return domain.ErrItemInUse
		case err != nil:
			return fmt.Errorf("delete item %d: %w", id, err)
		}
		deleted = item
		return nil
	})
	return deleted, err
}
