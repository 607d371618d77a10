package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/plateup/ordering-api/internal/domain/order"
)

const (
	insertOrderShellSQL = `INSERT INTO orders (customer_id, restaurant_id, notes)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at, updated_at`

	// Scoped lookup: the item must belong to the order's restaurant.
	getMenuItemForOrderSQL = `SELECT id, name, price FROM menu_items
		WHERE id = $1 AND restaurant_id = $2`

	insertOrderLineSQL = `INSERT INTO order_lines (order_id, menu_item_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	setOrderTotalSQL = `UPDATE orders SET total = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	orderSelectSQL = `SELECT o.id, o.customer_id, COALESCE(p.display_name, ''),
			o.restaurant_id, r.owner_id, r.name,
			o.status, o.total, o.notes, o.created_at, o.updated_at
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		LEFT JOIN profiles p ON p.principal_id = o.customer_id`

	getOrderSQL = orderSelectSQL + ` WHERE o.id = $1`

	listOrdersSQL = orderSelectSQL + ` ORDER BY o.created_at DESC`

	listOrdersByCustomerSQL = orderSelectSQL + `
		WHERE o.customer_id = $1 ORDER BY o.created_at DESC`

	listOrdersByRestaurantOwnerSQL = orderSelectSQL + `
		WHERE r.owner_id = $1 ORDER BY o.created_at DESC`

	listOrderLinesSQL = `SELECT l.order_id, l.id, l.menu_item_id, m.name, l.quantity, l.price
		FROM order_lines l
		JOIN menu_items m ON m.id = l.menu_item_id
		WHERE l.order_id = ANY($1)
		ORDER BY l.id`

	updateOrderStatusSQL = `UPDATE orders SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`

	getOrderStatusSQL = `SELECT status FROM orders WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists an order with its lines in one transaction. Each line's
// menu item is resolved scoped to the draft's restaurant and its current
// price is copied into the line; the accumulated total is written last. Any
// failed lookup aborts the transaction so no partial order is ever durable.
func (r *OrderRepository) Create(ctx context.Context, d order.Draft) (*order.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	o := &order.Order{
		Customer: order.CustomerSummary{ID: d.CustomerID},
		Notes:    d.Notes,
		Lines:    make([]order.Line, 0, len(d.Lines)),
	}

	var status string
	err = tx.QueryRow(ctx, insertOrderShellSQL, d.CustomerID, d.RestaurantID, d.Notes).
		Scan(&o.ID, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order shell: %w", err)
	}
	o.Status = order.Status(status)

	total := decimal.Zero
	for _, req := range d.Lines {
		line := order.Line{
			MenuItemID: req.MenuItemID,
			Quantity:   req.Quantity,
		}

		var price decimal.Decimal
		err = tx.QueryRow(ctx, getMenuItemForOrderSQL, req.MenuItemID, d.RestaurantID).
			Scan(&line.MenuItemID, &line.Name, &price)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &order.MenuItemNotFoundError{MenuItemID: req.MenuItemID}
			}
			return nil, fmt.Errorf("resolve menu item %d: %w", req.MenuItemID, err)
		}
		line.Price = price

		err = tx.QueryRow(ctx, insertOrderLineSQL, o.ID, line.MenuItemID, line.Quantity, line.Price).
			Scan(&line.ID)
		if err != nil {
			return nil, fmt.Errorf("insert order line for item %d: %w", req.MenuItemID, err)
		}

		o.Lines = append(o.Lines, line)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(req.Quantity))))
	}

	if err := tx.QueryRow(ctx, setOrderTotalSQL, o.ID, total).Scan(&o.UpdatedAt); err != nil {
		return nil, fmt.Errorf("set order total: %w", err)
	}
	o.Total = total

	// Fill the output summaries before releasing the transaction so the
	// returned aggregate is consistent with what was committed.
	err = tx.QueryRow(ctx,
		`SELECT r.id, r.owner_id, r.name, COALESCE(p.display_name, '')
			FROM restaurants r
			LEFT JOIN profiles p ON p.principal_id = $2
			WHERE r.id = $1`,
		d.RestaurantID, d.CustomerID,
	).Scan(&o.Restaurant.ID, &o.Restaurant.OwnerID, &o.Restaurant.Name, &o.Customer.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("load order summaries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}
	return o, nil
}

// GetByID returns one order with its lines.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	if err := r.attachLines(ctx, []*order.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListAll returns every order, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Order, error) {
	return r.list(ctx, listOrdersSQL)
}

// ListByCustomer returns the orders placed by one customer.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	return r.list(ctx, listOrdersByCustomerSQL, customerID)
}

// ListByRestaurantOwner returns the orders of all restaurants one principal
// owns.
func (r *OrderRepository) ListByRestaurantOwner(ctx context.Context, ownerID string) ([]order.Order, error) {
	return r.list(ctx, listOrdersByRestaurantOwnerSQL, ownerID)
}

func (r *OrderRepository) list(ctx context.Context, sql string, args ...any) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	refs := make([]*order.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.attachLines(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachLines loads the lines for all given orders in one query.
func (r *OrderRepository) attachLines(ctx context.Context, orders []*order.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]*order.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	rows, err := r.pool.Query(ctx, listOrderLinesSQL, ids)
	if err != nil {
		return fmt.Errorf("listing order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			line    order.Line
			price   decimal.Decimal
		)
		if err := rows.Scan(&orderID, &line.ID, &line.MenuItemID, &line.Name, &line.Quantity, &price); err != nil {
			return fmt.Errorf("scanning order line: %w", err)
		}
		line.Price = price
		byID[orderID].Lines = append(byID[orderID].Lines, line)
	}
	return rows.Err()
}

// UpdateStatus applies the new status only when the stored status still
// equals from, so concurrent transition attempts cannot overwrite each
// other. A failed precondition reports order.ErrStatusConflict; a missing
// order reports order.ErrOrderNotFound.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, from, to order.Status) (*order.Order, error) {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("updating status of order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		var current string
		err := r.pool.QueryRow(ctx, getOrderStatusSQL, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("checking status of order %d: %w", id, err)
		}
		return nil, errors.Wrapf(order.ErrStatusConflict, "expected %s, found %s", from, current)
	}

	return r.GetByID(ctx, id)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		status string
		total  decimal.Decimal
	)
	err := row.Scan(
		&o.ID,
		&o.Customer.ID, &o.Customer.DisplayName,
		&o.Restaurant.ID, &o.Restaurant.OwnerID, &o.Restaurant.Name,
		&status, &total, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	o.Status = order.Status(status)
	o.Total = total
	return o, err
}
