package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getOrder = `-- name: GetOrder :one
SELECT id, outlet_id, table_number, status, created_at, updated_at FROM orders
WHERE id = $1 AND outlet_id = $2
`

type GetOrderParams struct {
	ID       uuid.UUID `json:"id"`
	OutletID uuid.UUID `json:"outlet_id"`
}

func (q *Queries) GetOrder(ctx context.Context, arg GetOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, arg.ID, arg.OutletID)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.OutletID,
		&i.TableNumber,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (outlet_id, table_number)
VALUES ($1, $2)
RETURNING id, outlet_id, table_number, status, created_at, updated_at
`

type CreateOrderParams struct {
	OutletID    uuid.UUID   `json:"outlet_id"`
	TableNumber pgtype.Text `json:"table_number"`
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder, arg.OutletID, arg.TableNumber)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.OutletID,
		&i.TableNumber,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const orderItemColumns = `id, order_id, inventory_item_id, item_id, item_relation_id, name, unit_price, quantity, status, notes, toppings, is_topping, parent_item_id, combo_ref, created_at, updated_at`

func scanOrderItem(row interface{ Scan(...interface{}) error }, i *OrderItem) error {
	return row.Scan(
		&i.ID,
		&i.OrderID,
		&i.InventoryItemID,
		&i.ItemID,
		&i.ItemRelationID,
		&i.Name,
		&i.UnitPrice,
		&i.Quantity,
		&i.Status,
		&i.Notes,
		&i.Toppings,
		&i.IsTopping,
		&i.ParentItemID,
		&i.ComboRef,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}

const listOrderItemsByOrder = `-- name: ListOrderItemsByOrder :many
SELECT ` + orderItemColumns + ` FROM order_items
WHERE order_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		var i OrderItem
		if err := scanOrderItem(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listOrderItemsByOutletAndStatus = `-- name: ListOrderItemsByOutletAndStatus :many
SELECT oi.id, oi.order_id, oi.inventory_item_id, oi.item_id, oi.item_relation_id, oi.name, oi.unit_price, oi.quantity, oi.status, oi.notes, oi.toppings, oi.is_topping, oi.parent_item_id, oi.combo_ref, oi.created_at, oi.updated_at,
       o.table_number AS order_table_number, o.created_at AS order_created_at
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE o.outlet_id = $1 AND o.status = 'OPEN' AND oi.status = $2
ORDER BY o.created_at, oi.created_at, oi.id
`

type ListOrderItemsByOutletAndStatusParams struct {
	OutletID uuid.UUID `json:"outlet_id"`
	Status   string    `json:"status"`
}

type ListOrderItemsByOutletAndStatusRow struct {
	OrderItem
	OrderTableNumber pgtype.Text        `json:"order_table_number"`
	OrderCreatedAt   pgtype.Timestamptz `json:"order_created_at"`
}

func (q *Queries) ListOrderItemsByOutletAndStatus(ctx context.Context, arg ListOrderItemsByOutletAndStatusParams) ([]ListOrderItemsByOutletAndStatusRow, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOutletAndStatus, arg.OutletID, arg.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListOrderItemsByOutletAndStatusRow{}
	for rows.Next() {
		var i ListOrderItemsByOutletAndStatusRow
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.InventoryItemID,
			&i.ItemID,
			&i.ItemRelationID,
			&i.Name,
			&i.UnitPrice,
			&i.Quantity,
			&i.Status,
			&i.Notes,
			&i.Toppings,
			&i.IsTopping,
			&i.ParentItemID,
			&i.ComboRef,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.OrderTableNumber,
			&i.OrderCreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateOrderItemStatus = `-- name: UpdateOrderItemStatus :one
UPDATE order_items oi SET status = $4, updated_at = now()
FROM orders o
WHERE oi.id = $1 AND oi.order_id = $2 AND oi.status = $3
  AND o.id = oi.order_id AND o.status = 'OPEN'
RETURNING oi.id, oi.order_id, oi.inventory_item_id, oi.item_id, oi.item_relation_id, oi.name, oi.unit_price, oi.quantity, oi.status, oi.notes, oi.toppings, oi.is_topping, oi.parent_item_id, oi.combo_ref, oi.created_at, oi.updated_at
`

// UpdateOrderItemStatusParams moves one record from FromStatus to ToStatus.
// No row is returned when the record no longer has FromStatus.
type UpdateOrderItemStatusParams struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"order_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
}

func (q *Queries) UpdateOrderItemStatus(ctx context.Context, arg UpdateOrderItemStatusParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, updateOrderItemStatus,
		arg.ID,
		arg.OrderID,
		arg.FromStatus,
		arg.ToStatus,
	)
	var i OrderItem
	err := scanOrderItem(row, &i)
	return i, err
}

const createOrderItem = `-- name: CreateOrderItem :one
INSERT INTO order_items (
    order_id, inventory_item_id, item_id, item_relation_id, name, unit_price,
    quantity, status, notes, toppings, is_topping, parent_item_id, combo_ref
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + orderItemColumns + `
`

type CreateOrderItemParams struct {
	OrderID         uuid.UUID      `json:"order_id"`
	InventoryItemID pgtype.Text    `json:"inventory_item_id"`
	ItemID          pgtype.Text    `json:"item_id"`
	ItemRelationID  pgtype.Text    `json:"item_relation_id"`
	Name            pgtype.Text    `json:"name"`
	UnitPrice       pgtype.Numeric `json:"unit_price"`
	Quantity        int32          `json:"quantity"`
	Status          string         `json:"status"`
	Notes           pgtype.Text    `json:"notes"`
	Toppings        []string       `json:"toppings"`
	IsTopping       bool           `json:"is_topping"`
	ParentItemID    pgtype.Text    `json:"parent_item_id"`
	ComboRef        pgtype.Text    `json:"combo_ref"`
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	toppings := arg.Toppings
	if toppings == nil {
		toppings = []string{}
	}
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID,
		arg.InventoryItemID,
		arg.ItemID,
		arg.ItemRelationID,
		arg.Name,
		arg.UnitPrice,
		arg.Quantity,
		arg.Status,
		arg.Notes,
		toppings,
		arg.IsTopping,
		arg.ParentItemID,
		arg.ComboRef,
	)
	var i OrderItem
	err := scanOrderItem(row, &i)
	return i, err
}

const listOrderCombosByOrder = `-- name: ListOrderCombosByOrder :many
SELECT id, order_id, combo_ref, name, price FROM order_combos
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) ListOrderCombosByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderCombo, error) {
	rows, err := q.db.Query(ctx, listOrderCombosByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderCombo{}
	for rows.Next() {
		var i OrderCombo
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.ComboRef,
			&i.Name,
			&i.Price,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createOrderCombo = `-- name: CreateOrderCombo :one
INSERT INTO order_combos (order_id, combo_ref, name, price)
VALUES ($1, $2, $3, $4)
RETURNING id, order_id, combo_ref, name, price
`

type CreateOrderComboParams struct {
	OrderID  uuid.UUID      `json:"order_id"`
	ComboRef string         `json:"combo_ref"`
	Name     string         `json:"name"`
	Price    pgtype.Numeric `json:"price"`
}

func (q *Queries) CreateOrderCombo(ctx context.Context, arg CreateOrderComboParams) (OrderCombo, error) {
	row := q.db.QueryRow(ctx, createOrderCombo,
		arg.OrderID,
		arg.ComboRef,
		arg.Name,
		arg.Price,
	)
	var i OrderCombo
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.ComboRef,
		&i.Name,
		&i.Price,
	)
	return i, err
}
