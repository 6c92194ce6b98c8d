package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, user_id, status, total_amount, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Status,
		&i.TotalAmount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertOrder = `-- name: InsertOrder :one
INSERT INTO orders (id, user_id, status, total_amount)
VALUES ($1, $2, $3, $4)
RETURNING ` + orderColumns

type InsertOrderParams struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Status      OrderStatus    `json:"status"`
	TotalAmount pgtype.Numeric `json:"total_amount"`
}

func (q *Queries) InsertOrder(c context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(c, insertOrder, arg.ID, arg.UserID, arg.Status, arg.TotalAmount)
	return scanOrder(row)
}

type InsertOrderDetailsParams struct {
	ID        uuid.UUID      `json:"id"`
	OrderID   uuid.UUID      `json:"order_id"`
	ProductID uuid.UUID      `json:"product_id"`
	Quantity  int32          `json:"quantity"`
	UnitPrice pgtype.Numeric `json:"unit_price"`
}

type iteratorForInsertOrderDetails struct {
	rows                 []InsertOrderDetailsParams
	skippedFirstNextCall bool
}

func (r *iteratorForInsertOrderDetails) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForInsertOrderDetails) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].ID,
		r.rows[0].OrderID,
		r.rows[0].ProductID,
		r.rows[0].Quantity,
		r.rows[0].UnitPrice,
	}, nil
}

func (r iteratorForInsertOrderDetails) Err() error {
	return nil
}

func (q *Queries) InsertOrderDetails(
	c context.Context,
	arg []InsertOrderDetailsParams,
) (int64, error) {
	return q.db.CopyFrom(
		c,
		pgx.Identifier{"order_details"},
		[]string{"id", "order_id", "product_id", "quantity", "unit_price"},
		&iteratorForInsertOrderDetails{rows: arg},
	)
}

const findOrderById = `-- name: FindOrderById :one
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`

func (q *Queries) FindOrderById(c context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(c, findOrderById, id)
	return scanOrder(row)
}

const findOrdersByUserId = `-- name: FindOrdersByUserId :many
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC, id
`

func (q *Queries) FindOrdersByUserId(c context.Context, userID uuid.UUID) ([]Order, error) {
	rows, err := q.db.Query(c, findOrdersByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Order{}
	for rows.Next() {
		i, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findOrderDetailsByOrderId = `-- name: FindOrderDetailsByOrderId :many
SELECT id, order_id, product_id, quantity, unit_price, created_at
FROM order_details
WHERE order_id = $1
ORDER BY created_at, id
`

func (q *Queries) FindOrderDetailsByOrderId(
	c context.Context,
	orderID uuid.UUID,
) ([]OrderDetail, error) {
	rows, err := q.db.Query(c, findOrderDetailsByOrderId, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderDetail{}
	for rows.Next() {
		var i OrderDetail
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.ProductID,
			&i.Quantity,
			&i.UnitPrice,
			&i.CreatedAt,
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

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders
SET status = $3,
    updated_at = now()
WHERE id = $1 AND status = $2
RETURNING ` + orderColumns

type UpdateOrderStatusParams struct {
	ID         uuid.UUID   `json:"id"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status"`
}

func (q *Queries) UpdateOrderStatus(c context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(c, updateOrderStatus, arg.ID, arg.FromStatus, arg.ToStatus)
	return scanOrder(row)
}
