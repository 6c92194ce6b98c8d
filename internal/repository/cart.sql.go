package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const cartColumns = `id, user_id, created_at, updated_at`

const cartItemColumns = `id, cart_id, product_id, quantity, version, created_at, updated_at`

func scanCart(row interface{ Scan(...any) error }) (Cart, error) {
	var i Cart
	err := row.Scan(&i.ID, &i.UserID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func scanCartItem(row interface{ Scan(...any) error }) (CartItem, error) {
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.ProductID,
		&i.Quantity,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertCart = `-- name: UpsertCart :one
INSERT INTO carts (id, user_id)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
RETURNING ` + cartColumns

type UpsertCartParams struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
}

func (q *Queries) UpsertCart(c context.Context, arg UpsertCartParams) (Cart, error) {
	row := q.db.QueryRow(c, upsertCart, arg.ID, arg.UserID)
	return scanCart(row)
}

const findCartById = `-- name: FindCartById :one
SELECT ` + cartColumns + `
FROM carts
WHERE id = $1
`

func (q *Queries) FindCartById(c context.Context, id uuid.UUID) (Cart, error) {
	row := q.db.QueryRow(c, findCartById, id)
	return scanCart(row)
}

const findCartByUserId = `-- name: FindCartByUserId :one
SELECT ` + cartColumns + `
FROM carts
WHERE user_id = $1
`

func (q *Queries) FindCartByUserId(c context.Context, userID uuid.UUID) (Cart, error) {
	row := q.db.QueryRow(c, findCartByUserId, userID)
	return scanCart(row)
}

const findCartByUserIdForUpdate = `-- name: FindCartByUserIdForUpdate :one
SELECT ` + cartColumns + `
FROM carts
WHERE user_id = $1
FOR UPDATE
`

func (q *Queries) FindCartByUserIdForUpdate(c context.Context, userID uuid.UUID) (Cart, error) {
	row := q.db.QueryRow(c, findCartByUserIdForUpdate, userID)
	return scanCart(row)
}

const findCartItem = `-- name: FindCartItem :one
SELECT ` + cartItemColumns + `
FROM cart_items
WHERE cart_id = $1 AND product_id = $2
`

type FindCartItemParams struct {
	CartID    uuid.UUID `json:"cart_id"`
	ProductID uuid.UUID `json:"product_id"`
}

func (q *Queries) FindCartItem(c context.Context, arg FindCartItemParams) (CartItem, error) {
	row := q.db.QueryRow(c, findCartItem, arg.CartID, arg.ProductID)
	return scanCartItem(row)
}

const findCartItemForUpdate = `-- name: FindCartItemForUpdate :one
SELECT ` + cartItemColumns + `
FROM cart_items
WHERE cart_id = $1 AND product_id = $2
FOR UPDATE
`

func (q *Queries) FindCartItemForUpdate(
	c context.Context,
	arg FindCartItemParams,
) (CartItem, error) {
	row := q.db.QueryRow(c, findCartItemForUpdate, arg.CartID, arg.ProductID)
	return scanCartItem(row)
}

const findCartItemsByCartIdForUpdate = `-- name: FindCartItemsByCartIdForUpdate :many
SELECT ` + cartItemColumns + `
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at, id
FOR UPDATE
`

func (q *Queries) FindCartItemsByCartIdForUpdate(
	c context.Context,
	cartID uuid.UUID,
) ([]CartItem, error) {
	rows, err := q.db.Query(c, findCartItemsByCartIdForUpdate, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CartItem{}
	for rows.Next() {
		i, err := scanCartItem(rows)
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

const findCartItemViewsByUserId = `-- name: FindCartItemViewsByUserId :many
SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.image_url, ci.quantity, p.price
FROM carts c
JOIN cart_items ci ON ci.cart_id = c.id
JOIN products p ON p.id = ci.product_id
WHERE c.user_id = $1
ORDER BY ci.created_at, ci.id
`

type FindCartItemViewsByUserIdRow struct {
	CartItemID   uuid.UUID      `json:"cart_item_id"`
	CartID       uuid.UUID      `json:"cart_id"`
	ProductID    uuid.UUID      `json:"product_id"`
	ProductName  string         `json:"product_name"`
	ProductImage string         `json:"product_image"`
	Quantity     int32          `json:"quantity"`
	Price        pgtype.Numeric `json:"price"`
}

func (q *Queries) FindCartItemViewsByUserId(
	c context.Context,
	userID uuid.UUID,
) ([]FindCartItemViewsByUserIdRow, error) {
	rows, err := q.db.Query(c, findCartItemViewsByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindCartItemViewsByUserIdRow{}
	for rows.Next() {
		var i FindCartItemViewsByUserIdRow
		if err := rows.Scan(
			&i.CartItemID,
			&i.CartID,
			&i.ProductID,
			&i.ProductName,
			&i.ProductImage,
			&i.Quantity,
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

const incrementCartItem = `-- name: IncrementCartItem :one
INSERT INTO cart_items (id, cart_id, product_id, quantity)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = cart_items.quantity + excluded.quantity,
    version = cart_items.version + 1,
    updated_at = now()
RETURNING ` + cartItemColumns

type IncrementCartItemParams struct {
	ID        uuid.UUID `json:"id"`
	CartID    uuid.UUID `json:"cart_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int32     `json:"quantity"`
}

func (q *Queries) IncrementCartItem(
	c context.Context,
	arg IncrementCartItemParams,
) (CartItem, error) {
	row := q.db.QueryRow(c, incrementCartItem, arg.ID, arg.CartID, arg.ProductID, arg.Quantity)
	return scanCartItem(row)
}

const insertCartItem = `-- name: InsertCartItem :one
INSERT INTO cart_items (id, cart_id, product_id, quantity)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cart_id, product_id) DO NOTHING
RETURNING ` + cartItemColumns

type InsertCartItemParams struct {
	ID        uuid.UUID `json:"id"`
	CartID    uuid.UUID `json:"cart_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int32     `json:"quantity"`
}

func (q *Queries) InsertCartItem(c context.Context, arg InsertCartItemParams) (CartItem, error) {
	row := q.db.QueryRow(c, insertCartItem, arg.ID, arg.CartID, arg.ProductID, arg.Quantity)
	return scanCartItem(row)
}

const updateCartItemQuantity = `-- name: UpdateCartItemQuantity :one
UPDATE cart_items
SET quantity = $2,
    version = version + 1,
    updated_at = now()
WHERE id = $1 AND version = $3
RETURNING ` + cartItemColumns

type UpdateCartItemQuantityParams struct {
	ID       uuid.UUID `json:"id"`
	Quantity int32     `json:"quantity"`
	Version  int32     `json:"version"`
}

func (q *Queries) UpdateCartItemQuantity(
	c context.Context,
	arg UpdateCartItemQuantityParams,
) (CartItem, error) {
	row := q.db.QueryRow(c, updateCartItemQuantity, arg.ID, arg.Quantity, arg.Version)
	return scanCartItem(row)
}

const deleteCartItem = `-- name: DeleteCartItem :execrows
DELETE FROM cart_items
WHERE id = $1 AND version = $2
`

type DeleteCartItemParams struct {
	ID      uuid.UUID `json:"id"`
	Version int32     `json:"version"`
}

func (q *Queries) DeleteCartItem(c context.Context, arg DeleteCartItemParams) (int64, error) {
	result, err := q.db.Exec(c, deleteCartItem, arg.ID, arg.Version)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteCartItemsByCartId = `-- name: DeleteCartItemsByCartId :execrows
DELETE FROM cart_items
WHERE cart_id = $1
`

func (q *Queries) DeleteCartItemsByCartId(c context.Context, cartID uuid.UUID) (int64, error) {
	result, err := q.db.Exec(c, deleteCartItemsByCartId, cartID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
