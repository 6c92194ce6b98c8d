package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, name, description, price, brand, category, stock_quantity, image_url, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.Brand,
		&i.Category,
		&i.StockQuantity,
		&i.ImageUrl,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertProduct = `-- name: InsertProduct :one
INSERT INTO products (id, name, description, price, brand, category, stock_quantity, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + productColumns

type InsertProductParams struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Price         pgtype.Numeric `json:"price"`
	Brand         string         `json:"brand"`
	Category      string         `json:"category"`
	StockQuantity int32          `json:"stock_quantity"`
	ImageUrl      string         `json:"image_url"`
}

func (q *Queries) InsertProduct(c context.Context, arg InsertProductParams) (Product, error) {
	row := q.db.QueryRow(c, insertProduct,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Brand,
		arg.Category,
		arg.StockQuantity,
		arg.ImageUrl,
	)
	return scanProduct(row)
}

const findProducts = `-- name: FindProducts :many
SELECT ` + productColumns + `
FROM products
ORDER BY name, id
`

func (q *Queries) FindProducts(c context.Context) ([]Product, error) {
	rows, err := q.db.Query(c, findProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		i, err := scanProduct(rows)
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

const findProductById = `-- name: FindProductById :one
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`

func (q *Queries) FindProductById(c context.Context, id uuid.UUID) (Product, error) {
	row := q.db.QueryRow(c, findProductById, id)
	return scanProduct(row)
}

const findProductsByIds = `-- name: FindProductsByIds :many
SELECT ` + productColumns + `
FROM products
WHERE id = ANY($1::uuid[])
`

func (q *Queries) FindProductsByIds(c context.Context, ids []uuid.UUID) ([]Product, error) {
	rows, err := q.db.Query(c, findProductsByIds, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		i, err := scanProduct(rows)
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

const updateProduct = `-- name: UpdateProduct :one
UPDATE products
SET name = $2,
    description = $3,
    price = $4,
    brand = $5,
    category = $6,
    stock_quantity = $7,
    image_url = $8,
    updated_at = now()
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductParams struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Price         pgtype.Numeric `json:"price"`
	Brand         string         `json:"brand"`
	Category      string         `json:"category"`
	StockQuantity int32          `json:"stock_quantity"`
	ImageUrl      string         `json:"image_url"`
}

func (q *Queries) UpdateProduct(c context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(c, updateProduct,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Brand,
		arg.Category,
		arg.StockQuantity,
		arg.ImageUrl,
	)
	return scanProduct(row)
}

const deleteProductById = `-- name: DeleteProductById :one
DELETE FROM products
WHERE id = $1
RETURNING ` + productColumns

func (q *Queries) DeleteProductById(c context.Context, id uuid.UUID) (Product, error) {
	row := q.db.QueryRow(c, deleteProductById, id)
	return scanProduct(row)
}
