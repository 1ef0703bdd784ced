package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/product-catalog/domain/product"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const createProductsTable = `
CREATE TABLE IF NOT EXISTS products (
    id          BIGSERIAL PRIMARY KEY,
    name        VARCHAR(255)   NOT NULL,
    description VARCHAR(1000),
    price       NUMERIC(10, 2) NOT NULL,
    stock       BIGINT         NOT NULL,
    category    VARCHAR(32)    NOT NULL,
    status      VARCHAR(32)    NOT NULL,
    created_at  TIMESTAMPTZ    NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ    NOT NULL DEFAULT NOW()
)`

const widenStockColumn = `ALTER TABLE products ALTER COLUMN stock TYPE BIGINT`

const productColumns = "id, name, description, price, stock, category, status"

const (
	insertProduct = `INSERT INTO products (name, description, price, stock, category, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + productColumns

	updateProduct = `UPDATE products
SET name = $2, description = $3, price = $4, stock = $5, category = $6, status = $7, updated_at = NOW()
WHERE id = $1
RETURNING ` + productColumns

	selectProduct  = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	selectProducts = `SELECT ` + productColumns + ` FROM products ORDER BY id`
	deleteProduct  = `DELETE FROM products WHERE id = $1`
)

// PostgresRepository stores products in PostgreSQL through a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ product.Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a new PostgreSQL product repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Migrate creates the products table if it does not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createProductsTable); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	// Tables created before stock was widened still hold it as INTEGER.
	if _, err := r.pool.Exec(ctx, widenStockColumn); err != nil {
		return fmt.Errorf("failed to widen stock column: %w", err)
	}
	return nil
}

// Save inserts or overwrites a product.
func (r *PostgresRepository) Save(ctx context.Context, p *product.Product) (*product.Product, error) {
	price := toNumeric(p.Price())

	if !p.HasID() {
		row := r.pool.QueryRow(ctx, insertProduct,
			p.Name(), p.Description(), price, p.Stock(), p.Category().String(), p.Status().String())
		saved, err := scanProduct(row)
		if err != nil {
			return nil, fmt.Errorf("failed to create product: %w", err)
		}
		return saved, nil
	}

	row := r.pool.QueryRow(ctx, updateProduct,
		p.ID(), p.Name(), p.Description(), price, p.Stock(), p.Category().String(), p.Status().String())
	saved, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return saved, nil
}

// FindByID retrieves a product by its ID.
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, selectProduct, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return p, nil
}

// FindAll retrieves all products ordered by ID.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]*product.Product, error) {
	rows, err := r.pool.Query(ctx, selectProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer rows.Close()

	products := make([]*product.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// DeleteByID removes a product.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteProduct, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var (
		id          int64
		name        string
		description pgtype.Text
		price       pgtype.Numeric
		stock       int64
		category    string
		status      string
	)
	if err := row.Scan(&id, &name, &description, &price, &stock, &category, &status); err != nil {
		return nil, err
	}
	return restore(id, name, description.String, fromNumeric(price), int(stock), category, status), nil
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	d = d.Round(priceScale)
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
