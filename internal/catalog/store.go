package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrProductNotFound indicates the requested listing does not exist.
var ErrProductNotFound = errors.New("catalog: product not found")

// Product is a persisted equipment listing joined with its seller.
type Product struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"sellerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Images      []string  `json:"images"`
	Status      string    `json:"status"`
	SellerName  string    `json:"sellerName,omitempty"`
	SellerEmail string    `json:"sellerEmail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateParams carries the fields required to create a listing.
type CreateParams struct {
	SellerID    string
	Title       string
	Description string
	Price       int64
	Category    string
	Location    string
	Images      []string
}

// UpdateParams carries an optional value per updatable column.
type UpdateParams struct {
	Title       *string
	Description *string
	Price       *int64
	Category    *string
	Location    *string
	Images      *[]string
	Status      *string
}

// Store persists products.
type Store interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]Product, error)
	Create(ctx context.Context, params CreateParams) (Product, error)
	Update(ctx context.Context, id string, params UpdateParams) (Product, error)
	Delete(ctx context.Context, id string) error
}

// DBPool matches the subset of *pgxpool.Pool used by the store.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresStore implements Store on top of pgx.
type PostgresStore struct {
	Pool DBPool
}

const productColumns = `p.id, p.seller_id, p.title, p.description, p.price, p.category,
	p.location, p.images, p.status, u.name, u.email, p.created_at, p.updated_at`

const productSelect = `SELECT ` + productColumns + `
	FROM products p JOIN users u ON u.id = p.seller_id`

func (s PostgresStore) List(ctx context.Context) ([]Product, error) {
	rows, err := s.Pool.Query(ctx, productSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (s PostgresStore) GetByID(ctx context.Context, id string) (Product, error) {
	if err := uuid.Validate(id); err != nil {
		return Product{}, ErrProductNotFound
	}
	row := s.Pool.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (s PostgresStore) GetByIDs(ctx context.Context, ids []string) ([]Product, error) {
	// Cart lines can reference ids that were never valid listings; only
	// well-formed ids reach the query, the rest resolve to nothing.
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if uuid.Validate(id) == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []Product{}, nil
	}
	rows, err := s.Pool.Query(ctx, productSelect+` WHERE p.id = ANY($1)`, valid)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (s PostgresStore) ListBySeller(ctx context.Context, sellerID string) ([]Product, error) {
	rows, err := s.Pool.Query(ctx, productSelect+` WHERE p.seller_id = $1 ORDER BY p.created_at DESC`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (s PostgresStore) Create(ctx context.Context, params CreateParams) (Product, error) {
	row := s.Pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO products (seller_id, title, description, price, category, location, images)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT `+strings.ReplaceAll(productColumns, "p.", "inserted.")+`
		FROM inserted JOIN users u ON u.id = inserted.seller_id`,
		params.SellerID, params.Title, params.Description, params.Price,
		params.Category, params.Location, params.Images)
	product, err := scanProduct(row)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s PostgresStore) Update(ctx context.Context, id string, params UpdateParams) (Product, error) {
	if err := uuid.Validate(id); err != nil {
		return Product{}, ErrProductNotFound
	}
	assignments := []string{"updated_at = now()"}
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Price != nil {
		add("price", *params.Price)
	}
	if params.Category != nil {
		add("category", *params.Category)
	}
	if params.Location != nil {
		add("location", *params.Location)
	}
	if params.Images != nil {
		add("images", *params.Images)
	}
	if params.Status != nil {
		add("status", *params.Status)
	}

	query := `
		WITH updated AS (
			UPDATE products SET ` + strings.Join(assignments, ", ") + `
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + strings.ReplaceAll(productColumns, "p.", "updated.") + `
		FROM updated JOIN users u ON u.id = updated.seller_id`
	row := s.Pool.QueryRow(ctx, query, args...)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s PostgresStore) Delete(ctx context.Context, id string) error {
	if err := uuid.Validate(id); err != nil {
		return ErrProductNotFound
	}
	tag, err := s.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	products := []Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SellerID, &p.Title, &p.Description, &p.Price,
		&p.Category, &p.Location, &p.Images, &p.Status,
		&p.SellerName, &p.SellerEmail, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
