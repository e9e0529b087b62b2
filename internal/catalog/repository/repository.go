package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogRepository reads catalog data owned by the admin back-office.
// The storefront never writes through it.
type CatalogRepository interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetCategories(ctx context.Context) ([]domain.Category, error)
	Close() error
	RunMigrations(string) error
}

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

const productColumns = `
	id, title, description, price, discount_price, category, image_url,
	images, rating, in_stock, stock_quantity, variants, colors, sizes,
	article_number, barcode, country_of_origin, material,
	is_new, is_bestseller, archived,
	ozon_url, wildberries_url, avito_url, created_at
`

// GetAllProducts returns the non-archived catalog in insertion order.
func (r *Repository) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE archived = 0
		ORDER BY rowid
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	defer rows.Close()

	var product *domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		product = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (r *Repository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT id, name, description, image_url
		FROM categories
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return categories, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func scanProduct(rows *sql.Rows) (*domain.Product, error) {
	p := &domain.Product{}
	var (
		discount sql.NullFloat64
		stockQty sql.NullInt64
		images   sql.NullString
		variants sql.NullString
		colors   sql.NullString
		sizes    sql.NullString
	)

	err := rows.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&discount,
		&p.Category,
		&p.ImageURL,
		&images,
		&p.Rating,
		&p.InStock,
		&stockQty,
		&variants,
		&colors,
		&sizes,
		&p.ArticleNumber,
		&p.Barcode,
		&p.CountryOfOrigin,
		&p.Material,
		&p.IsNew,
		&p.IsBestseller,
		&p.Archived,
		&p.OzonURL,
		&p.WildberriesURL,
		&p.AvitoURL,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	if discount.Valid {
		p.DiscountPrice = &discount.Float64
	}
	if stockQty.Valid {
		n := int(stockQty.Int64)
		p.StockQuantity = &n
	}
	if err := unmarshalColumn(images, &p.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images for product %s: %w", p.ID, err)
	}
	if err := unmarshalColumn(variants, &p.Variants); err != nil {
		return nil, fmt.Errorf("failed to decode variants for product %s: %w", p.ID, err)
	}
	if err := unmarshalColumn(colors, &p.LegacyColors); err != nil {
		return nil, fmt.Errorf("failed to decode colors for product %s: %w", p.ID, err)
	}
	if err := unmarshalColumn(sizes, &p.Sizes); err != nil {
		return nil, fmt.Errorf("failed to decode sizes for product %s: %w", p.ID, err)
	}

	return p, nil
}

// unmarshalColumn decodes a JSON-encoded TEXT column; NULL and empty are
// treated as absent.
func unmarshalColumn(col sql.NullString, dst any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), dst)
}
