// Package postgresadapter persists the products module in its own schema
// partition: the products table plus the products_outbox table, never any
// other module's tables.
package postgresadapter

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"caravel/domains/products/domain/entities"
	domainerrors "caravel/domains/products/domain/errors"
	"caravel/domains/products/ports"
	"caravel/internal/shared/uow"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) GetProduct(ctx context.Context, productID string) (entities.Product, error) {
	var row productModel
	err := r.session(ctx).
		Where("product_id = ?", productID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Product{}, domainerrors.ErrProductNotFound
		}
		return entities.Product{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListProducts(ctx context.Context, filter ports.ProductListFilter) ([]entities.Product, string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	tx := r.db.WithContext(ctx).Model(&productModel{})
	if filter.SellerID != "" {
		tx = tx.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	offset := decodeCursor(filter.Cursor)
	var rows []productModel
	err := tx.
		Order("created_at DESC, product_id ASC").
		Offset(offset).
		Limit(limit + 1).
		Find(&rows).
		Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = encodeCursor(offset + limit)
		rows = rows[:limit]
	}

	items := make([]entities.Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nextCursor, nil
}

// CreateProduct requires the gorm transaction opened by the surrounding unit
// of work; the outbox append in the same use case rides the same transaction.
func (r *Repository) CreateProduct(ctx context.Context, product entities.Product) error {
	tx, err := txFrom(ctx)
	if err != nil {
		return err
	}

	row := productModelFromEntity(product)
	if err := tx.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateProductID
		}
		return err
	}
	return nil
}

func (r *Repository) UpdatePrice(ctx context.Context, productID string, priceCents int64, updatedAt time.Time) error {
	tx, err := txFrom(ctx)
	if err != nil {
		return err
	}

	result := tx.
		Model(&productModel{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"price_cents": priceCents,
			"updated_at":  updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProductNotFound
	}
	return nil
}

// session prefers the unit-of-work transaction when one is open so reads
// inside a use case observe its own uncommitted writes.
func (r *Repository) session(ctx context.Context) *gorm.DB {
	if raw, ok := uow.From(ctx); ok {
		if tx, ok := raw.(*gorm.DB); ok {
			return tx.WithContext(ctx)
		}
	}
	return r.db.WithContext(ctx)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type productModel struct {
	ProductID   string    `gorm:"column:product_id;primaryKey"`
	SellerID    string    `gorm:"column:seller_id"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	PriceCents  int64     `gorm:"column:price_cents"`
	Currency    string    `gorm:"column:currency"`
	Status      string    `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (productModel) TableName() string {
	return "products"
}

func productModelFromEntity(product entities.Product) productModel {
	return productModel{
		ProductID:   product.ProductID,
		SellerID:    product.SellerID,
		Name:        product.Name,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		Currency:    product.Currency,
		Status:      string(product.Status),
		CreatedAt:   product.CreatedAt.UTC(),
		UpdatedAt:   product.UpdatedAt.UTC(),
	}
}

func (m productModel) toEntity() entities.Product {
	return entities.Product{
		ProductID:   m.ProductID,
		SellerID:    m.SellerID,
		Name:        m.Name,
		Description: m.Description,
		PriceCents:  m.PriceCents,
		Currency:    m.Currency,
		Status:      entities.ProductStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func txFrom(ctx context.Context) (*gorm.DB, error) {
	raw, ok := uow.From(ctx)
	if !ok {
		return nil, uow.ErrNoActiveTransaction
	}
	tx, ok := raw.(*gorm.DB)
	if !ok {
		return nil, uow.ErrNoActiveTransaction
	}
	return tx.WithContext(ctx), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func decodeCursor(cursor string) int {
	if strings.TrimSpace(cursor) == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}
