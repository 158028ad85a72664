// Package postgresadapter persists the cart module in its own schema
// partition: carts, cart_items, and the cart_outbox table.
package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"caravel/domains/cart/domain/entities"
	domainerrors "caravel/domains/cart/domain/errors"
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

func (r *Repository) GetCart(ctx context.Context, cartID string) (entities.Cart, error) {
	return r.loadCart(ctx, "cart_id = ?", cartID)
}

func (r *Repository) GetCartByBuyer(ctx context.Context, buyerID string) (entities.Cart, error) {
	return r.loadCart(ctx, "buyer_id = ?", buyerID)
}

func (r *Repository) loadCart(ctx context.Context, query string, arg any) (entities.Cart, error) {
	session := r.session(ctx)

	var row cartModel
	err := session.Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Cart{}, domainerrors.ErrCartNotFound
		}
		return entities.Cart{}, err
	}

	var itemRows []cartItemModel
	err = session.
		Where("cart_id = ?", row.CartID).
		Order("added_at ASC, product_id ASC").
		Find(&itemRows).
		Error
	if err != nil {
		return entities.Cart{}, err
	}

	cart := row.toEntity()
	cart.Items = make([]entities.CartItem, 0, len(itemRows))
	for _, itemRow := range itemRows {
		cart.Items = append(cart.Items, itemRow.toEntity())
	}
	return cart, nil
}

// CreateCart requires the gorm transaction opened by the surrounding unit of
// work, as the outbox append in the same use case rides that transaction.
func (r *Repository) CreateCart(ctx context.Context, cart entities.Cart) error {
	tx, err := txFrom(ctx)
	if err != nil {
		return err
	}

	row := cartModelFromEntity(cart)
	if err := tx.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateCartID
		}
		return err
	}
	return r.replaceItems(tx, cart)
}

// UpdateCart rewrites the cart's line items. Carts are small; replacing the
// lines keeps the write path simple and the rows consistent with the entity.
func (r *Repository) UpdateCart(ctx context.Context, cart entities.Cart) error {
	tx, err := txFrom(ctx)
	if err != nil {
		return err
	}

	result := tx.
		Model(&cartModel{}).
		Where("cart_id = ?", cart.CartID).
		Update("updated_at", cart.UpdatedAt.UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCartNotFound
	}

	if err := tx.Where("cart_id = ?", cart.CartID).Delete(&cartItemModel{}).Error; err != nil {
		return err
	}
	return r.replaceItems(tx, cart)
}

func (r *Repository) ListCartsWithProduct(ctx context.Context, productID string) ([]string, error) {
	var cartIDs []string
	err := r.db.WithContext(ctx).
		Model(&cartItemModel{}).
		Distinct("cart_id").
		Where("product_id = ?", productID).
		Pluck("cart_id", &cartIDs).
		Error
	if err != nil {
		return nil, err
	}
	return cartIDs, nil
}

func (r *Repository) replaceItems(tx *gorm.DB, cart entities.Cart) error {
	if len(cart.Items) == 0 {
		return nil
	}
	rows := make([]cartItemModel, 0, len(cart.Items))
	for _, item := range cart.Items {
		rows = append(rows, cartItemModelFromEntity(cart.CartID, item))
	}
	return tx.Create(&rows).Error
}

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

type cartModel struct {
	CartID    string    `gorm:"column:cart_id;primaryKey"`
	BuyerID   string    `gorm:"column:buyer_id;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (cartModel) TableName() string {
	return "carts"
}

type cartItemModel struct {
	CartID         string    `gorm:"column:cart_id;primaryKey"`
	ProductID      string    `gorm:"column:product_id;primaryKey"`
	Name           string    `gorm:"column:name"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents"`
	Currency       string    `gorm:"column:currency"`
	Quantity       int       `gorm:"column:quantity"`
	AddedAt        time.Time `gorm:"column:added_at"`
}

func (cartItemModel) TableName() string {
	return "cart_items"
}

func cartModelFromEntity(cart entities.Cart) cartModel {
	return cartModel{
		CartID:    cart.CartID,
		BuyerID:   cart.BuyerID,
		CreatedAt: cart.CreatedAt.UTC(),
		UpdatedAt: cart.UpdatedAt.UTC(),
	}
}

func (m cartModel) toEntity() entities.Cart {
	return entities.Cart{
		CartID:    m.CartID,
		BuyerID:   m.BuyerID,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func cartItemModelFromEntity(cartID string, item entities.CartItem) cartItemModel {
	return cartItemModel{
		CartID:         cartID,
		ProductID:      item.ProductID,
		Name:           item.Name,
		UnitPriceCents: item.UnitPriceCents,
		Currency:       item.Currency,
		Quantity:       item.Quantity,
		AddedAt:        item.AddedAt.UTC(),
	}
}

func (m cartItemModel) toEntity() entities.CartItem {
	return entities.CartItem{
		ProductID:      m.ProductID,
		Name:           m.Name,
		UnitPriceCents: m.UnitPriceCents,
		Currency:       m.Currency,
		Quantity:       m.Quantity,
		AddedAt:        m.AddedAt.UTC(),
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
