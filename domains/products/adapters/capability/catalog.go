// Package capabilityadapter exposes the products module's CatalogPort for
// in-process binding. Callers resolve the port through the registry and
// never learn that this adapter calls the local repository directly.
package capabilityadapter

import (
	"context"

	"caravel/domains/products/domain/entities"
	"caravel/domains/products/ports"
)

// Catalog serves product snapshots straight from the module's own
// repository. Snapshots are copies; handing one out never leaks a mutable
// entity across the module boundary.
type Catalog struct {
	Products ports.ProductRepository
}

func NewCatalog(products ports.ProductRepository) Catalog {
	return Catalog{Products: products}
}

func (c Catalog) GetProductSnapshot(ctx context.Context, productID string) (ports.ProductSnapshot, error) {
	product, err := c.Products.GetProduct(ctx, productID)
	if err != nil {
		return ports.ProductSnapshot{}, err
	}
	return ports.ProductSnapshot{
		ProductID:  product.ProductID,
		SellerID:   product.SellerID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		Currency:   product.Currency,
		Active:     product.Status == entities.ProductStatusActive,
	}, nil
}
