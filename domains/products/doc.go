// Package products contains the product catalog domain module.
//
// The module owns the products and products_outbox tables, exposes the
// CatalogPort capability to other modules, and emits ProductCreated and
// ProductPriceChanged integration events through the transactional outbox.
// Domain and application logic stay decoupled from runtime concerns through
// ports and adapter composition.
package products
