// Package cart owns shopping carts: one open cart per buyer, line items
// referencing products by ID with the price copied at add time. Display
// prices follow product repricing eventually, through the price-changed
// consumer, never through a synchronous cross-module read.
package cart
