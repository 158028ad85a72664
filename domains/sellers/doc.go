// Package sellers owns seller accounts and their catalog statistics. The
// catalog count is a projection fed by product events, never a synchronous
// read into the products module.
package sellers
