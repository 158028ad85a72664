// Package buyers owns buyer accounts and exposes the BuyerPort capability
// for ID-only buyer lookups from other modules.
package buyers
