// Package model defines the listing types shared across the market board.
//
// Conventions:
//   - Rates: float64 in the listing's own currency, nil when the row carries none
//   - Display rates: always produced by package currency, never hand-edited
//   - IDs: opaque strings (the backend may use integers or UUIDs)
package model
