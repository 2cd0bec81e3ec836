// Package database provides the optional direct PostgreSQL path to the backend.
//
// When the board is configured with snapshot_source "postgres" it reads
// listings straight from the backend's public.market_updates table instead of
// going through the REST gateway. Admin inserts use the same pool.
package database
