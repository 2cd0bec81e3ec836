// Package api provides the REST client for the hosted backend's table endpoint.
//
// Endpoints (PostgREST):
//   - GET  {base}/rest/v1/{table}?select=*&order=created_at.desc&limit=N
//   - POST {base}/rest/v1/{table} with Prefer: return=representation
//
// Every request carries the apikey and Authorization headers from package auth.
package api
