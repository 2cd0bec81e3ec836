// Package httpapi exposes a market board over HTTP.
//
// Routes:
//   - GET    /health
//   - GET    /api/market-updates                 board view
//   - POST   /api/market-updates                 publish a listing (platform admin)
//   - POST   /api/market-updates/refresh         reload the snapshot
//   - POST   /api/market-updates/resume          leave the stalled state
//   - POST   /api/market-updates/banner/dismiss  clear the banner
//   - GET    /api/currencies                     selectable currencies
//   - GET    /api/currencies/{from}/{to}         convert ?amount=
//   - GET|POST|DELETE /api/session               session holder
//   - POST   /api/forms/{form}/validate          profile, shift, application
//   - GET    /dashboard/...                      role-gated dashboards
//
// Validation failures are 422 with a {"fields": {...}} body.
package httpapi
