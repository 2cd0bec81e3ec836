// Package access holds the route access policy for the staffing portal.
package access

import (
	"log/slog"
	"net/http"
	"slices"
)

// Role is an access role.
type Role string

const (
	RoleAny           Role = "any"
	RoleAgency        Role = "agency"
	RoleCompany       Role = "company"
	RoleShiftWorker   Role = "shift_worker"
	RolePlatformAdmin Role = "platform_admin"
)

// Public routes.
const (
	RouteHome            = "/"
	RouteLogin           = "/login"
	RouteRegister        = "/register"
	RouteForgotPassword  = "/forgot-password"
	RouteResetPassword   = "/reset-password"
	RouteTokenValidation = "/token-validation"
)

// Dashboard routes.
const (
	RouteDashboard              = "/dashboard"
	RouteAgencyDashboard        = "/dashboard/agency"
	RouteCompanyDashboard       = "/dashboard/company"
	RouteShiftWorkerDashboard   = "/dashboard/shift-worker"
	RoutePlatformAdminDashboard = "/dashboard/platform-admin"
)

// Rule is the access rule for one route. A nil RequiredRoles means public.
type Rule struct {
	RequiredRoles []Role
	Description   string
}

// Public reports whether the route needs no role.
func (r Rule) Public() bool {
	return r.RequiredRoles == nil
}

// Policy maps routes to rules.
type Policy map[string]Rule

// DefaultPolicy returns the portal's route table.
func DefaultPolicy() Policy {
	return Policy{
		RouteHome:            {Description: "Landing page with registration and login options"},
		RouteLogin:           {Description: "User login page"},
		RouteRegister:        {Description: "User registration page with type-based customization"},
		RouteForgotPassword:  {Description: "Password reset initiation"},
		RouteResetPassword:   {Description: "Set new password"},
		RouteTokenValidation: {Description: "AI agent token validation"},
		RouteDashboard: {
			RequiredRoles: []Role{RoleAny},
			Description:   "Dashboard selector and role-based redirection",
		},
		RouteAgencyDashboard: {
			RequiredRoles: []Role{RoleAgency, RolePlatformAdmin},
			Description:   "Agency and company management dashboard",
		},
		RouteCompanyDashboard: {
			RequiredRoles: []Role{RoleCompany, RolePlatformAdmin},
			Description:   "Company-specific dashboard",
		},
		RouteShiftWorkerDashboard: {
			RequiredRoles: []Role{RoleShiftWorker, RolePlatformAdmin},
			Description:   "Shift worker personal dashboard",
		},
		RoutePlatformAdminDashboard: {
			RequiredRoles: []Role{RolePlatformAdmin},
			Description:   "Platform administration dashboard",
		},
	}
}

// ProtectRoute reports whether role may open route.
// Unknown routes are denied; public routes are allowed; "any" admits every role.
func (p Policy) ProtectRoute(route string, role Role) bool {
	rule, ok := p[route]
	if !ok {
		return false
	}
	if rule.Public() {
		return true
	}
	return slices.Contains(rule.RequiredRoles, RoleAny) || slices.Contains(rule.RequiredRoles, role)
}

// IsPublic reports whether route is a known public route.
func (p Policy) IsPublic(route string) bool {
	rule, ok := p[route]
	return ok && rule.Public()
}

// DetermineInitialDashboard returns the landing route for role.
func DetermineInitialDashboard(role Role) string {
	switch role {
	case RolePlatformAdmin:
		return RoutePlatformAdminDashboard
	case RoleAgency, RoleCompany:
		return RouteAgencyDashboard
	case RoleShiftWorker:
		return RouteShiftWorkerDashboard
	default:
		return RouteLogin
	}
}

// RoleFunc resolves the caller's role. ok is false for anonymous callers.
type RoleFunc func(r *http.Request) (role Role, ok bool)

// Middleware redirects anonymous callers to the login page and callers
// without access to their initial dashboard.
func (p Policy) Middleware(resolve RoleFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := r.URL.Path
			role, ok := resolve(r)

			if !ok {
				if !p.IsPublic(route) {
					logger.Debug("redirecting anonymous caller", "route", route)
					http.Redirect(w, r, RouteLogin, http.StatusFound)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if !p.ProtectRoute(route, role) {
				target := DetermineInitialDashboard(role)
				logger.Debug("redirecting unauthorized caller", "route", route, "role", role, "target", target)
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
