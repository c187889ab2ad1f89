// Package router defines the portal's navigation targets and the guard that
// decides, per target, whether the current session may render it.
package router

// Route names a navigation target.
type Route string

const (
	RouteHome      Route = "home"
	RouteLogin     Route = "login"
	RouteProfile   Route = "profile"
	RouteShop      Route = "shop"
	RoutePurchases Route = "purchases"
	RouteAdmin     Route = "admin"
)

// Requirement is the minimum session level a route demands.
type Requirement int

const (
	Public Requirement = iota
	MemberOnly
	AdminOnly
)

func (r Requirement) String() string {
	switch r {
	case MemberOnly:
		return "member"
	case AdminOnly:
		return "admin"
	default:
		return "public"
	}
}

// routes tags every navigation target with its requirement.
var routes = map[Route]Requirement{
	RouteHome:      Public,
	RouteLogin:     Public,
	RouteShop:      Public,
	RouteProfile:   MemberOnly,
	RoutePurchases: MemberOnly,
	RouteAdmin:     AdminOnly,
}

// Known reports whether the route exists and returns its requirement.
func Known(r Route) (Requirement, bool) {
	req, ok := routes[r]
	return req, ok
}

// All returns the route table for help listings, in display order.
func All() []Route {
	return []Route{RouteHome, RouteLogin, RouteShop, RouteProfile, RoutePurchases, RouteAdmin}
}
