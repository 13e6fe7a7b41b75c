// Package authz centralizes the capability checks the engines perform.
// Instead of scattering permission lookups per action, each operation names
// an Action and the policy table maps it to the capability a caller must
// hold; roles map to capability sets.
package authz

import "delivery/internal/models"

// Capability is a fine-grained permission.
type Capability string

const (
	TakeOrders     Capability = "take_orders"
	ViewOrdersPage Capability = "view_orders_page"
	AcceptApp      Capability = "accept_app"
	ViewAppPage    Capability = "view_app_page"
)

// Action names an operation subject to an authorization check.
type Action string

const (
	ActionTakeOrder         Action = "order.take"
	ActionReleaseOrder      Action = "order.release"
	ActionViewOrders        Action = "orders.view"
	ActionAcceptApplication Action = "application.accept"
	ActionRefuseApplication Action = "application.refuse"
	ActionViewApplications  Action = "applications.view"
)

// policy maps each guarded action to the capability it requires.
var policy = map[Action]Capability{
	ActionTakeOrder:         TakeOrders,
	ActionReleaseOrder:      TakeOrders,
	ActionViewOrders:        ViewOrdersPage,
	ActionAcceptApplication: AcceptApp,
	ActionRefuseApplication: AcceptApp,
	ActionViewApplications:  ViewAppPage,
}

// roleCapabilities maps each role to the capabilities it grants.
var roleCapabilities = map[models.Role]map[Capability]bool{
	models.RoleCustomer: {},
	models.RoleCourier: {
		TakeOrders:     true,
		ViewOrdersPage: true,
	},
	models.RoleStaff: {
		AcceptApp:   true,
		ViewAppPage: true,
	},
}

// Authorizer answers "may this role perform that action" from the static
// policy table.
type Authorizer struct{}

// New creates an Authorizer.
func New() *Authorizer {
	return &Authorizer{}
}

// Can reports whether the given role holds the capability the action requires.
// Unknown actions are denied.
func (a *Authorizer) Can(role models.Role, action Action) bool {
	capability, ok := policy[action]
	if !ok {
		return false
	}
	return roleCapabilities[role][capability]
}
