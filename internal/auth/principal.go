package auth

import (
	"context"

	"zackiepharma/m/domain"
)

// Capability is a permission a route requires of the caller.
type Capability string

const (
	ViewDashboard       Capability = "dashboard:view"
	RecordSales         Capability = "sales:record"
	ManageCustomers     Capability = "customers:manage"
	ManagePrescriptions Capability = "prescriptions:manage"
	ManageProducts      Capability = "products:manage"
	ManageSuppliers     Capability = "suppliers:manage"
	ViewReports         Capability = "reports:view"
	ViewAudit           Capability = "audit:view"
	RegisterAdmins      Capability = "users:register-admin"
)

var roleCapabilities = map[string][]Capability{
	domain.RoleCashier: {ViewDashboard, RecordSales, ManageCustomers, ManagePrescriptions},
	domain.RoleStaff:   {ViewDashboard, ManageCustomers, ManagePrescriptions},
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Can reports whether p holds c. Admins hold every capability.
func (p Principal) Can(c Capability) bool {
	if p.Role == domain.RoleAdmin {
		return true
	}
	for _, granted := range roleCapabilities[p.Role] {
		if granted == c {
			return true
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
