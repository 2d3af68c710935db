// Package dashboard owns the role-specific presentation surfaces and their
// view-local state.
package dashboard

import (
	"errors"

	"github.com/crestbank/crest-console/internal/api"
)

// Surface identifies a dashboard destination after login.
type Surface int

const (
	SurfaceClient Surface = iota
	SurfaceTeller
	SurfaceAdmin
)

func (s Surface) String() string {
	switch s {
	case SurfaceTeller:
		return "teller"
	case SurfaceAdmin:
		return "admin"
	default:
		return "client"
	}
}

// ErrNoRoles is returned when a login response carries an empty role list.
// The resolver fails closed rather than guessing a destination: a login the
// server did not assign any role to gets no dashboard.
var ErrNoRoles = errors.New("login carries no role")

// ResolveLanding maps the ordered role list of a login response to the
// dashboard to activate. The first role wins; unrecognized roles land on the
// client dashboard.
func ResolveLanding(roles []string) (Surface, error) {
	if len(roles) == 0 {
		return SurfaceClient, ErrNoRoles
	}
	switch roles[0] {
	case api.RoleCashier:
		return SurfaceTeller, nil
	case api.RoleAdmin:
		return SurfaceAdmin, nil
	case api.RoleClient:
		return SurfaceClient, nil
	default:
		return SurfaceClient, nil
	}
}
