package permissions

// Checker is the narrow contract the rota engine has with the auth
// subsystem. Mutation entry points call it server-side regardless of what
// the UI already hid.
type Checker interface {
	CanViewRota(actor string) bool
	CanEditRota(actor string) bool
	CanPublishRota(actor string) bool
}

type Role string

const (
	RoleViewer  Role = "viewer"
	RoleEditor  Role = "editor"
	RoleManager Role = "manager"
)

// RoleChecker grants capabilities by actor role: viewer < editor < manager.
// Actors without an explicit grant get the fallback role.
type RoleChecker struct {
	grants   map[string]Role
	fallback Role
}

func NewRoleChecker(grants map[string]Role, fallback Role) *RoleChecker {
	if grants == nil {
		grants = map[string]Role{}
	}
	return &RoleChecker{
		grants:   grants,
		fallback: fallback,
	}
}

// AllowAll grants every capability to every actor, for single-user local use
// where no grants are configured.
func AllowAll() *RoleChecker {
	return NewRoleChecker(nil, RoleManager)
}

func (c *RoleChecker) roleOf(actor string) Role {
	if role, ok := c.grants[actor]; ok {
		return role
	}
	return c.fallback
}

func (c *RoleChecker) CanViewRota(actor string) bool {
	switch c.roleOf(actor) {
	case RoleViewer, RoleEditor, RoleManager:
		return true
	}
	return false
}

func (c *RoleChecker) CanEditRota(actor string) bool {
	switch c.roleOf(actor) {
	case RoleEditor, RoleManager:
		return true
	}
	return false
}

func (c *RoleChecker) CanPublishRota(actor string) bool {
	return c.roleOf(actor) == RoleManager
}
