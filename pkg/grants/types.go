package grants

// Role is a closed category of user determining default capabilities.
// Roles are immutable once assigned; they change only through an
// out-of-band administrative action.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleDirector      Role = "director"
	RoleCoordinator   Role = "coordinator"
	RoleAssistant     Role = "assistant"
	RoleSubject       Role = "subject"
)

// KnownRoles returns every role the application recognizes.
func KnownRoles() []Role {
	return []Role{
		RoleAdministrator,
		RoleDirector,
		RoleCoordinator,
		RoleAssistant,
		RoleSubject,
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleDirector, RoleCoordinator, RoleAssistant, RoleSubject:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Module identifies a functional area of the application.
type Module string

const (
	ModuleStudents      Module = "students"
	ModuleInventory     Module = "inventory"
	ModulePurchases     Module = "purchases"
	ModuleMedications   Module = "medications"
	ModuleAppointments  Module = "appointments"
	ModuleNotifications Module = "notifications"
	ModuleReports       Module = "reports"
	ModuleSettings      Module = "settings"
)

func (m Module) String() string { return string(m) }

// Action is an operation kind within a module.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// DefaultAction is assumed when a caller omits the action on a check.
const DefaultAction = ActionRead

// Actions returns the fixed action set in a stable order.
func Actions() []Action {
	return []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
}

// Normalize maps the zero value to DefaultAction.
func (a Action) Normalize() Action {
	if a == "" {
		return DefaultAction
	}
	return a
}

func (a Action) String() string { return string(a) }

// Grant is one authorization record of the permission grid.
// A grant is unique per (role, module, action); the last write wins.
type Grant struct {
	Role    Role
	Module  Module
	Action  Action
	Allowed bool
}

// Update describes a coarse module-level change applied by the bulk
// role-access editor. It fans out to all actions of the module.
type Update struct {
	Role    Role
	Module  Module
	Allowed bool
}

type grantKey struct {
	role   Role
	module Module
	action Action
}

func (g Grant) key() grantKey {
	return grantKey{role: g.Role, module: g.Module, action: g.Action.Normalize()}
}
