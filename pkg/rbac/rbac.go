package rbac

// Roles carried by users.
const (
	RoleAdmin        = "ADMIN"
	RoleLead         = "LEAD"
	RoleMember       = "MEMBER"
	RoleFinance      = "FINANCE"
	RolePaymentAdmin = "PAYMENT_ADMIN"
)

// Capabilities gate the workflow transitions that are not open to every
// authenticated actor.
const (
	CapDecideApproval = "catering:decide"
	CapMarkPaid       = "catering:mark_paid"
	CapAssignable     = "task:assignable"
	CapManageUsers    = "users:manage"
)

var roleCapabilities = map[string][]string{
	RoleAdmin: {
		CapDecideApproval,
		CapMarkPaid,
		CapManageUsers,
	},
	RoleLead: {
		CapAssignable,
	},
	RoleMember: {},
	RoleFinance: {
		CapDecideApproval,
		CapMarkPaid,
	},
	RolePaymentAdmin: {
		CapMarkPaid,
	},
}

// HasCapability reports whether a role grants a capability.
func HasCapability(role, capability string) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	for _, c := range caps {
		if c == capability {
			return true
		}
	}
	return false
}

// RolesWith lists every role granting a capability.
func RolesWith(capability string) []string {
	roles := []string{}
	for role, caps := range roleCapabilities {
		for _, c := range caps {
			if c == capability {
				roles = append(roles, role)
				break
			}
		}
	}
	return roles
}

// CheckCapability returns a typed error when the role lacks the capability.
func CheckCapability(role, capability string) error {
	if !HasCapability(role, capability) {
		return &CapabilityDeniedError{Role: role, Capability: capability}
	}
	return nil
}

type CapabilityDeniedError struct {
	Role       string
	Capability string
}

func (e *CapabilityDeniedError) Error() string {
	return "insufficient permissions"
}
