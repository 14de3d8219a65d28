package constants

import "fmt"

// Role staff (claim "role" / "roles" di JWT)
const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
	RoleCashier    = "cashier"
)

// Template pesan error role
const (
	ErrOnlyFeeDeskCanAccess = "❌ Hanya admin, accountant, atau cashier yang boleh mengakses fitur %s."
)

// Fungsi helper untuk menghasilkan pesan error dinamis
func RoleErrorFeeDesk(feature string) string {
	return fmt.Sprintf(ErrOnlyFeeDeskCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	FeeDeskRoles = []string{
		RoleAdmin,
		RoleAccountant,
		RoleCashier,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
