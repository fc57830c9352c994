// Package guard decides whether a protected command may run based on a
// session snapshot. It is a pure predicate: no network calls, no store
// mutation. A stale snapshot (revoked token) is corrected reactively by
// the API client's 401 teardown, not here.
package guard

import "github.com/campushire/campushire/internal/session"

// Requirement is the access level a command demands.
type Requirement int

const (
	// RequireUser admits authenticated regular users.
	RequireUser Requirement = iota
	// RequireAdmin admits admin sessions only.
	RequireAdmin
)

// Decision is the guard's verdict.
type Decision int

const (
	// Allow admits the command.
	Allow Decision = iota
	// RedirectLogin denies and points at the user login flow.
	RedirectLogin
	// RedirectAdminLogin denies and points at the admin login flow.
	RedirectAdminLogin
)

// Check evaluates the requirement against the snapshot. Admin routes only
// consult the admin flag; user routes only consult isAuthenticated.
func Check(snap session.Session, req Requirement) Decision {
	if req == RequireAdmin {
		if !snap.IsAdmin {
			return RedirectAdminLogin
		}
		return Allow
	}

	if !snap.IsAuthenticated {
		return RedirectLogin
	}
	return Allow
}
