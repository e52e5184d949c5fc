// Package guard decides whether a protected screen may be shown for the
// current session.
package guard

import (
	"github.com/dmitrijs2005/companyadmin/internal/client/models"
	"github.com/dmitrijs2005/companyadmin/internal/client/session"
	"github.com/dmitrijs2005/companyadmin/internal/common"
)

type Decision int

const (
	// Pending means the session is still resolving; no navigation yet.
	Pending Decision = iota
	RedirectLogin
	RedirectDefault
	Allow
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case RedirectLogin:
		return "redirect(login)"
	case RedirectDefault:
		return "redirect(default)"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

// Target is the path a redirect decision navigates to, replacing history.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return common.LoginPath
	case RedirectDefault:
		return common.DashboardPath
	default:
		return ""
	}
}

// Evaluate is a pure function of the session status, its role and the
// permitted roles. An empty required set admits any authenticated role.
func Evaluate(status session.Status, role models.Role, required []models.Role) Decision {
	switch status {
	case session.StatusLoading:
		return Pending
	case session.StatusAuthenticated:
		if len(required) > 0 && !role.In(required...) {
			return RedirectDefault
		}
		return Allow
	default:
		return RedirectLogin
	}
}

// Check evaluates the route against a session snapshot.
func Check(st session.State, r Route) Decision {
	if r.Public {
		return Allow
	}
	return Evaluate(st.Status, st.Role, r.Roles)
}
