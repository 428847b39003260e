// Package guard decides whether a navigation may proceed. The decision is a
// pure function of the target route's requirements and the current session
// snapshot; performing the redirect is the caller's job.
package guard

import (
	"gomall/client/session"
	"gomall/internal/models"
)

const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

// Route describes a navigation target and its access requirements.
type Route struct {
	Path          string
	RequiresAuth  bool
	RequiresAdmin bool
}

// Level tells the caller how to present the decision's message.
type Level string

const (
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Decision is the outcome of a guard check. When Allowed is false, RedirectTo
// names where to send the user instead and Message explains why.
type Decision struct {
	Allowed    bool
	RedirectTo string
	Message    string
	Level      Level
}

// Decide applies the access rules in order: the login requirement is checked
// before the admin requirement, so an anonymous user hitting an admin route
// is sent to login rather than bounced back.
func Decide(route Route, from string, snap session.Snapshot) Decision {
	if route.RequiresAuth && !snap.IsLoggedIn {
		return Decision{
			RedirectTo: LoginRoute,
			Message:    "please log in first",
			Level:      LevelWarning,
		}
	}
	if route.RequiresAdmin && snap.Role != models.UserRoleAdmin {
		back := from
		if back == "" {
			back = HomeRoute
		}
		return Decision{
			RedirectTo: back,
			Message:    "admin access required",
			Level:      LevelError,
		}
	}
	return Decision{Allowed: true}
}
