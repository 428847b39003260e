package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gomall/client/session"
	"gomall/internal/models"
)

func TestDecide(t *testing.T) {
	anonymous := session.Snapshot{}
	user := session.Snapshot{IsLoggedIn: true, UserID: "u1", Role: models.UserRoleUser}
	admin := session.Snapshot{IsLoggedIn: true, UserID: "u2", Role: models.UserRoleAdmin}

	open := Route{Path: "/products"}
	authed := Route{Path: "/orders", RequiresAuth: true}
	adminOnly := Route{Path: "/admin/users", RequiresAuth: true, RequiresAdmin: true}

	cases := []struct {
		name  string
		route Route
		from  string
		snap  session.Snapshot
		want  Decision
	}{
		{
			name:  "open route for anonymous",
			route: open,
			snap:  anonymous,
			want:  Decision{Allowed: true},
		},
		{
			name:  "authed route bounces anonymous to login",
			route: authed,
			from:  "/products",
			snap:  anonymous,
			want:  Decision{RedirectTo: LoginRoute, Message: "please log in first", Level: LevelWarning},
		},
		{
			name:  "authed route allows user",
			route: authed,
			snap:  user,
			want:  Decision{Allowed: true},
		},
		{
			name:  "admin route sends anonymous to login, not back",
			route: adminOnly,
			from:  "/products",
			snap:  anonymous,
			want:  Decision{RedirectTo: LoginRoute, Message: "please log in first", Level: LevelWarning},
		},
		{
			name:  "admin route bounces user back to referrer",
			route: adminOnly,
			from:  "/products",
			snap:  user,
			want:  Decision{RedirectTo: "/products", Message: "admin access required", Level: LevelError},
		},
		{
			name:  "admin route without referrer falls back to home",
			route: adminOnly,
			snap:  user,
			want:  Decision{RedirectTo: HomeRoute, Message: "admin access required", Level: LevelError},
		},
		{
			name:  "admin route allows admin",
			route: adminOnly,
			snap:  admin,
			want:  Decision{Allowed: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.route, tc.from, tc.snap))
		})
	}
}
