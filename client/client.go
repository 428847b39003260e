// Package client wires the gateway and the stores into one storefront
// client. The wiring fixes the two cross-store contracts: the session is the
// gateway's token source, and a 401 from any call resets every store once.
package client

import (
	"github.com/rs/zerolog"

	"gomall/client/admin"
	"gomall/client/cart"
	"gomall/client/catalog"
	"gomall/client/gateway"
	"gomall/client/guard"
	"gomall/client/orders"
	"gomall/client/session"
	"gomall/internal/config"
)

type Mall struct {
	Gateway *gateway.Client
	Session *session.Store
	Catalog *catalog.Store
	Cart    *cart.Store
	Orders  *orders.Store
	Admin   *admin.Store

	navigate func(path string)
}

// Option adjusts the client during construction.
type Option func(*Mall)

// WithNavigator registers the callback invoked with the login route after a
// forced logout.
func WithNavigator(fn func(path string)) Option {
	return func(m *Mall) {
		m.navigate = fn
	}
}

func New(cfg config.ClientConfig, log zerolog.Logger, opts ...Option) *Mall {
	gw := gateway.New(cfg, log)
	tokenCache := session.NewTokenCache(cfg.TokenCachePath, cfg.TokenTTL)

	m := &Mall{
		Gateway: gw,
		Session: session.New(gw, tokenCache, log),
		Catalog: catalog.New(gw, log),
		Cart:    cart.New(gw, log),
		Orders:  orders.New(gw, log),
		Admin:   admin.New(gw, log),
	}
	for _, opt := range opts {
		opt(m)
	}

	gw.SetTokenSource(m.Session)
	gw.SetUnauthorizedHook(m.forceLogout)
	return m
}

// Restore rebuilds the session from the persisted token, if one is cached
// and still valid.
func (m *Mall) Restore() bool {
	return m.Session.CheckSession()
}

// Guard checks whether the session may enter the route.
func (m *Mall) Guard(route guard.Route, from string) guard.Decision {
	return guard.Decide(route, from, m.Session.Snapshot())
}

// forceLogout runs when the backend rejects the session. Everything derived
// from the dead session is dropped, then the user is sent to login.
func (m *Mall) forceLogout() {
	m.Session.Logout()
	m.Catalog.Reset()
	m.Cart.Reset()
	m.Orders.Reset()
	m.Admin.Reset()
	if m.navigate != nil {
		m.navigate(guard.LoginRoute)
	}
}
