// Package admin caches the privileged management views: the user roster and
// the dashboard statistics. Role and status changes are written to both the
// cached list and the detail view in the same mutation so an open detail
// panel never shows stale data next to a fresh list.
package admin

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"gomall/client/gateway"
	"gomall/internal/models"
)

type Store struct {
	gw  *gateway.Client
	log zerolog.Logger

	// mu guards the fields below; the apply* mutation methods are their
	// only writers.
	mu            sync.Mutex
	users         []models.User
	currentUser   *models.User
	total         int
	system        *models.SystemStats
	sales         *models.SalesStats
	ranking       []models.ProductRankEntry
	registrations []models.RegistrationPoint
	loading       bool
}

func New(gw *gateway.Client, log zerolog.Logger) *Store {
	return &Store{gw: gw, log: log}
}

func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Store) CurrentUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return models.User{}, false
	}
	return *s.currentUser, true
}

func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *Store) SystemStats() (models.SystemStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.system == nil {
		return models.SystemStats{}, false
	}
	return *s.system, true
}

func (s *Store) SalesStats() (models.SalesStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sales == nil {
		return models.SalesStats{}, false
	}
	return *s.sales, true
}

func (s *Store) ProductRanking() []models.ProductRankEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ProductRankEntry, len(s.ranking))
	copy(out, s.ranking)
	return out
}

func (s *Store) UserRegistrations() []models.RegistrationPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.RegistrationPoint, len(s.registrations))
	copy(out, s.registrations)
	return out
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Reset drops all cached admin state, as on forced logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = nil
	s.currentUser = nil
	s.total = 0
	s.system = nil
	s.sales = nil
	s.ranking = nil
	s.registrations = nil
	s.loading = false
}

// UserFilter narrows the user listing.
type UserFilter struct {
	Keyword  string
	Role     models.UserRole
	Status   models.UserStatus
	Page     int
	PageSize int
}

func (s *Store) ListUsers(ctx context.Context, filter UserFilter) gateway.Result {
	params := url.Values{}
	if filter.Keyword != "" {
		params.Set("keyword", filter.Keyword)
	}
	if filter.Role != "" {
		params.Set("role", string(filter.Role))
	}
	if filter.Status != "" {
		params.Set("status", string(filter.Status))
	}
	if filter.Page > 0 {
		params.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(filter.PageSize))
	}

	s.setLoading(true)
	defer s.setLoading(false)

	env, err := s.gw.Get(ctx, "/admin/user/list", params)
	if err != nil {
		s.log.Error().Err(err).Msg("admin user list failed")
		return gateway.Fail("could not load users")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var payload models.UserPage
	if err := gateway.Decode(env.Data, &payload); err != nil {
		s.log.Error().Err(err).Msg("admin user list payload malformed")
		return gateway.Fail("could not load users")
	}

	s.mu.Lock()
	s.users = payload.Users
	s.total = payload.Total
	s.mu.Unlock()
	return gateway.OK()
}

func (s *Store) UserDetail(ctx context.Context, id string) gateway.Result {
	env, err := s.gw.Get(ctx, "/admin/user/detail/"+id, nil)
	if err != nil {
		s.log.Error().Err(err).Str("user", id).Msg("admin user detail failed")
		return gateway.Fail("could not load user")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var user models.User
	if err := gateway.Decode(env.Data, &user); err != nil {
		s.log.Error().Err(err).Msg("admin user detail payload malformed")
		return gateway.Fail("could not load user")
	}

	s.mu.Lock()
	s.currentUser = &user
	s.mu.Unlock()
	return gateway.OK()
}

func (s *Store) SetUserRole(ctx context.Context, id string, role models.UserRole) gateway.Result {
	env, err := s.gw.Put(ctx, "/admin/user/role/"+id, map[string]models.UserRole{"role": role})
	if err != nil {
		s.log.Error().Err(err).Str("user", id).Msg("admin role update failed")
		return gateway.Fail("could not update role")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	s.applyRole(id, role)
	return gateway.OK()
}

func (s *Store) SetUserStatus(ctx context.Context, id string, status models.UserStatus) gateway.Result {
	env, err := s.gw.Put(ctx, "/admin/user/status/"+id, map[string]models.UserStatus{"status": status})
	if err != nil {
		s.log.Error().Err(err).Str("user", id).Msg("admin status update failed")
		return gateway.Fail("could not update status")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	s.applyStatus(id, status)
	return gateway.OK()
}

func (s *Store) LoadSystemStats(ctx context.Context) gateway.Result {
	var stats models.SystemStats
	if result := s.fetchStats(ctx, "/admin/statistics/system", &stats); !result.Success {
		return result
	}
	s.mu.Lock()
	s.system = &stats
	s.mu.Unlock()
	return gateway.OK()
}

func (s *Store) LoadSalesStats(ctx context.Context) gateway.Result {
	var stats models.SalesStats
	if result := s.fetchStats(ctx, "/admin/statistics/sales", &stats); !result.Success {
		return result
	}
	s.mu.Lock()
	s.sales = &stats
	s.mu.Unlock()
	return gateway.OK()
}

func (s *Store) LoadProductRanking(ctx context.Context) gateway.Result {
	var ranking []models.ProductRankEntry
	if result := s.fetchStats(ctx, "/admin/statistics/productRanking", &ranking); !result.Success {
		return result
	}
	s.mu.Lock()
	s.ranking = ranking
	s.mu.Unlock()
	return gateway.OK()
}

func (s *Store) LoadUserRegistrations(ctx context.Context) gateway.Result {
	var points []models.RegistrationPoint
	if result := s.fetchStats(ctx, "/admin/statistics/userRegistrations", &points); !result.Success {
		return result
	}
	s.mu.Lock()
	s.registrations = points
	s.mu.Unlock()
	return gateway.OK()
}

func (s *Store) fetchStats(ctx context.Context, path string, out any) gateway.Result {
	env, err := s.gw.Get(ctx, path, nil)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("statistics fetch failed")
		return gateway.Fail("could not load statistics")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}
	if err := gateway.Decode(env.Data, out); err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("statistics payload malformed")
		return gateway.Fail("could not load statistics")
	}
	return gateway.OK()
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// applyRole writes the new role into both the list entry and the open
// detail view.
func (s *Store) applyRole(id string, role models.UserRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Role = role
			break
		}
	}
	if s.currentUser != nil && s.currentUser.ID == id {
		updated := *s.currentUser
		updated.Role = role
		s.currentUser = &updated
	}
}

func (s *Store) applyStatus(id string, status models.UserStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Status = status
			break
		}
	}
	if s.currentUser != nil && s.currentUser.ID == id {
		updated := *s.currentUser
		updated.Status = status
		s.currentUser = &updated
	}
}
