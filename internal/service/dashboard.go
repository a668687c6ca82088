package service

import (
	"context"
	"fmt"

	"github.com/tinggo/tinggo/internal/domain"
)

// AdminPageSize is the number of users shown per admin dashboard page.
const AdminPageSize = 10

// AdminOverview is the data behind the admin dashboard.
type AdminOverview struct {
	RecentUsers  []domain.User
	Total        int
	Organizers   int
	Participants int
	Vendors      int
	Hosts        int
	HasMore      bool
}

// DashboardService aggregates user statistics for the dashboards.
type DashboardService struct {
	users domain.UserRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(users domain.UserRepository) *DashboardService {
	return &DashboardService{users: users}
}

// AdminOverview returns the newest users and per-role totals.
func (s *DashboardService) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	recent, err := s.users.ListRecent(ctx, AdminPageSize, 0)
	if err != nil {
		return nil, fmt.Errorf("list recent users: %w", err)
	}

	o := &AdminOverview{RecentUsers: recent}
	if o.Total, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	counts := map[domain.Role]*int{
		domain.RoleOrganizer:   &o.Organizers,
		domain.RoleParticipant: &o.Participants,
		domain.RoleVendor:      &o.Vendors,
		domain.RoleHost:        &o.Hosts,
	}
	for role, dst := range counts {
		if *dst, err = s.users.CountByRole(ctx, role); err != nil {
			return nil, fmt.Errorf("count %s users: %w", role, err)
		}
	}
	o.HasMore = o.Total > len(recent)
	return o, nil
}

// UserPage returns the users after offset, newest first, and whether more remain.
func (s *DashboardService) UserPage(ctx context.Context, offset int) ([]domain.User, bool, error) {
	if offset < 0 {
		offset = 0
	}
	// One extra row tells us whether another page exists.
	users, err := s.users.ListRecent(ctx, AdminPageSize+1, offset)
	if err != nil {
		return nil, false, fmt.Errorf("list users: %w", err)
	}
	if len(users) > AdminPageSize {
		return users[:AdminPageSize], true, nil
	}
	return users, false, nil
}
