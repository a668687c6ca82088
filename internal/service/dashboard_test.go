package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/service"
)

func seedUsers(t *testing.T, env *testEnv, role domain.Role, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		u := &domain.User{
			AuthID:       uuid.New(),
			Email:        fmt.Sprintf("%s%d@example.com", role, i),
			Role:         role,
			IsActive:     true,
			PasswordHash: "x",
		}
		require.NoError(t, env.db.Users().Create(context.Background(), u))
	}
}

func TestDashboardService_AdminOverview(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env, domain.RoleOrganizer, 3)
	seedUsers(t, env, domain.RoleParticipant, 5)
	seedUsers(t, env, domain.RoleVendor, 2)
	seedUsers(t, env, domain.RoleHost, 1)
	seedUsers(t, env, domain.RoleAdmin, 1)

	svc := service.NewDashboardService(env.db.Users())
	o, err := svc.AdminOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, o.Total)
	assert.Equal(t, 3, o.Organizers)
	assert.Equal(t, 5, o.Participants)
	assert.Equal(t, 2, o.Vendors)
	assert.Equal(t, 1, o.Hosts)
	assert.Len(t, o.RecentUsers, service.AdminPageSize)
	assert.True(t, o.HasMore)
}

func TestDashboardService_UserPage(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env, domain.RoleParticipant, 13)
	svc := service.NewDashboardService(env.db.Users())
	ctx := context.Background()

	first, more, err := svc.UserPage(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, first, service.AdminPageSize)
	assert.True(t, more)

	rest, more, err := svc.UserPage(ctx, service.AdminPageSize)
	require.NoError(t, err)
	assert.Len(t, rest, 3)
	assert.False(t, more)
}
