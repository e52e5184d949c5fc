package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/dmitrijs2005/companyadmin/internal/client/models"
	"github.com/dmitrijs2005/companyadmin/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/companyadmin/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHeaders struct {
	mu sync.Mutex
	h  http.Header
}

func newFakeHeaders() *fakeHeaders { return &fakeHeaders{h: make(http.Header)} }

func (f *fakeHeaders) SetDefaultHeader(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.h.Set(key, value)
}

func (f *fakeHeaders) DeleteDefaultHeader(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.h.Del(key)
}

func (f *fakeHeaders) get(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.h.Get(key)
}

type fakeUsers struct {
	user  *models.User
	err   error
	calls int
}

func (f *fakeUsers) Me(context.Context) (*models.User, error) {
	f.calls++
	return f.user, f.err
}

func newTestManager(t *testing.T, users *fakeUsers) (*Manager, *credentials.MemoryStore, *fakeHeaders) {
	t.Helper()
	store := credentials.NewMemoryStore()
	headers := newFakeHeaders()
	return NewManager(store, headers, users, nil), store, headers
}

func requireNoCredentials(t *testing.T, store credentials.Store) {
	t.Helper()
	a, r, err := credentials.LoadPair(context.Background(), store)
	require.NoError(t, err)
	require.Empty(t, a)
	require.Empty(t, r)
}

func TestManager_StartsLoading(t *testing.T) {
	m, _, _ := newTestManager(t, &fakeUsers{})
	assert.Equal(t, StatusLoading, m.Snapshot().Status)
	assert.False(t, m.Snapshot().IsAuthenticated())
}

func TestManager_InitWithoutCredentialSkipsFetch(t *testing.T) {
	users := &fakeUsers{user: &models.User{ID: 1, Email: "a@b.c", Role: models.RoleUser}}
	m, _, _ := newTestManager(t, users)

	st := m.Init(context.Background())

	assert.Equal(t, StatusUnauthenticated, st.Status)
	assert.Nil(t, st.User)
	assert.Zero(t, users.calls)
}

func TestManager_InitResolvesStoredSession(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{user: &models.User{ID: 7, Email: "admin@x.io", Role: models.RoleAdmin}}
	m, store, headers := newTestManager(t, users)
	require.NoError(t, credentials.SavePair(ctx, store, "A", "R"))

	st := m.Init(ctx)

	require.Equal(t, StatusAuthenticated, st.Status)
	assert.Equal(t, models.RoleAdmin, st.Role)
	assert.Equal(t, "admin@x.io", st.User.Email)
	assert.Equal(t, "Bearer A", headers.get(common.AuthorizationHeaderName))
}

func TestManager_InitFetchFailureDegradesToUnauthenticated(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{err: errors.New("boom")}
	m, store, headers := newTestManager(t, users)
	require.NoError(t, credentials.SavePair(ctx, store, "A", "R"))

	st := m.Init(ctx)

	assert.Equal(t, StatusUnauthenticated, st.Status)
	assert.Empty(t, headers.get(common.AuthorizationHeaderName))
	requireNoCredentials(t, store)
}

func TestManager_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		users := &fakeUsers{user: &models.User{ID: 3, Email: "u@x.io", Role: models.RoleUser}}
		m, store, headers := newTestManager(t, users)

		require.NoError(t, m.Login(ctx, "A", "R"))

		st := m.Snapshot()
		require.True(t, st.IsAuthenticated())
		assert.Equal(t, models.RoleUser, st.Role)
		assert.Equal(t, "Bearer A", headers.get(common.AuthorizationHeaderName))

		a, r, err := credentials.LoadPair(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, "A", a)
		assert.Equal(t, "R", r)
	})

	t.Run("identity fetch fails", func(t *testing.T) {
		users := &fakeUsers{err: errors.New("unreachable")}
		m, store, headers := newTestManager(t, users)

		err := m.Login(ctx, "A", "R")
		require.Error(t, err)
		assert.ErrorContains(t, err, "unreachable")

		assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
		assert.Empty(t, headers.get(common.AuthorizationHeaderName))
		requireNoCredentials(t, store)
	})

	t.Run("invalid role in response", func(t *testing.T) {
		users := &fakeUsers{user: &models.User{ID: 3, Email: "u@x.io"}}
		m, store, _ := newTestManager(t, users)

		require.Error(t, m.Login(ctx, "A", "R"))
		assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
		requireNoCredentials(t, store)
	})
}

func TestManager_LogoutFromAnyState(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: 1, Email: "s@x.io", Role: models.RoleSuperAdmin}

	prepare := map[string]func(m *Manager, store credentials.Store){
		"loading":         func(*Manager, credentials.Store) {},
		"unauthenticated": func(m *Manager, _ credentials.Store) { m.Init(ctx) },
		"authenticated": func(m *Manager, _ credentials.Store) {
			require.NoError(t, m.Login(ctx, "A", "R"))
		},
		"stale credentials": func(_ *Manager, store credentials.Store) {
			require.NoError(t, credentials.SavePair(ctx, store, "A", "R"))
		},
	}

	for name, setup := range prepare {
		t.Run(name, func(t *testing.T) {
			m, store, headers := newTestManager(t, &fakeUsers{user: user})
			setup(m, store)

			m.Logout(ctx)
			first := m.Snapshot()
			m.Logout(ctx)

			assert.Equal(t, StatusUnauthenticated, first.Status)
			assert.Equal(t, first, m.Snapshot())
			assert.Empty(t, headers.get(common.AuthorizationHeaderName))
			requireNoCredentials(t, store)
		})
	}
}

func TestManager_OnChange(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, &fakeUsers{user: &models.User{ID: 1, Email: "u@x.io", Role: models.RoleUser}})

	var seen []Status
	m.OnChange(func(s State) { seen = append(seen, s.Status) })

	require.NoError(t, m.Login(ctx, "A", "R"))
	m.Logout(ctx)

	assert.Equal(t, []Status{StatusAuthenticated, StatusUnauthenticated}, seen)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "unauthenticated", StatusUnauthenticated.String())
	assert.Equal(t, "authenticated", StatusAuthenticated.String())
	assert.Equal(t, "status(9)", Status(9).String())
}

func TestContextAccessors(t *testing.T) {
	m, _, _ := newTestManager(t, &fakeUsers{})

	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	assert.Panics(t, func() { MustFromContext(context.Background()) })

	ctx := WithManager(context.Background(), m)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, m, got)
	assert.Same(t, m, MustFromContext(ctx))
}
