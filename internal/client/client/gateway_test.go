package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/companyadmin/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/companyadmin/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fakes
 *************/

type recorder struct {
	mu            sync.Mutex
	notifications []Notification
	navigations   []string
}

func (r *recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorder) Navigate(path string, replace bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if replace {
		path += " (replace)"
	}
	r.navigations = append(r.navigations, path)
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notifications))
	for _, n := range r.notifications {
		out = append(out, n.Message)
	}
	return out
}

// backend is a fake API: /things accepts only the current access token,
// /auth/refresh rotates it when given the expected refresh token.
type backend struct {
	validAccess  atomic.Value
	validRefresh string
	nextAccess   string

	refreshCalls atomic.Int32
	thingCalls   atomic.Int32
	refreshDelay time.Duration
	refreshFails bool

	mu          sync.Mutex
	authHeaders []string
	bodies      []string
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{validRefresh: "R1", nextAccess: "A2"}
	b.validAccess.Store("A1")

	r := chi.NewRouter()
	r.Post(LoginEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
	})
	r.Post(RefreshEndpoint, func(w http.ResponseWriter, r *http.Request) {
		b.refreshCalls.Add(1)
		time.Sleep(b.refreshDelay)

		var req refreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if b.refreshFails || req.Token != b.validRefresh {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid refresh token"})
			return
		}
		b.validAccess.Store(b.nextAccess)
		writeJSON(w, http.StatusOK, map[string]any{"accessToken": b.nextAccess})
	})
	r.HandleFunc("/things", func(w http.ResponseWriter, r *http.Request) {
		b.thingCalls.Add(1)
		body, _ := io.ReadAll(r.Body)

		b.mu.Lock()
		b.authHeaders = append(b.authHeaders, r.Header.Get(common.AuthorizationHeaderName))
		b.bodies = append(b.bodies, string(body))
		b.mu.Unlock()

		if r.Header.Get(common.AuthorizationHeaderName) != common.BearerPrefix+b.validAccess.Load().(string) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "requestId": r.Header.Get(common.RequestIDHeaderName)})
	})
	r.Get("/broken", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Database is down"})
	})
	r.Get("/silent", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.Get("/always401", func(w http.ResponseWriter, r *http.Request) {
		b.thingCalls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Nope"})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestGateway(t *testing.T, srv *httptest.Server, store credentials.Store) (*Gateway, *recorder) {
	t.Helper()
	rec := &recorder{}
	g, err := NewGateway(srv.URL, store, WithNotifier(rec), WithNavigator(rec), WithTimeout(5*time.Second))
	require.NoError(t, err)
	return g, rec
}

func seededStore(t *testing.T, access, refresh string) *credentials.MemoryStore {
	t.Helper()
	s := credentials.NewMemoryStore()
	require.NoError(t, credentials.SavePair(context.Background(), s, access, refresh))
	return s
}

/*************
 * Request decoration
 *************/

func TestGateway_AttachesBearerAndRequestID(t *testing.T) {
	b, srv := newBackend(t)
	g, _ := newTestGateway(t, srv, seededStore(t, "A1", "R1"))

	var out struct {
		OK        bool   `json:"ok"`
		RequestID string `json:"requestId"`
	}
	require.NoError(t, g.GetJSON(context.Background(), "/things", nil, &out))

	assert.True(t, out.OK)
	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, []string{"Bearer A1"}, b.authHeaders)
	assert.EqualValues(t, 0, b.refreshCalls.Load())
}

func TestGateway_NoCredentialNoHeader(t *testing.T) {
	b, srv := newBackend(t)
	g, _ := newTestGateway(t, srv, credentials.NewMemoryStore())
	b.refreshFails = true

	err := g.GetJSON(context.Background(), "/things", nil, nil)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.NotEmpty(t, b.authHeaders)
	assert.Equal(t, "", b.authHeaders[0])
}

func TestGateway_DefaultHeaderOverriddenByStoredCredential(t *testing.T) {
	b, srv := newBackend(t)
	store := credentials.NewMemoryStore()
	g, _ := newTestGateway(t, srv, store)

	g.SetDefaultHeader(common.AuthorizationHeaderName, "Bearer A1")
	require.NoError(t, g.GetJSON(context.Background(), "/things", nil, nil))

	require.NoError(t, store.Set(context.Background(), common.AccessTokenKey, "A1"))
	g.SetDefaultHeader(common.AuthorizationHeaderName, "Bearer stale")
	require.NoError(t, g.GetJSON(context.Background(), "/things", nil, nil))

	g.DeleteDefaultHeader(common.AuthorizationHeaderName)
	assert.Equal(t, []string{"Bearer A1", "Bearer A1"}, b.authHeaders)
}

/*************
 * Refresh protocol
 *************/

func TestGateway_RefreshesOnceAndReplaysOnce(t *testing.T) {
	b, srv := newBackend(t)
	b.validAccess.Store("A2")
	store := seededStore(t, "A1", "R1")
	g, rec := newTestGateway(t, srv, store)

	err := g.PostJSON(context.Background(), "/things", map[string]string{"name": "Acme"}, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 1, b.refreshCalls.Load())
	assert.EqualValues(t, 2, b.thingCalls.Load())
	assert.Equal(t, []string{"Bearer A1", "Bearer A2"}, b.authHeaders)
	assert.Equal(t, b.bodies[0], b.bodies[1], "replay must resend the same body")

	access, refresh, err := credentials.LoadPair(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "A2", access)
	assert.Equal(t, "R1", refresh)
	assert.Empty(t, rec.messages())
	assert.Empty(t, rec.navigations)
}

func TestGateway_RefreshFailureExpiresSession(t *testing.T) {
	b, srv := newBackend(t)
	b.validAccess.Store("A2")
	b.refreshFails = true
	store := seededStore(t, "A1", "R1")
	g, rec := newTestGateway(t, srv, store)

	err := g.GetJSON(context.Background(), "/things", nil, nil)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.ErrorIs(t, err, common.ErrRefreshTokenExpired)
	assert.True(t, Reported(err))

	access, refresh, lerr := credentials.LoadPair(context.Background(), store)
	require.NoError(t, lerr)
	assert.Empty(t, access)
	assert.Empty(t, refresh)

	assert.Equal(t, []string{"/login (replace)"}, rec.navigations)
	assert.Equal(t, []string{"Session expired. Please log in again."}, rec.messages())
	assert.EqualValues(t, 1, b.refreshCalls.Load())
	assert.EqualValues(t, 1, b.thingCalls.Load(), "original request must not be replayed")
}

func TestGateway_RefreshFailureDropsDefaultCredentialAndRunsHooks(t *testing.T) {
	b, srv := newBackend(t)
	b.validAccess.Store("A2")
	b.refreshFails = true
	store := seededStore(t, "A1", "R1")
	g, rec := newTestGateway(t, srv, store)
	g.SetDefaultHeader(common.AuthorizationHeaderName, common.BearerPrefix+"A1")

	var hookCalls atomic.Int32
	var navsAtHook int
	g.OnSessionExpired(func(context.Context) {
		hookCalls.Add(1)
		rec.mu.Lock()
		navsAtHook = len(rec.navigations)
		rec.mu.Unlock()
	})

	err := g.GetJSON(context.Background(), "/things", nil, nil)
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.EqualValues(t, 1, hookCalls.Load())
	assert.Zero(t, navsAtHook, "hooks run before navigation")

	_ = g.GetJSON(context.Background(), "/things", nil, nil)

	b.mu.Lock()
	defer b.mu.Unlock()
	require.Len(t, b.authHeaders, 2)
	assert.Equal(t, "Bearer A1", b.authHeaders[0])
	assert.Empty(t, b.authHeaders[1], "expired credential must not be sent again")
}

func TestGateway_MissingRefreshCredentialExpiresSession(t *testing.T) {
	b, srv := newBackend(t)
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), common.AccessTokenKey, "stale"))
	g, rec := newTestGateway(t, srv, store)

	err := g.GetJSON(context.Background(), "/things", nil, nil)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.ErrorIs(t, err, common.ErrNoRefreshToken)

	assert.EqualValues(t, 0, b.refreshCalls.Load())
	assert.Equal(t, []string{"/login (replace)"}, rec.navigations)
	v, _ := store.Get(context.Background(), common.AccessTokenKey)
	assert.Empty(t, v)
}

func TestGateway_AuthEndpointsAreNeverRecovered(t *testing.T) {
	for _, path := range []string{LoginEndpoint, RefreshEndpoint} {
		t.Run(path, func(t *testing.T) {
			b, srv := newBackend(t)
			b.refreshFails = true
			g, rec := newTestGateway(t, srv, seededStore(t, "A1", "R1"))

			err := g.PostJSON(context.Background(), path, map[string]string{"token": "bad"}, nil)
			require.ErrorIs(t, err, ErrUnauthorized)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

			wantRefreshCalls := int32(0)
			if path == RefreshEndpoint {
				wantRefreshCalls = 1 // the call under test itself
			}
			assert.Equal(t, wantRefreshCalls, b.refreshCalls.Load())
			assert.Empty(t, rec.navigations)
			assert.Empty(t, rec.messages())
			assert.False(t, Reported(err))
		})
	}
}

func TestGateway_SecondUnauthorizedIsPropagatedWithoutAnotherRefresh(t *testing.T) {
	b, srv := newBackend(t)
	g, rec := newTestGateway(t, srv, seededStore(t, "A1", "R1"))

	err := g.GetJSON(context.Background(), "/always401", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)

	assert.EqualValues(t, 1, b.refreshCalls.Load())
	assert.EqualValues(t, 2, b.thingCalls.Load())
	assert.Equal(t, []string{"Nope"}, rec.messages())
	assert.Empty(t, rec.navigations)
}

func TestGateway_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	b, srv := newBackend(t)
	b.validAccess.Store("A2")
	b.refreshDelay = 50 * time.Millisecond
	store := seededStore(t, "A1", "R1")
	g, rec := newTestGateway(t, srv, store)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = g.GetJSON(context.Background(), "/things", nil, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, b.refreshCalls.Load())
	assert.Empty(t, rec.navigations)

	v, _ := store.Get(context.Background(), common.AccessTokenKey)
	assert.Equal(t, "A2", v)
}

func TestGateway_ConcurrentRefreshFailureNavigatesOnce(t *testing.T) {
	b, srv := newBackend(t)
	b.validAccess.Store("A2")
	b.refreshFails = true
	b.refreshDelay = 50 * time.Millisecond
	g, rec := newTestGateway(t, srv, seededStore(t, "A1", "R1"))

	const n = 5
	var wg sync.WaitGroup
	var expired atomic.Int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if errors.Is(g.GetJSON(context.Background(), "/things", nil, nil), ErrSessionExpired) {
				expired.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, n, expired.Load())
	assert.EqualValues(t, 1, b.refreshCalls.Load())
	assert.Equal(t, []string{"/login (replace)"}, rec.navigations)
	assert.Equal(t, []string{"Session expired. Please log in again."}, rec.messages())
}

/*************
 * Generic failure reporting
 *************/

func TestGateway_ReportsServerMessage(t *testing.T) {
	_, srv := newBackend(t)
	g, rec := newTestGateway(t, srv, seededStore(t, "A1", "R1"))

	err := g.GetJSON(context.Background(), "/broken", nil, nil)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, Reported(err))
	assert.Equal(t, []string{"Database is down"}, rec.messages())
	assert.Equal(t, LevelError, rec.notifications[0].Level)
}

func TestGateway_ReportsFallbackMessage(t *testing.T) {
	_, srv := newBackend(t)
	g, rec := newTestGateway(t, srv, seededStore(t, "A1", "R1"))

	err := g.GetJSON(context.Background(), "/silent", nil, nil)
	require.Error(t, err)
	assert.Equal(t, []string{"request failed with status code 502"}, rec.messages())
}

func TestGateway_TransportErrorIsUnavailable(t *testing.T) {
	_, srv := newBackend(t)
	g, rec := newTestGateway(t, srv, seededStore(t, "A1", "R1"))
	srv.Close()

	err := g.GetJSON(context.Background(), "/things", nil, nil)
	require.ErrorIs(t, err, ErrUnavailable)
	require.Len(t, rec.messages(), 1)
}

func TestGateway_CancelledContextIsNotReported(t *testing.T) {
	_, srv := newBackend(t)
	g, rec := newTestGateway(t, srv, seededStore(t, "A1", "R1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.GetJSON(ctx, "/things", nil, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, Reported(err))
	assert.Empty(t, rec.messages())
}

/*************
 * Multipart
 *************/

func TestGateway_MultipartReplayAfterRefresh(t *testing.T) {
	b, srv := newBackend(t)
	b.validAccess.Store("A2")
	g, _ := newTestGateway(t, srv, seededStore(t, "A1", "R1"))

	err := g.PostMultipart(context.Background(), "/things", "logo", "logo.png", strings.NewReader("PNGDATA"), nil)
	require.NoError(t, err)

	require.Len(t, b.bodies, 2)
	assert.Contains(t, b.bodies[1], `name="logo"; filename="logo.png"`)
	assert.Contains(t, b.bodies[1], "PNGDATA")
	assert.Equal(t, b.bodies[0], b.bodies[1])
}

/*************
 * Construction, errors, tokens
 *************/

func TestNewGateway_Validation(t *testing.T) {
	_, err := NewGateway("not a url", credentials.NewMemoryStore())
	require.Error(t, err)
	_, err = NewGateway("http://localhost:3001", nil)
	require.Error(t, err)
	_, err = NewGateway("http://localhost:3001/", credentials.NewMemoryStore())
	require.NoError(t, err)
}

func TestWithTimeout_AppliesToPrivateCopy(t *testing.T) {
	store := credentials.NewMemoryStore()

	shared := &http.Client{}
	g, err := NewGateway("http://localhost:3001", store, WithTimeout(3*time.Second), WithHTTPClient(shared))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, g.http.Timeout)
	assert.Zero(t, shared.Timeout)
	assert.NotSame(t, shared, g.http)

	g, err = NewGateway("http://localhost:3001", store, WithHTTPClient(http.DefaultClient), WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Second, g.http.Timeout)
	assert.Zero(t, http.DefaultClient.Timeout)

	g, err = NewGateway("http://localhost:3001", store, WithHTTPClient(shared))
	require.NoError(t, err)
	assert.Same(t, shared, g.http)
}

func TestGateway_ResolveMergesQuery(t *testing.T) {
	g, err := NewGateway("http://api.local/v1", credentials.NewMemoryStore())
	require.NoError(t, err)

	got := g.resolve(&Request{Path: "/companies/my?page=2", Query: map[string][]string{"limit": {"10"}}})
	assert.Equal(t, "http://api.local/v1/companies/my?limit=10&page=2", got)
}

func TestIsAuthEndpoint(t *testing.T) {
	assert.True(t, isAuthEndpoint("/auth/login"))
	assert.True(t, isAuthEndpoint("/auth/refresh?x=1"))
	assert.False(t, isAuthEndpoint("/auth/me"))
	assert.False(t, isAuthEndpoint("/companies"))
}

func TestAPIError_Mapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnprocessableEntity, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusServiceUnavailable, ErrUnavailable},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, &APIError{StatusCode: tt.status}, tt.want)
	}
	assert.Nil(t, (&APIError{StatusCode: http.StatusTeapot}).Unwrap())
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "boom", serverMessage([]byte(`{"message":"boom"}`)))
	assert.Equal(t, "name should not be empty; capital must be a number",
		serverMessage([]byte(`{"message":["name should not be empty","capital must be a number"]}`)))
	assert.Equal(t, "", serverMessage([]byte(`<html>`)))
	assert.Equal(t, "", serverMessage(nil))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "boom", UserMessage(&APIError{StatusCode: 500, Message: "boom"}))
	assert.Equal(t, "request failed with status code 500", UserMessage(&APIError{StatusCode: 500}))
	assert.Equal(t, "Unknown error", UserMessage(nil))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "exp": exp.Unix()}).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, err := TokenExpiry(token)
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = TokenExpiry(noExp)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = TokenExpiry("garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
