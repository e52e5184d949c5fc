package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/companyadmin/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/companyadmin/internal/common"
	"github.com/dmitrijs2005/companyadmin/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Endpoints the gateway itself knows about. A 401 from either is never
// recovered by a refresh.
const (
	LoginEndpoint   = "/auth/login"
	RefreshEndpoint = "/auth/refresh"
)

const defaultTimeout = 15 * time.Second

// Request is a buffered outbound request. Bodies are kept in memory so the
// request can be replayed byte for byte after a refresh.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        []byte
	ContentType string

	retried   bool
	sentToken string
}

// Response is a fully read backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

type Gateway struct {
	baseURL   *url.URL
	http      *http.Client
	store     credentials.Store
	notifier  Notifier
	navigator Navigator
	logger    logging.Logger
	timeout   time.Duration

	mu       sync.RWMutex
	defaults http.Header
	// expired is the access credential whose refresh last failed.
	expired   string
	onExpired []func(context.Context)

	refreshGroup singleflight.Group
}

type Option func(*Gateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.http = c }
}

// WithTimeout bounds every request. It applies to a copy of the HTTP client,
// whatever the order of options.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

func WithNotifier(n Notifier) Option {
	return func(g *Gateway) { g.notifier = n }
}

func WithNavigator(n Navigator) Option {
	return func(g *Gateway) { g.navigator = n }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// NewGateway builds a gateway for the backend at baseURL reading and writing
// credentials through store.
func NewGateway(baseURL string, store credentials.Store, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: scheme and host required", baseURL)
	}
	if store == nil {
		return nil, errors.New("credential store is required")
	}

	g := &Gateway{
		baseURL:   u,
		http:      &http.Client{Timeout: defaultTimeout},
		store:     store,
		notifier:  nopNotifier{},
		navigator: nopNavigator{},
		logger:    logging.Nop{},
		defaults:  make(http.Header),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.timeout > 0 {
		hc := *g.http
		hc.Timeout = g.timeout
		g.http = &hc
	}
	return g, nil
}

// SetNotifier replaces the notifier. Front ends that are built after the
// gateway use it to hook in their own output.
func (g *Gateway) SetNotifier(n Notifier) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notifier = n
}

func (g *Gateway) SetNavigator(n Navigator) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.navigator = n
}

// OnSessionExpired registers fn to run after a failed refresh cleared the
// stored credentials, before the user is sent to the login screen.
func (g *Gateway) OnSessionExpired(fn func(ctx context.Context)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onExpired = append(g.onExpired, fn)
}

// SetDefaultHeader sets a header sent with every request. A persisted access
// credential still takes precedence over a default Authorization header.
func (g *Gateway) SetDefaultHeader(key, value string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.defaults.Set(key, value)
}

func (g *Gateway) DeleteDefaultHeader(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.defaults.Del(key)
}

// Do sends req and returns the response of a 2xx outcome. See the package
// documentation for the refresh and reporting rules.
func (g *Gateway) Do(ctx context.Context, req *Request) (*Response, error) {
	resp, err := g.dispatch(ctx, req)
	if err != nil {
		return nil, g.report(ctx, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if isAuthEndpoint(req.Path) {
			return nil, newAPIError(resp)
		}
		if !req.retried {
			return g.replayAfterRefresh(ctx, req)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, g.report(ctx, newAPIError(resp))
	}
	return resp, nil
}

func (g *Gateway) replayAfterRefresh(ctx context.Context, req *Request) (*Response, error) {
	if _, err := g.refresh(ctx, req.sentToken); err != nil {
		return nil, err
	}

	retry := *req
	retry.retried = true
	return g.Do(ctx, &retry)
}

// refresh returns an access credential newer than stale. Concurrent callers
// share a single exchange and its outcome.
func (g *Gateway) refresh(ctx context.Context, stale string) (string, error) {
	v, err, shared := g.refreshGroup.Do("refresh", func() (any, error) {
		return g.exchangeRefreshToken(context.WithoutCancel(ctx), stale)
	})
	if shared {
		g.logger.Debug(ctx, "joined in-flight credential refresh")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

type refreshRequest struct {
	Token string `json:"token"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (g *Gateway) exchangeRefreshToken(ctx context.Context, stale string) (string, error) {
	current, err := g.store.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", g.expireSession(ctx, stale, err)
	}
	// Another caller already replaced the credential this request was sent with.
	if current != "" && current != stale {
		return current, nil
	}
	// The session of this credential already expired and the user was told so.
	if g.alreadyExpired(stale) {
		return "", reportedError{ErrSessionExpired}
	}

	refreshToken, err := g.store.Get(ctx, common.RefreshTokenKey)
	if err != nil {
		return "", g.expireSession(ctx, stale, err)
	}
	if refreshToken == "" {
		return "", g.expireSession(ctx, stale, common.ErrNoRefreshToken)
	}

	body, err := encodeJSON(refreshRequest{Token: refreshToken})
	if err != nil {
		return "", g.expireSession(ctx, stale, err)
	}

	resp, err := g.dispatch(ctx, &Request{
		Method:      http.MethodPost,
		Path:        RefreshEndpoint,
		Body:        body,
		ContentType: contentTypeJSON,
	})
	if err != nil {
		return "", g.expireSession(ctx, stale, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", g.expireSession(ctx, stale, fmt.Errorf("%w: %w", common.ErrRefreshTokenExpired, newAPIError(resp)))
	}

	var out refreshResponse
	if err := decodeJSON(resp.Body, &out); err != nil {
		return "", g.expireSession(ctx, stale, err)
	}
	if out.AccessToken == "" {
		return "", g.expireSession(ctx, stale, common.ErrInvalidToken)
	}

	if err := g.store.Set(ctx, common.AccessTokenKey, out.AccessToken); err != nil {
		return "", g.expireSession(ctx, stale, err)
	}
	if out.RefreshToken != "" {
		if err := g.store.Set(ctx, common.RefreshTokenKey, out.RefreshToken); err != nil {
			return "", g.expireSession(ctx, stale, err)
		}
	}

	g.logger.Info(ctx, "access credential refreshed")
	return out.AccessToken, nil
}

// expireSession is the terminal step of a failed refresh.
func (g *Gateway) expireSession(ctx context.Context, stale string, cause error) error {
	g.logger.Warn(ctx, "credential refresh failed", "error", cause)

	g.mu.Lock()
	g.expired = stale
	g.mu.Unlock()

	if err := credentials.ClearPair(ctx, g.store); err != nil {
		g.logger.Error(ctx, "failed to clear credentials", "error", err)
	}
	g.DeleteDefaultHeader(common.AuthorizationHeaderName)

	g.mu.RLock()
	navigator, notifier := g.navigator, g.notifier
	hooks := append([]func(context.Context){}, g.onExpired...)
	g.mu.RUnlock()

	for _, fn := range hooks {
		fn(ctx)
	}
	navigator.Navigate(common.LoginPath, true)
	notifier.Notify(ctx, Notification{Level: LevelError, Message: "Session expired. Please log in again."})

	return reportedError{fmt.Errorf("%w: %w", ErrSessionExpired, cause)}
}

func (g *Gateway) alreadyExpired(stale string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return stale != "" && stale == g.expired
}

// report notifies the user about err and returns it. Cancellation is not
// reported.
func (g *Gateway) report(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	g.mu.RLock()
	notifier := g.notifier
	g.mu.RUnlock()

	notifier.Notify(ctx, Notification{Level: LevelError, Message: UserMessage(err)})
	return reportedError{err}
}

func (g *Gateway) dispatch(ctx context.Context, req *Request) (*Response, error) {
	target := g.resolve(req)

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	token, err := g.decorate(ctx, httpReq, req)
	if err != nil {
		return nil, err
	}
	req.sentToken = token

	requestID := httpReq.Header.Get(common.RequestIDHeaderName)
	started := time.Now()

	httpResp, err := g.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	g.logger.Debug(ctx, "request completed",
		"method", req.Method,
		"path", req.Path,
		"status", httpResp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(started),
	)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
		RequestID:  requestID,
	}, nil
}

// decorate applies default headers, the bearer credential and a request id.
// It returns the access credential that was attached, if any.
func (g *Gateway) decorate(ctx context.Context, httpReq *http.Request, req *Request) (string, error) {
	g.mu.RLock()
	for k, vs := range g.defaults {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	g.mu.RUnlock()

	token, err := g.store.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", fmt.Errorf("read access credential: %w", err)
	}
	if token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	httpReq.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	httpReq.Header.Set("Accept", contentTypeJSON)
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	return token, nil
}

func (g *Gateway) resolve(req *Request) string {
	u := *g.baseURL
	path, rawQuery, _ := strings.Cut(req.Path, "?")
	u.Path = g.baseURL.Path + path

	q, _ := url.ParseQuery(rawQuery)
	for k, vs := range req.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func isAuthEndpoint(path string) bool {
	path, _, _ = strings.Cut(path, "?")
	return strings.HasSuffix(path, LoginEndpoint) || strings.HasSuffix(path, RefreshEndpoint)
}
