// Package api wraps the backend's REST endpoints with typed calls. Every call
// goes through the authenticated gateway, so credential handling, refresh and
// failure notifications are applied uniformly.
package api

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/google/go-querystring/query"
)

// Transport is the subset of the gateway the wrappers use.
type Transport interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
	PostJSON(ctx context.Context, path string, in, out any) error
	PatchJSON(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, out any) error
	PostMultipart(ctx context.Context, path, field, filename string, r io.Reader, out any) error
}

// API groups the endpoint wrappers over a single transport.
type API struct {
	Auth      *AuthAPI
	Companies *CompaniesAPI
	Dashboard *DashboardAPI
	History   *HistoryAPI
	Profile   *ProfileAPI
}

func New(t Transport) *API {
	return &API{
		Auth:      &AuthAPI{t: t},
		Companies: &CompaniesAPI{t: t},
		Dashboard: &DashboardAPI{t: t},
		History:   &HistoryAPI{t: t},
		Profile:   &ProfileAPI{t: t},
	}
}

func encodeQuery(v any) (url.Values, error) {
	q, err := query.Values(v)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	return q, nil
}
