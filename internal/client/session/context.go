package session

import "context"

type ctxKey struct{}

// WithManager scopes m to ctx. The CLI does this once at the application root.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

func FromContext(ctx context.Context) (*Manager, bool) {
	m, ok := ctx.Value(ctxKey{}).(*Manager)
	return m, ok && m != nil
}

// MustFromContext panics when ctx was not derived from WithManager.
func MustFromContext(ctx context.Context) *Manager {
	m, ok := FromContext(ctx)
	if !ok {
		panic("session: manager used outside of application scope")
	}
	return m
}
