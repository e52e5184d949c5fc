// Package credentials persists the access/refresh credential pair.
//
// Store is the only way the gateway and the session manager reach persisted
// credentials. Two implementations are provided: MemoryStore for tests and
// ephemeral sessions, and SQLiteStore for the CLI, which keeps the pair
// across runs. A missing key reads as the empty string.
package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/companyadmin/internal/common"
)

// Store holds nothing but the credential pair, so Clear drops the whole pair.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// PairSetter is implemented by stores able to write both credentials atomically.
type PairSetter interface {
	SetPair(ctx context.Context, access, refresh string) error
}

// LoadPair reads both credentials. Missing values are returned empty.
func LoadPair(ctx context.Context, s Store) (access, refresh string, err error) {
	access, err = s.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.Get(ctx, common.RefreshTokenKey)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// SavePair persists both credentials, atomically when the store supports it.
func SavePair(ctx context.Context, s Store, access, refresh string) error {
	if ps, ok := s.(PairSetter); ok {
		return ps.SetPair(ctx, access, refresh)
	}
	if err := s.Set(ctx, common.AccessTokenKey, access); err != nil {
		return err
	}
	return s.Set(ctx, common.RefreshTokenKey, refresh)
}

// ClearPair removes both credentials. Clearing an empty store is not an error.
func ClearPair(ctx context.Context, s Store) error {
	if err := s.Clear(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
