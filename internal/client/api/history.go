package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/companyadmin/internal/client/models"
)

const (
	historyAllPath  = "/history/all"
	historyUserPath = "/history/user"
)

type HistoryAPI struct {
	t Transport
}

// List returns the audit log. With all set it returns every user's actions
// (privileged), otherwise only the caller's.
func (h *HistoryAPI) List(ctx context.Context, all bool) ([]models.HistoryAction, error) {
	path := historyUserPath
	if all {
		path = historyAllPath
	}

	var raw json.RawMessage
	if err := h.t.GetJSON(ctx, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeHistory(raw)
}

// decodeHistory accepts a bare list or a {"data": [...]} envelope.
func decodeHistory(raw json.RawMessage) ([]models.HistoryAction, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '{' {
		var env struct {
			Data []models.HistoryAction `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decode history: %w", err)
		}
		return env.Data, nil
	}

	var out []models.HistoryAction
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return out, nil
}
