package models

import "time"

// HistoryAction is one audit-log record.
type HistoryAction struct {
	ID            int64          `json:"id"`
	User          *Owner         `json:"user,omitempty"`
	ActionType    string         `json:"actionType"`
	TargetType    string         `json:"targetType"`
	TargetID      int64          `json:"targetId"`
	ActionDetails map[string]any `json:"actionDetails"`
	Timestamp     time.Time      `json:"timestamp"`
}
