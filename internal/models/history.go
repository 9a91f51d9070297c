package models

import (
	"time"

	"gorm.io/datatypes"
)

// History actions
const (
	ActionCreated         = "created"
	ActionUpdated         = "updated"
	ActionDuplicateLinked = "duplicate_linked"
)

// SystemActor is recorded as the user of every entry the engine writes.
const SystemActor = "system"

// HistoryEntry is one item of a complaint's append-only processing history.
type HistoryEntry struct {
	Action    string            `json:"action"`
	Timestamp time.Time         `json:"timestamp"`
	UserID    string            `json:"userId,omitempty"`
	Details   datatypes.JSONMap `json:"details,omitempty"`
}

// NewHistoryEntry builds an entry written by the system actor.
func NewHistoryEntry(action string, at time.Time, details map[string]interface{}) HistoryEntry {
	return HistoryEntry{
		Action:    action,
		Timestamp: at,
		UserID:    SystemActor,
		Details:   datatypes.JSONMap(details),
	}
}
