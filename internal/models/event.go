package models

import "time"

// Event types published on the complaints channel.
const (
	EventComplaintCreated = "complaint.created"
	EventDuplicateLinked  = "complaint.duplicate_linked"
)

// ComplaintEvent is broadcast through Redis Pub/Sub to dashboard listeners.
type ComplaintEvent struct {
	Type                string    `json:"type"`
	ComplaintID         string    `json:"complaintId"`
	OriginalComplaintID string    `json:"originalComplaintId,omitempty"`
	CustomerEmail       string    `json:"customerEmail"`
	Category            string    `json:"category,omitempty"`
	IsDuplicate         bool      `json:"isDuplicate"`
	Timestamp           time.Time `json:"timestamp"`
}
