package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Complaint statuses
const (
	StatusNew       = "new"
	StatusDuplicate = "duplicate"
)

// Complaint is a classified customer-support complaint as persisted in PostgreSQL.
// The dedup-owned fields (ContentHash, IsDuplicate, OriginalComplaintID,
// RelatedComplaints) are written only by the complaint service.
type Complaint struct {
	// ID is the store-assigned identifier (UUID).
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	CustomerID    string `gorm:"type:text" json:"customerId,omitempty"`
	CustomerEmail string `gorm:"type:text;not null;index;index:idx_customer_category_created,priority:1" json:"customerEmail"`
	CustomerPhone string `gorm:"type:text" json:"customerPhone,omitempty"`

	Subject     string `gorm:"type:text;not null" json:"subject"`
	Description string `gorm:"type:text;not null" json:"description"`

	Category        string  `gorm:"type:text;not null;index;index:idx_customer_category_created,priority:2" json:"category"`
	Subcategory     string  `gorm:"type:text" json:"subcategory,omitempty"`
	Priority        string  `gorm:"type:text;index" json:"priority"`
	Status          string  `gorm:"type:text;index;default:new" json:"status"`
	Sentiment       string  `gorm:"type:text" json:"sentiment"`
	ConfidenceScore float64 `json:"confidenceScore"`
	Source          string  `gorm:"type:text;default:email" json:"source"`

	ReceivedDate time.Time `json:"receivedDate"`
	CreatedDate  time.Time `gorm:"not null;index;index:idx_customer_category_created,priority:3,sort:desc" json:"createdDate"`
	LastUpdated  time.Time `json:"lastUpdated"`

	AssignedTo       string         `gorm:"type:text" json:"assignedTo,omitempty"`
	Department       string         `gorm:"type:text" json:"department,omitempty"`
	Tags             pq.StringArray `gorm:"type:text[]" json:"tags"`
	EscalationLevel  int            `json:"escalationLevel"`
	FollowUpRequired bool           `json:"followUpRequired"`
	ResolutionNotes  string         `gorm:"type:text" json:"resolutionNotes,omitempty"`
	InternalNotes    string         `gorm:"type:text" json:"internalNotes,omitempty"`

	// ContentHash is the fingerprint of (email, subject, description) taken at creation.
	ContentHash string `gorm:"type:char(32);index" json:"contentHash"`
	// IsDuplicate marks a record that repeats an earlier original.
	IsDuplicate bool `gorm:"not null;default:false;index" json:"isDuplicate"`
	// OriginalComplaintID is set only when IsDuplicate is true.
	OriginalComplaintID *string `gorm:"type:uuid;index" json:"originalComplaintId"`
	// RelatedComplaints holds the ids of duplicates pointing at this original.
	RelatedComplaints pq.StringArray `gorm:"type:text[]" json:"relatedComplaints"`

	ProcessingHistory datatypes.JSONSlice[HistoryEntry] `gorm:"type:jsonb" json:"processingHistory"`
}

// BeforeCreate is a GORM hook that assigns a UUID and creation timestamps
// if they have not been set yet.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if c.CreatedDate.IsZero() {
		c.CreatedDate = now
	}
	if c.LastUpdated.IsZero() {
		c.LastUpdated = now
	}
	if c.Status == "" {
		c.Status = StatusNew
	}
	return
}

// IsRelatedTo reports whether id is already in the related set.
func (c *Complaint) IsRelatedTo(id string) bool {
	for _, r := range c.RelatedComplaints {
		if r == id {
			return true
		}
	}
	return false
}

// ComplaintFilter narrows ListComplaints.
type ComplaintFilter struct {
	Status   string
	Category string
	Skip     int
	Limit    int
}

// CandidateQuery selects records eligible for similarity comparison.
type CandidateQuery struct {
	CustomerEmail string
	Category      string
	Since         time.Time
	Limit         int
}
