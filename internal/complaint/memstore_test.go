package complaint_test

import (
	"complaintdedup/backend/internal/analysis"
	"complaintdedup/backend/internal/models"
	"complaintdedup/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// memStore is an in-memory storage.Storage that honours the query semantics
// of the PostgreSQL implementation.
type memStore struct {
	mu      sync.Mutex
	records []*models.Complaint
	events  []models.ComplaintEvent
	locks   []string

	linkErr  error
	lockErr  error
	released int
}

var _ storage.Storage = (*memStore)(nil)

func newMemStore() *memStore { return &memStore{} }

// seed stores a copy of c with its fingerprint computed.
func (s *memStore) seed(c models.Complaint) string {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.ContentHash = analysis.ComplaintFingerprint(&c)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, clone(&c))
	return c.ID
}

func (s *memStore) get(id string) *models.Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return clone(r)
		}
	}
	return nil
}

func clone(c *models.Complaint) *models.Complaint {
	cp := *c
	cp.RelatedComplaints = append(pq.StringArray(nil), c.RelatedComplaints...)
	cp.ProcessingHistory = append(cp.ProcessingHistory[:0:0], c.ProcessingHistory...)
	return &cp
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func newestFirst(out []models.Complaint) {
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedDate.After(out[j].CreatedDate) })
}

func (s *memStore) CreateComplaint(_ context.Context, c *models.Complaint) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, clone(c))
	return nil
}

func (s *memStore) GetComplaintByID(_ context.Context, id string) (*models.Complaint, error) {
	return s.get(id), nil
}

func (s *memStore) ListComplaints(_ context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	s.mu.Lock()
	var out []models.Complaint
	for _, r := range s.records {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		out = append(out, *clone(r))
	}
	s.mu.Unlock()

	newestFirst(out)
	if filter.Skip >= len(out) {
		return nil, nil
	}
	out = out[filter.Skip:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *memStore) UpdateComplaint(_ context.Context, id string, columns map[string]interface{}, history []models.HistoryEntry, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.find(id)
	if r == nil {
		return false, nil
	}
	if err := applyColumns(r, columns); err != nil {
		return false, err
	}
	r.ProcessingHistory = append(r.ProcessingHistory[:0:0], history...)
	r.LastUpdated = at
	return true, nil
}

func (s *memStore) AppendComplaintUpdate(_ context.Context, id string, columns map[string]interface{}, entry models.HistoryEntry, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.find(id)
	if r == nil {
		return false, nil
	}
	if err := applyColumns(r, columns); err != nil {
		return false, err
	}
	r.ProcessingHistory = append(r.ProcessingHistory, entry)
	r.LastUpdated = at
	return true, nil
}

// find must be called with s.mu held.
func (s *memStore) find(id string) *models.Complaint {
	for _, r := range s.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func applyColumns(r *models.Complaint, columns map[string]interface{}) error {
	for column, value := range columns {
		switch column {
		case "status":
			r.Status = value.(string)
		case "priority":
			r.Priority = value.(string)
		case "assigned_to":
			r.AssignedTo = value.(string)
		case "tags":
			r.Tags = value.(pq.StringArray)
		case "escalation_level":
			r.EscalationLevel = value.(int)
		default:
			return fmt.Errorf("memStore: column %s not supported", column)
		}
	}
	return nil
}

func (s *memStore) FindByFingerprint(_ context.Context, email, contentHash string, since time.Time) (*models.Complaint, error) {
	s.mu.Lock()
	var out []models.Complaint
	for _, r := range s.records {
		if sameEmail(r.CustomerEmail, email) && r.ContentHash == contentHash && !r.CreatedDate.Before(since) {
			out = append(out, *clone(r))
		}
	}
	s.mu.Unlock()

	if len(out) == 0 {
		return nil, nil
	}
	newestFirst(out)
	return &out[0], nil
}

func (s *memStore) FindCandidates(_ context.Context, q models.CandidateQuery) ([]models.Complaint, error) {
	s.mu.Lock()
	var out []models.Complaint
	for _, r := range s.records {
		if sameEmail(r.CustomerEmail, q.CustomerEmail) && r.Category == q.Category &&
			!r.IsDuplicate && !r.CreatedDate.Before(q.Since) {
			out = append(out, *clone(r))
		}
	}
	s.mu.Unlock()

	newestFirst(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *memStore) LinkDuplicate(_ context.Context, originalID, duplicateID string, entry models.HistoryEntry, at time.Time) error {
	if s.linkErr != nil {
		return s.linkErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID != originalID || r.IsDuplicate {
			continue
		}
		if !r.IsRelatedTo(duplicateID) {
			r.RelatedComplaints = append(r.RelatedComplaints, duplicateID)
		}
		r.ProcessingHistory = append(r.ProcessingHistory, entry)
		r.LastUpdated = at
		return nil
	}
	return fmt.Errorf("link %s: %w", originalID, storage.ErrNotFound)
}

func (s *memStore) CountByDuplicateFlag(context.Context) (models.DuplicateBreakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b models.DuplicateBreakdown
	for _, r := range s.records {
		b.Total++
		if r.IsDuplicate {
			b.Duplicates++
		} else {
			b.Unique++
		}
	}
	return b, nil
}

func (s *memStore) TopDuplicateCustomers(_ context.Context, limit int) ([]models.CustomerDuplicateCount, error) {
	s.mu.Lock()
	counts := map[string]int64{}
	for _, r := range s.records {
		if r.IsDuplicate {
			counts[strings.ToLower(r.CustomerEmail)]++
		}
	}
	s.mu.Unlock()

	out := make([]models.CustomerDuplicateCount, 0, len(counts))
	for email, n := range counts {
		out = append(out, models.CustomerDuplicateCount{CustomerEmail: email, DuplicateCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DuplicateCount != out[j].DuplicateCount {
			return out[i].DuplicateCount > out[j].DuplicateCount
		}
		return out[i].CustomerEmail < out[j].CustomerEmail
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) CountBy(_ context.Context, column string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int64{}
	for _, r := range s.records {
		switch column {
		case "status":
			out[r.Status]++
		case "category":
			out[r.Category]++
		case "priority":
			out[r.Priority]++
		default:
			return nil, errors.New("memStore: unsupported column")
		}
	}
	return out, nil
}

func (s *memStore) CountComplaints(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.records)), nil
}

func (s *memStore) PublishEvent(_ context.Context, event models.ComplaintEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *memStore) AcquireLock(_ context.Context, key string, _ time.Duration) (func(), error) {
	if s.lockErr != nil {
		return nil, s.lockErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks = append(s.locks, key)
	return func() {
		s.mu.Lock()
		s.released++
		s.mu.Unlock()
	}, nil
}
