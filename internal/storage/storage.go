// Package storage is the complaint record store: PostgreSQL through gorm for
// the records themselves and Redis for events and advisory locks.
package storage

import (
	"complaintdedup/backend/internal/models"
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a targeted record does not exist.
var ErrNotFound = errors.New("complaint not found")

// EventsChannel is the Redis Pub/Sub channel complaint events are published to.
const EventsChannel = "complaints:events"

type Storage interface {
	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error)
	ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error)
	UpdateComplaint(ctx context.Context, id string, columns map[string]interface{}, history []models.HistoryEntry, at time.Time) (bool, error)
	AppendComplaintUpdate(ctx context.Context, id string, columns map[string]interface{}, entry models.HistoryEntry, at time.Time) (bool, error)

	FindByFingerprint(ctx context.Context, email, contentHash string, since time.Time) (*models.Complaint, error)
	FindCandidates(ctx context.Context, q models.CandidateQuery) ([]models.Complaint, error)
	LinkDuplicate(ctx context.Context, originalID, duplicateID string, entry models.HistoryEntry, at time.Time) error

	CountByDuplicateFlag(ctx context.Context) (models.DuplicateBreakdown, error)
	TopDuplicateCustomers(ctx context.Context, limit int) ([]models.CustomerDuplicateCount, error)
	CountBy(ctx context.Context, column string) (map[string]int64, error)
	CountComplaints(ctx context.Context) (int64, error)

	PublishEvent(ctx context.Context, event models.ComplaintEvent) error
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

type Service struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Locker *redislock.Client
}

// NewStorageService Constructor. rdb may be nil (admin CLI); events and locks
// then become no-ops.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	s := &Service{
		DB:    db,
		Redis: rdb,
	}
	if rdb != nil {
		s.Locker = redislock.New(rdb)
	}
	return s
}
