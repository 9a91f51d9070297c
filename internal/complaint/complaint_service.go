// Package complaint provides the core logic for persisting complaints,
// including duplicate detection, original/duplicate linkage and statistics.
package complaint

import (
	"complaintdedup/backend/internal/analysis"
	"complaintdedup/backend/internal/config"
	"complaintdedup/backend/internal/models"
	"complaintdedup/backend/internal/storage"
	"context"
	"time"

	"go.uber.org/zap"
)

// Scorer computes the similarity of two complaints in [0, 1].
type Scorer func(a, b *models.Complaint) float64

// Notifier is told about every duplicate that was linked to its original.
type Notifier interface {
	NotifyDuplicate(ctx context.Context, duplicate *models.Complaint, originalID string) error
}

// Service handles the business logic for complaints.
type Service struct {
	Storage storage.Storage
	Config  config.DedupConfig

	log      *zap.Logger
	scorer   Scorer
	now      func() time.Time
	notifier Notifier
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithScorer replaces the similarity scorer.
func WithScorer(fn Scorer) Option {
	return func(s *Service) { s.scorer = fn }
}

// WithClock replaces the time source used for windows and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotifier registers a duplicate notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, cfg config.DedupConfig, opts ...Option) *Service {
	svc := &Service{
		Storage: s,
		Config:  cfg,
		log:     zap.NewNop(),
		scorer:  analysis.Similarity,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// windowStart is the earliest creation time still inside the dedup window.
func (s *Service) windowStart() time.Time {
	return s.now().Add(-s.Config.Window())
}
