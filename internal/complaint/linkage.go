package complaint

import (
	"complaintdedup/backend/internal/analysis"
	"complaintdedup/backend/internal/models"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// linkTimeout bounds the original-record update once the new record is stored.
const linkTimeout = 5 * time.Second

// defaultHistorySource is recorded when the complaint does not name its source.
const defaultHistorySource = "email-service"

// CreateComplaint fingerprints c, resolves whether it repeats an earlier
// original, persists it with the dedup fields set and, for duplicates, links
// it into the original's related set. Only the insert itself can fail the
// call; every dedup step is best-effort.
func (s *Service) CreateComplaint(ctx context.Context, c *models.Complaint) (*models.Complaint, error) {
	c.ContentHash = analysis.ComplaintFingerprint(c)

	if s.Config.StrictLocking {
		release, err := s.Storage.AcquireLock(ctx, lockKey(c), s.Config.LockTTL)
		if err != nil {
			s.log.Warn("Dedup lock not acquired, continuing without it",
				zap.String("customer_email", c.CustomerEmail),
				zap.Error(err))
		} else {
			defer release()
		}
	}

	originalID, isDuplicate := s.ResolveDuplicate(ctx, c)

	now := s.now()
	if c.CreatedDate.IsZero() {
		c.CreatedDate = now
	}
	c.LastUpdated = now

	details := map[string]interface{}{
		"source":      historySource(c),
		"isDuplicate": isDuplicate,
	}
	if isDuplicate {
		c.IsDuplicate = true
		c.OriginalComplaintID = &originalID
		c.Status = models.StatusDuplicate
		details["originalComplaintId"] = originalID
		s.log.Info("Duplicate complaint detected", zap.String("original_id", originalID))
	} else {
		c.IsDuplicate = false
		c.OriginalComplaintID = nil
	}
	c.RelatedComplaints = nil
	c.ProcessingHistory = append(c.ProcessingHistory, models.NewHistoryEntry(models.ActionCreated, now, details))

	if err := s.Storage.CreateComplaint(ctx, c); err != nil {
		s.log.Error("Error creating complaint", zap.String("customer_email", c.CustomerEmail), zap.Error(err))
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	if isDuplicate {
		s.linkDuplicate(ctx, originalID, c)
	}
	s.publish(ctx, models.ComplaintEvent{
		Type:                models.EventComplaintCreated,
		ComplaintID:         c.ID,
		OriginalComplaintID: originalID,
		CustomerEmail:       c.CustomerEmail,
		Category:            c.Category,
		IsDuplicate:         isDuplicate,
		Timestamp:           now,
	})

	s.log.Info("Complaint created",
		zap.String("complaint_id", c.ID),
		zap.Bool("duplicate", c.IsDuplicate))
	return c, nil
}

// linkDuplicate records the new duplicate on its original. The write runs
// detached from the caller's cancellation so it completes or fails as a
// whole; failures only leave the related set incomplete.
func (s *Service) linkDuplicate(ctx context.Context, originalID string, duplicate *models.Complaint) {
	linkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), linkTimeout)
	defer cancel()

	now := s.now()
	entry := models.NewHistoryEntry(models.ActionDuplicateLinked, now, map[string]interface{}{
		"duplicateComplaintId": duplicate.ID,
	})
	if err := s.Storage.LinkDuplicate(linkCtx, originalID, duplicate.ID, entry, now); err != nil {
		s.log.Error("Error linking duplicate complaints",
			zap.String("complaint_id", duplicate.ID),
			zap.String("original_id", originalID),
			zap.Error(err))
		return
	}
	s.log.Info("Linked duplicate to original",
		zap.String("complaint_id", duplicate.ID),
		zap.String("original_id", originalID))

	s.publish(linkCtx, models.ComplaintEvent{
		Type:                models.EventDuplicateLinked,
		ComplaintID:         duplicate.ID,
		OriginalComplaintID: originalID,
		CustomerEmail:       duplicate.CustomerEmail,
		Category:            duplicate.Category,
		IsDuplicate:         true,
		Timestamp:           now,
	})

	if s.notifier != nil {
		if err := s.notifier.NotifyDuplicate(linkCtx, duplicate, originalID); err != nil {
			s.log.Warn("Duplicate notification failed", zap.String("complaint_id", duplicate.ID), zap.Error(err))
		}
	}
}

func (s *Service) publish(ctx context.Context, event models.ComplaintEvent) {
	if err := s.Storage.PublishEvent(ctx, event); err != nil {
		s.log.Warn("Failed to publish complaint event",
			zap.String("type", event.Type),
			zap.String("complaint_id", event.ComplaintID),
			zap.Error(err))
	}
}

func historySource(c *models.Complaint) string {
	if c.Source != "" {
		return c.Source
	}
	return defaultHistorySource
}

func lockKey(c *models.Complaint) string {
	return "dedup:" + strings.ToLower(strings.TrimSpace(c.CustomerEmail)) + ":" + c.ContentHash
}
