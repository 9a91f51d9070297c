package complaint

import (
	"complaintdedup/backend/internal/analysis"
	"complaintdedup/backend/internal/models"
	"context"

	"go.uber.org/zap"
)

// ResolveDuplicate returns the id of the original that c repeats, if any.
//
// An exact fingerprint match inside the window wins immediately. Otherwise the
// candidates are scored in newest-first order and the first one at or above
// the threshold wins, even if an older candidate would score higher.
// Store failures resolve to "no duplicate".
func (s *Service) ResolveDuplicate(ctx context.Context, c *models.Complaint) (string, bool) {
	if id, ok := s.exactDuplicate(ctx, c); ok {
		s.log.Info("Exact duplicate found",
			zap.String("customer_email", c.CustomerEmail),
			zap.String("original_id", id))
		return id, true
	}
	if id, ok := s.similarDuplicate(ctx, c); ok {
		return id, true
	}
	return "", false
}

func (s *Service) exactDuplicate(ctx context.Context, c *models.Complaint) (string, bool) {
	hash := analysis.ComplaintFingerprint(c)
	existing, err := s.Storage.FindByFingerprint(ctx, c.CustomerEmail, hash, s.windowStart())
	if err != nil {
		s.log.Error("Exact duplicate lookup failed",
			zap.String("customer_email", c.CustomerEmail),
			zap.Error(err))
		return "", false
	}
	if existing == nil {
		return "", false
	}

	// Point at the original of a duplicate so links never chain.
	if existing.IsDuplicate {
		if existing.OriginalComplaintID == nil || *existing.OriginalComplaintID == "" {
			return "", false
		}
		return *existing.OriginalComplaintID, true
	}
	return existing.ID, true
}

func (s *Service) similarDuplicate(ctx context.Context, c *models.Complaint) (string, bool) {
	candidates, err := s.SelectCandidates(ctx, c)
	if err != nil {
		s.log.Error("Candidate query failed",
			zap.String("customer_email", c.CustomerEmail),
			zap.Error(err))
		return "", false
	}

	for i := range candidates {
		candidate := &candidates[i]
		if candidate.IsDuplicate {
			continue
		}
		score := s.scorer(c, candidate)
		if score >= s.Config.SimilarityThreshold {
			s.log.Info("Similar complaint found",
				zap.String("customer_email", c.CustomerEmail),
				zap.String("original_id", candidate.ID),
				zap.Float64("similarity", score))
			return candidate.ID, true
		}
	}
	return "", false
}
