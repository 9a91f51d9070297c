package complaint

import (
	"complaintdedup/backend/internal/models"
	"context"
)

// SelectCandidates returns up to Config.CandidateLimit recent records from the
// same customer and category that are not duplicates themselves, newest first.
// Older or cross-category repeats are deliberately out of reach.
func (s *Service) SelectCandidates(ctx context.Context, c *models.Complaint) ([]models.Complaint, error) {
	return s.Storage.FindCandidates(ctx, models.CandidateQuery{
		CustomerEmail: c.CustomerEmail,
		Category:      c.Category,
		Since:         s.windowStart(),
		Limit:         s.Config.CandidateLimit,
	})
}
