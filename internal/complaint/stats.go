package complaint

import (
	"complaintdedup/backend/internal/config"
	"complaintdedup/backend/internal/models"
	"context"
	"fmt"
	"math"
)

// DuplicateStats aggregates duplicate counts, the duplicate rate (percent,
// two decimals, zero for an empty store), the customers with the most
// duplicates and the active detector settings.
func (s *Service) DuplicateStats(ctx context.Context) (*models.DuplicateStats, error) {
	breakdown, err := s.Storage.CountByDuplicateFlag(ctx)
	if err != nil {
		return nil, fmt.Errorf("count duplicates: %w", err)
	}

	top, err := s.Storage.TopDuplicateCustomers(ctx, s.Config.TopCustomers)
	if err != nil {
		return nil, fmt.Errorf("rank duplicate customers: %w", err)
	}
	if top == nil {
		top = []models.CustomerDuplicateCount{}
	}

	return &models.DuplicateStats{
		TotalComplaints:       breakdown.Total,
		Duplicates:            breakdown.Duplicates,
		UniqueComplaints:      breakdown.Unique,
		DuplicateRate:         DuplicateRate(breakdown.Duplicates, breakdown.Total),
		TopDuplicateCustomers: top,
		DetectorSettings:      s.DetectorSettings(),
	}, nil
}

// DetectorSettings echoes the configuration the resolver runs with.
func (s *Service) DetectorSettings() models.DetectorSettings {
	return models.DetectorSettings{
		SimilarityThreshold: s.Config.SimilarityThreshold,
		TimeWindowDays:      s.Config.TimeWindowDays,
		CandidateLimit:      s.Config.CandidateLimit,
		DetectionMethods:    append([]string(nil), config.DetectionMethods...),
	}
}

// DuplicateRate returns round(duplicates/total*100, 2), or 0 when total is 0.
func DuplicateRate(duplicates, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(duplicates)/float64(total)*100*100) / 100
}

// SystemStats returns the total count and the status, category and priority
// distributions.
func (s *Service) SystemStats(ctx context.Context) (*models.SystemStats, error) {
	total, err := s.Storage.CountComplaints(ctx)
	if err != nil {
		return nil, fmt.Errorf("count complaints: %w", err)
	}

	stats := &models.SystemStats{TotalComplaints: total, LastUpdated: s.now()}
	for column, dst := range map[string]*map[string]int64{
		"status":   &stats.StatusDistribution,
		"category": &stats.CategoryDistribution,
		"priority": &stats.PriorityDistribution,
	} {
		counts, err := s.Storage.CountBy(ctx, column)
		if err != nil {
			return nil, fmt.Errorf("count complaints by %s: %w", column, err)
		}
		*dst = counts
	}
	return stats, nil
}

// GetComplaint returns the complaint or nil when it does not exist.
func (s *Service) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	return s.Storage.GetComplaintByID(ctx, id)
}

// ListComplaints lists complaints newest first, clamping the page size.
func (s *Service) ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	if filter.Limit <= 0 {
		filter.Limit = config.DefaultListLimit
	}
	if filter.Limit > config.MaxListLimit {
		filter.Limit = config.MaxListLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	return s.Storage.ListComplaints(ctx, filter)
}
