package storage

import (
	"complaintdedup/backend/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// appendHistorySQL appends a one-element JSON array to the stored history.
const appendHistorySQL = "COALESCE(processing_history, '[]'::jsonb) || ?::jsonb"

// countableColumns whitelists the columns CountBy may group on.
var countableColumns = map[string]bool{
	"status":   true,
	"category": true,
	"priority": true,
}

// CreateComplaint inserts a new record; the BeforeCreate hook assigns its ID.
func (s *Service) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	if err := s.DB.WithContext(ctx).Create(complaint).Error; err != nil {
		return fmt.Errorf("insert complaint for %s: %w", complaint.CustomerEmail, err)
	}
	return nil
}

// GetComplaintByID returns nil without error when the id is malformed or unknown.
func (s *Service) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var complaint models.Complaint
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&complaint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// ListComplaints returns complaints newest first.
func (s *Service) ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	q := s.DB.WithContext(ctx).Model(&models.Complaint{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var complaints []models.Complaint
	err := q.Order("created_date DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

// UpdateComplaint sets the given columns together with last_updated and
// replaces the processing history with the caller's list in one statement.
func (s *Service) UpdateComplaint(ctx context.Context, id string, columns map[string]interface{}, history []models.HistoryEntry, at time.Time) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	updates := make(map[string]interface{}, len(columns)+2)
	for k, v := range columns {
		updates[k] = v
	}
	updates["last_updated"] = at
	updates["processing_history"] = datatypes.JSONSlice[models.HistoryEntry](history)

	result := s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AppendComplaintUpdate sets the given columns and last_updated and appends
// entry to the stored history inside the same UPDATE, so entries written
// concurrently by LinkDuplicate are kept.
func (s *Service) AppendComplaintUpdate(ctx context.Context, id string, columns map[string]interface{}, entry models.HistoryEntry, at time.Time) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	entryJSON, err := json.Marshal([]models.HistoryEntry{entry})
	if err != nil {
		return false, err
	}

	updates := make(map[string]interface{}, len(columns)+2)
	for k, v := range columns {
		updates[k] = v
	}
	updates["last_updated"] = at
	updates["processing_history"] = gorm.Expr(appendHistorySQL, string(entryJSON))

	result := s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByFingerprint looks up the newest record with the same customer and
// content hash created at or after since.
func (s *Service) FindByFingerprint(ctx context.Context, email, contentHash string, since time.Time) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.WithContext(ctx).
		Where("LOWER(customer_email) = ?", normalizeEmail(email)).
		Where("content_hash = ? AND created_date >= ?", contentHash, since).
		Order("created_date DESC").
		First(&complaint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// FindCandidates returns same-customer, same-category, non-duplicate records
// inside the window, newest first, at most q.Limit of them.
func (s *Service) FindCandidates(ctx context.Context, q models.CandidateQuery) ([]models.Complaint, error) {
	var candidates []models.Complaint
	err := s.DB.WithContext(ctx).
		Where("LOWER(customer_email) = ?", normalizeEmail(q.CustomerEmail)).
		Where("category = ? AND created_date >= ?", q.Category, q.Since).
		Where("is_duplicate IS NULL OR is_duplicate = ?", false).
		Order("created_date DESC").
		Limit(q.Limit).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// LinkDuplicate adds duplicateID to the original's related set (no-op if
// present), touches last_updated and appends entry to its history. It is a
// single UPDATE so concurrent links against the same original do not race.
// Originals that are themselves duplicates are never linked to.
func (s *Service) LinkDuplicate(ctx context.Context, originalID, duplicateID string, entry models.HistoryEntry, at time.Time) error {
	entryJSON, err := json.Marshal([]models.HistoryEntry{entry})
	if err != nil {
		return err
	}

	result := s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ? AND is_duplicate = ?", originalID, false).
		Updates(map[string]interface{}{
			"related_complaints": gorm.Expr(
				"CASE WHEN ?::text = ANY(COALESCE(related_complaints, '{}')) THEN related_complaints "+
					"ELSE array_append(COALESCE(related_complaints, '{}'), ?::text) END",
				duplicateID, duplicateID),
			"last_updated":       at,
			"processing_history": gorm.Expr(appendHistorySQL, string(entryJSON)),
		})
	if result.Error != nil {
		return fmt.Errorf("link duplicate %s to %s: %w", duplicateID, originalID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("link duplicate %s to %s: %w", duplicateID, originalID, ErrNotFound)
	}
	return nil
}

// CountByDuplicateFlag groups all records by is_duplicate.
func (s *Service) CountByDuplicateFlag(ctx context.Context) (models.DuplicateBreakdown, error) {
	var rows []struct {
		IsDuplicate bool
		Count       int64
	}
	err := s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Select("COALESCE(is_duplicate, false) AS is_duplicate, COUNT(*) AS count").
		Group("COALESCE(is_duplicate, false)").
		Scan(&rows).Error
	if err != nil {
		return models.DuplicateBreakdown{}, err
	}

	var out models.DuplicateBreakdown
	for _, r := range rows {
		out.Total += r.Count
		if r.IsDuplicate {
			out.Duplicates += r.Count
		} else {
			out.Unique += r.Count
		}
	}
	return out, nil
}

// TopDuplicateCustomers ranks customers by their number of duplicate records.
func (s *Service) TopDuplicateCustomers(ctx context.Context, limit int) ([]models.CustomerDuplicateCount, error) {
	var out []models.CustomerDuplicateCount
	err := s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Select("LOWER(customer_email) AS customer_email, COUNT(*) AS duplicate_count").
		Where("is_duplicate = ?", true).
		Group("LOWER(customer_email)").
		Order("duplicate_count DESC, customer_email ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountBy returns record counts grouped by one of status, category or priority.
func (s *Service) CountBy(ctx context.Context, column string) (map[string]int64, error) {
	if !countableColumns[column] {
		return nil, fmt.Errorf("cannot group complaints by %q", column)
	}

	var rows []struct {
		Value string
		Count int64
	}
	err := s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Select("COALESCE(" + column + ", '') AS value, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Value] = r.Count
	}
	return out, nil
}

// CountComplaints returns the total number of records.
func (s *Service) CountComplaints(ctx context.Context) (int64, error) {
	var total int64
	err := s.DB.WithContext(ctx).Model(&models.Complaint{}).Count(&total).Error
	return total, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
