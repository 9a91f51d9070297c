package complaint

import (
	"complaintdedup/backend/internal/models"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	// ErrProtectedField rejects updates to fields owned by the dedup engine.
	ErrProtectedField = errors.New("field cannot be updated")
	// ErrUnknownField rejects updates to fields the record does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidValue rejects values of the wrong type.
	ErrInvalidValue = errors.New("invalid value")
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindFloat
	kindBool
	kindStrings
)

type updatableField struct {
	column string
	kind   fieldKind
}

// updatableFields maps API field names to columns for the general update path.
var updatableFields = map[string]updatableField{
	"customerId":       {"customer_id", kindString},
	"customerEmail":    {"customer_email", kindString},
	"customerPhone":    {"customer_phone", kindString},
	"subject":          {"subject", kindString},
	"description":      {"description", kindString},
	"category":         {"category", kindString},
	"subcategory":      {"subcategory", kindString},
	"priority":         {"priority", kindString},
	"status":           {"status", kindString},
	"sentiment":        {"sentiment", kindString},
	"confidenceScore":  {"confidence_score", kindFloat},
	"assignedTo":       {"assigned_to", kindString},
	"department":       {"department", kindString},
	"tags":             {"tags", kindStrings},
	"escalationLevel":  {"escalation_level", kindInt},
	"followUpRequired": {"follow_up_required", kindBool},
	"resolutionNotes":  {"resolution_notes", kindString},
	"internalNotes":    {"internal_notes", kindString},
}

// protectedFields are maintained by creation and linkage only.
var protectedFields = map[string]bool{
	"id":                  true,
	"_id":                 true,
	"contentHash":         true,
	"isDuplicate":         true,
	"originalComplaintId": true,
	"relatedComplaints":   true,
	"createdDate":         true,
	"lastUpdated":         true,
	"processingHistory":   true,
}

// UpdateComplaint applies a general field update and appends an "updated"
// history entry naming the changed fields. When history is nil the entry is
// appended to the stored history by the store itself, so entries added
// concurrently (a duplicate link) survive. A caller-supplied history replaces
// the stored one. It returns false when the record does not exist.
func (s *Service) UpdateComplaint(ctx context.Context, id string, fields map[string]interface{}, history []models.HistoryEntry) (bool, error) {
	columns, names, err := toColumns(fields)
	if err != nil {
		return false, err
	}

	now := s.now()
	entry := models.NewHistoryEntry(models.ActionUpdated, now, map[string]interface{}{
		"fields_updated": names,
	})

	var updated bool
	if history == nil {
		updated, err = s.Storage.AppendComplaintUpdate(ctx, id, columns, entry, now)
	} else {
		full := append(history[:len(history):len(history)], entry)
		updated, err = s.Storage.UpdateComplaint(ctx, id, columns, full, now)
	}
	if err != nil {
		s.log.Error("Error updating complaint", zap.String("complaint_id", id), zap.Error(err))
		return false, fmt.Errorf("update complaint %s: %w", id, err)
	}
	return updated, nil
}

// toColumns validates fields and converts them to column values. The sorted
// field names are returned for the history entry.
func toColumns(fields map[string]interface{}) (map[string]interface{}, []string, error) {
	columns := make(map[string]interface{}, len(fields))
	names := make([]string, 0, len(fields))

	for name, value := range fields {
		if protectedFields[name] {
			return nil, nil, fmt.Errorf("%w: %s", ErrProtectedField, name)
		}
		field, ok := updatableFields[name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		converted, err := convert(field.kind, value)
		if err != nil {
			return nil, nil, fmt.Errorf("%w for %s: %v", ErrInvalidValue, name, err)
		}
		columns[field.column] = converted
		names = append(names, name)
	}

	sort.Strings(names)
	return columns, names, nil
}

func convert(kind fieldKind, value interface{}) (interface{}, error) {
	switch kind {
	case kindString:
		if value == nil {
			return "", nil
		}
		v, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		return v, nil
	case kindInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v != float64(int(v)) {
				return nil, fmt.Errorf("expected integer, got %v", v)
			}
			return int(v), nil
		}
		return nil, fmt.Errorf("expected integer, got %T", value)
	case kindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
		return nil, fmt.Errorf("expected number, got %T", value)
	case kindBool:
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", value)
		}
		return v, nil
	case kindStrings:
		switch v := value.(type) {
		case nil:
			return pq.StringArray{}, nil
		case []string:
			return pq.StringArray(v), nil
		case []interface{}:
			out := make(pq.StringArray, 0, len(v))
			for _, item := range v {
				str, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("expected list of strings, found %T", item)
				}
				out = append(out, str)
			}
			return out, nil
		}
		return nil, fmt.Errorf("expected list of strings, got %T", value)
	}
	return nil, fmt.Errorf("unsupported field kind %d", kind)
}
