package complaint_test

import (
	"complaintdedup/backend/internal/models"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	args := m.Called(ctx, filter)
	if c := args.Get(0); c != nil {
		return c.([]models.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) UpdateComplaint(ctx context.Context, id string, columns map[string]interface{}, history []models.HistoryEntry, at time.Time) (bool, error) {
	args := m.Called(ctx, id, columns, history, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) AppendComplaintUpdate(ctx context.Context, id string, columns map[string]interface{}, entry models.HistoryEntry, at time.Time) (bool, error) {
	args := m.Called(ctx, id, columns, entry, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) FindByFingerprint(ctx context.Context, email, contentHash string, since time.Time) (*models.Complaint, error) {
	args := m.Called(ctx, email, contentHash, since)
	if c := args.Get(0); c != nil {
		return c.(*models.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) FindCandidates(ctx context.Context, q models.CandidateQuery) ([]models.Complaint, error) {
	args := m.Called(ctx, q)
	if c := args.Get(0); c != nil {
		return c.([]models.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) LinkDuplicate(ctx context.Context, originalID, duplicateID string, entry models.HistoryEntry, at time.Time) error {
	args := m.Called(ctx, originalID, duplicateID, entry, at)
	return args.Error(0)
}

func (m *MockStorage) CountByDuplicateFlag(ctx context.Context) (models.DuplicateBreakdown, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.DuplicateBreakdown), args.Error(1)
}

func (m *MockStorage) TopDuplicateCustomers(ctx context.Context, limit int) ([]models.CustomerDuplicateCount, error) {
	args := m.Called(ctx, limit)
	if c := args.Get(0); c != nil {
		return c.([]models.CustomerDuplicateCount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CountBy(ctx context.Context, column string) (map[string]int64, error) {
	args := m.Called(ctx, column)
	if c := args.Get(0); c != nil {
		return c.(map[string]int64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CountComplaints(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) PublishEvent(ctx context.Context, event models.ComplaintEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStorage) AcquireLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	args := m.Called(ctx, key, ttl)
	if fn := args.Get(0); fn != nil {
		return fn.(func()), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyDuplicate(ctx context.Context, duplicate *models.Complaint, originalID string) error {
	args := m.Called(ctx, duplicate, originalID)
	return args.Error(0)
}
