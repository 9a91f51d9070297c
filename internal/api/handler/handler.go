// Package handler exposes the complaint service over HTTP with gin.
package handler

import (
	"complaintdedup/backend/internal/events"
	"complaintdedup/backend/internal/models"
	"context"

	"go.uber.org/zap"
)

// ComplaintService is what the HTTP layer needs from the complaint package.
type ComplaintService interface {
	CreateComplaint(ctx context.Context, c *models.Complaint) (*models.Complaint, error)
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error)
	UpdateComplaint(ctx context.Context, id string, fields map[string]interface{}, history []models.HistoryEntry) (bool, error)
	DuplicateStats(ctx context.Context) (*models.DuplicateStats, error)
	SystemStats(ctx context.Context) (*models.SystemStats, error)
}

// Handler holds the dependencies of the HTTP routes.
type Handler struct {
	Complaints ComplaintService
	Hub        *events.Hub
	Log        *zap.Logger
}

func NewHandler(complaints ComplaintService, hub *events.Hub, log *zap.Logger) *Handler {
	return &Handler{Complaints: complaints, Hub: hub, Log: log}
}
