package handler

import (
	"complaintdedup/backend/internal/complaint"
	"complaintdedup/backend/internal/models"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// CreateComplaintRequest is the classified complaint posted by the email service.
type CreateComplaintRequest struct {
	CustomerID       string    `json:"customerId"`
	CustomerEmail    string    `json:"customerEmail" binding:"required,email"`
	CustomerPhone    string    `json:"customerPhone"`
	Subject          string    `json:"subject" binding:"required"`
	Description      string    `json:"description"`
	Category         string    `json:"category" binding:"required"`
	Subcategory      string    `json:"subcategory"`
	Priority         string    `json:"priority" binding:"required"`
	Status           string    `json:"status"`
	Sentiment        string    `json:"sentiment" binding:"required"`
	ConfidenceScore  float64   `json:"confidenceScore"`
	Source           string    `json:"source"`
	ReceivedDate     time.Time `json:"receivedDate"`
	AssignedTo       string    `json:"assignedTo"`
	Department       string    `json:"department"`
	Tags             []string  `json:"tags"`
	EscalationLevel  int       `json:"escalationLevel"`
	FollowUpRequired bool      `json:"followUpRequired"`
	InternalNotes    string    `json:"internalNotes"`
}

func (r CreateComplaintRequest) toModel() *models.Complaint {
	received := r.ReceivedDate
	if received.IsZero() {
		received = time.Now().UTC()
	}
	return &models.Complaint{
		CustomerID:       r.CustomerID,
		CustomerEmail:    r.CustomerEmail,
		CustomerPhone:    r.CustomerPhone,
		Subject:          r.Subject,
		Description:      r.Description,
		Category:         r.Category,
		Subcategory:      r.Subcategory,
		Priority:         r.Priority,
		Status:           r.Status,
		Sentiment:        r.Sentiment,
		ConfidenceScore:  r.ConfidenceScore,
		Source:           r.Source,
		ReceivedDate:     received,
		AssignedTo:       r.AssignedTo,
		Department:       r.Department,
		Tags:             pq.StringArray(r.Tags),
		EscalationLevel:  r.EscalationLevel,
		FollowUpRequired: r.FollowUpRequired,
		InternalNotes:    r.InternalNotes,
	}
}

// UpdateComplaintRequest carries a partial update. History, when given,
// replaces the stored history before the "updated" entry is appended.
type UpdateComplaintRequest struct {
	Fields            map[string]interface{} `json:"fields" binding:"required"`
	ProcessingHistory []models.HistoryEntry  `json:"processingHistory"`
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC()})
}

// CreateComplaint stores a new complaint and reports its duplicate verdict.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Complaints.CreateComplaint(c.Request.Context(), req.toModel())
	if err != nil {
		h.Log.Error("Error creating complaint", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create complaint"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":                  created.ID,
		"message":             "Complaint created successfully",
		"isDuplicate":         created.IsDuplicate,
		"originalComplaintId": created.OriginalComplaintID,
	})
}

// ListComplaints supports skip, limit, status_filter and category_filter query params.
func (h *Handler) ListComplaints(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip must be an integer"})
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	complaints, err := h.Complaints.ListComplaints(c.Request.Context(), models.ComplaintFilter{
		Status:   c.Query("status_filter"),
		Category: c.Query("category_filter"),
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		h.Log.Error("Error fetching complaints", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaints"})
		return
	}
	if complaints == nil {
		complaints = []models.Complaint{}
	}
	c.JSON(http.StatusOK, complaints)
}

// GetComplaint returns one complaint or 404.
func (h *Handler) GetComplaint(c *gin.Context) {
	id := c.Param("id")
	found, err := h.Complaints.GetComplaint(c.Request.Context(), id)
	if err != nil {
		h.Log.Error("Error fetching complaint", zap.String("complaint_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaint"})
		return
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
		return
	}
	c.JSON(http.StatusOK, found)
}

// UpdateComplaint applies a partial update.
func (h *Handler) UpdateComplaint(c *gin.Context) {
	id := c.Param("id")

	var req UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Complaints.UpdateComplaint(c.Request.Context(), id, req.Fields, req.ProcessingHistory)
	switch {
	case errors.Is(err, complaint.ErrProtectedField),
		errors.Is(err, complaint.ErrUnknownField),
		errors.Is(err, complaint.ErrInvalidValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.Log.Error("Error updating complaint", zap.String("complaint_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update complaint"})
		return
	case !updated:
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Complaint updated successfully"})
}

// GetDuplicateStats returns the duplicate detection report.
func (h *Handler) GetDuplicateStats(c *gin.Context) {
	stats, err := h.Complaints.DuplicateStats(c.Request.Context())
	if err != nil {
		h.Log.Error("Error fetching duplicate stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch duplicate stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetStats returns the collection-wide distributions.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.Complaints.SystemStats(c.Request.Context())
	if err != nil {
		h.Log.Error("Error fetching stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
