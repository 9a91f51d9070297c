package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts all routes on r. A non-empty jwtSecret protects
// everything except /health with service tokens.
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	r.GET("/health", h.Health)

	api := r.Group("/")
	if jwtSecret != "" {
		api.Use(RequireServiceToken(jwtSecret))
	}

	api.POST("/complaints", h.CreateComplaint)
	api.GET("/complaints", h.ListComplaints)
	api.GET("/complaints/:id", h.GetComplaint)
	api.PUT("/complaints/:id", h.UpdateComplaint)
	api.GET("/duplicate-stats", h.GetDuplicateStats)
	api.GET("/stats", h.GetStats)

	if h.Hub != nil {
		api.GET("/ws/events", h.ServeEvents)
	}
}
