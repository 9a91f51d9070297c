package models

import "time"

// DuplicateBreakdown counts records by duplicate flag.
type DuplicateBreakdown struct {
	Total      int64
	Duplicates int64
	Unique     int64
}

// CustomerDuplicateCount is one row of the top duplicate customers ranking.
type CustomerDuplicateCount struct {
	CustomerEmail  string `json:"customerEmail"`
	DuplicateCount int64  `json:"duplicateCount"`
}

// DetectorSettings echoes the active detector configuration.
type DetectorSettings struct {
	SimilarityThreshold float64  `json:"similarityThreshold"`
	TimeWindowDays      int      `json:"timeWindowDays"`
	CandidateLimit      int      `json:"candidateLimit"`
	DetectionMethods    []string `json:"detectionMethods"`
}

// DuplicateStats is the aggregate duplicate report.
type DuplicateStats struct {
	TotalComplaints       int64                    `json:"totalComplaints"`
	Duplicates            int64                    `json:"duplicates"`
	UniqueComplaints      int64                    `json:"uniqueComplaints"`
	DuplicateRate         float64                  `json:"duplicateRate"`
	TopDuplicateCustomers []CustomerDuplicateCount `json:"topDuplicateCustomers"`
	DetectorSettings      DetectorSettings         `json:"detectorSettings"`
}

// SystemStats summarises the whole complaint collection.
type SystemStats struct {
	TotalComplaints      int64            `json:"totalComplaints"`
	StatusDistribution   map[string]int64 `json:"statusDistribution"`
	CategoryDistribution map[string]int64 `json:"categoryDistribution"`
	PriorityDistribution map[string]int64 `json:"priorityDistribution"`
	LastUpdated          time.Time        `json:"lastUpdated"`
}
