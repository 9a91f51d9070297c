package config

import "time"

const (
	// Detector defaults
	DefaultSimilarityThreshold = 0.85
	DefaultTimeWindowDays      = 7
	DefaultCandidateLimit      = 10
	DefaultTopCustomers        = 10
	DefaultLockTTL             = 5 * time.Second

	// SubjectMatchBonus is added to the similarity ratio when both subjects are equal.
	SubjectMatchBonus = 0.1

	// Listing
	DefaultListLimit = 100
	MaxListLimit     = 100
)

// DetectionMethods lists the checks the resolver runs, in order.
var DetectionMethods = []string{"exact_hash", "text_similarity"}

// DedupConfig is the duplicate detector configuration. It is passed by value
// into the complaint service so the engine never reads process state.
type DedupConfig struct {
	SimilarityThreshold float64
	TimeWindowDays      int
	CandidateLimit      int
	TopCustomers        int

	// StrictLocking serializes creation of identical content per customer
	// through a Redis advisory lock.
	StrictLocking bool
	LockTTL       time.Duration
}

// DefaultDedupConfig returns the detector configuration used when nothing is overridden.
func DefaultDedupConfig() DedupConfig {
	return DedupConfig{
		SimilarityThreshold: DefaultSimilarityThreshold,
		TimeWindowDays:      DefaultTimeWindowDays,
		CandidateLimit:      DefaultCandidateLimit,
		TopCustomers:        DefaultTopCustomers,
		LockTTL:             DefaultLockTTL,
	}
}

// Window returns the trailing time window as a duration.
func (c DedupConfig) Window() time.Duration {
	return time.Duration(c.TimeWindowDays) * 24 * time.Hour
}
