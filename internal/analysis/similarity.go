package analysis

import (
	"strings"

	"complaintdedup/backend/internal/config"
	"complaintdedup/backend/internal/models"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity scores two complaints in [0, 1]. The normalized
// "subject description" strings are compared character by character with a
// sequence matcher; equal subjects add config.SubjectMatchBonus, capped at 1.
func Similarity(a, b *models.Complaint) float64 {
	ratio := TextRatio(comparisonText(a), comparisonText(b))
	if SameSubject(a, b) {
		ratio += config.SubjectMatchBonus
		if ratio > 1 {
			ratio = 1
		}
	}
	return ratio
}

// TextRatio is the sequence-matcher ratio of the normalized forms of a and b.
func TextRatio(a, b string) float64 {
	m := difflib.NewMatcher(runes(NormalizeText(a)), runes(NormalizeText(b)))
	return m.Ratio()
}

// SameSubject compares raw subjects case-insensitively after trimming.
func SameSubject(a, b *models.Complaint) bool {
	return strings.ToLower(strings.TrimSpace(a.Subject)) == strings.ToLower(strings.TrimSpace(b.Subject))
}

func comparisonText(c *models.Complaint) string {
	return c.Subject + " " + c.Description
}

// runes splits s into one element per code point, the unit the matcher compares.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
