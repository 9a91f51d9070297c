package analysis

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"complaintdedup/backend/internal/models"
)

const fingerprintDelimiter = "|"

// Fingerprint returns the hex MD5 digest of the normalized
// (email, subject, description) triple. It is a content key, not a security boundary.
func Fingerprint(email, subject, description string) string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(email)),
		strings.ToLower(strings.TrimSpace(subject)),
		NormalizeText(description),
	}
	sum := md5.Sum([]byte(strings.Join(parts, fingerprintDelimiter)))
	return hex.EncodeToString(sum[:])
}

// ComplaintFingerprint fingerprints a complaint record.
func ComplaintFingerprint(c *models.Complaint) string {
	return Fingerprint(c.CustomerEmail, c.Subject, c.Description)
}
