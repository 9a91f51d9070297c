package analysis_test

import (
	"complaintdedup/backend/internal/analysis"
	"complaintdedup/backend/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Format(t *testing.T) {
	fp := analysis.Fingerprint("a@x.com", "Broken item", "It arrived broken")
	require.Len(t, fp, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", fp)
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := analysis.Fingerprint("a@x.com", "Broken item", "It arrived broken")
	b := analysis.Fingerprint("a@x.com", "Broken item", "It arrived broken")
	assert.Equal(t, a, b)
}

func TestFingerprint_CaseAndSpacingInsensitive(t *testing.T) {
	base := analysis.Fingerprint("a@x.com", "broken item", "it arrived broken")

	assert.Equal(t, base, analysis.Fingerprint("  A@X.COM ", " BROKEN ITEM", "It   arrived\nBROKEN"))
	assert.Equal(t, base, analysis.Fingerprint("a@x.com", "broken item", "Hi it arrived broken"),
		"courtesy words in the description do not change the fingerprint")
}

func TestFingerprint_FieldsMatter(t *testing.T) {
	base := analysis.Fingerprint("a@x.com", "broken item", "it arrived broken")

	assert.NotEqual(t, base, analysis.Fingerprint("b@x.com", "broken item", "it arrived broken"))
	assert.NotEqual(t, base, analysis.Fingerprint("a@x.com", "damaged item", "it arrived broken"))
	assert.NotEqual(t, base, analysis.Fingerprint("a@x.com", "broken item", "it arrived late"))
}

func TestComplaintFingerprint(t *testing.T) {
	c := &models.Complaint{CustomerEmail: "a@x.com", Subject: "Broken item", Description: "It arrived broken"}
	assert.Equal(t, analysis.Fingerprint("a@x.com", "Broken item", "It arrived broken"), analysis.ComplaintFingerprint(c))
}
