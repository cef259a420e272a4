package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quoteportal/models"
)

func TestNextStatusDecisionTable(t *testing.T) {
	tests := []struct {
		name           string
		current        string
		isOwnerEditing bool
		wantStatus     string
		wantReset      bool
	}{
		{"under review, non-owner edit invalidates review", models.QuoteStatusUnderReview, false, models.QuoteStatusSubmitted, true},
		{"under review, owner edit keeps review", models.QuoteStatusUnderReview, true, models.QuoteStatusUnderReview, false},
		{"approved, owner edit resets", models.QuoteStatusApproved, true, models.QuoteStatusSubmitted, true},
		{"approved, non-owner edit resets", models.QuoteStatusApproved, false, models.QuoteStatusSubmitted, true},
		{"submitted, owner edit is a no-op", models.QuoteStatusSubmitted, true, models.QuoteStatusSubmitted, false},
		{"submitted, non-owner edit is a no-op", models.QuoteStatusSubmitted, false, models.QuoteStatusSubmitted, false},
		{"rejected, owner edit is a no-op", models.QuoteStatusRejected, true, models.QuoteStatusRejected, false},
		{"rejected, non-owner edit is a no-op", models.QuoteStatusRejected, false, models.QuoteStatusRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStatus(tt.current, tt.isOwnerEditing)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantReset, got.ResetApproval)
		})
	}
}

func TestNextStatusUnknownStatusUnchanged(t *testing.T) {
	got := NextStatus("archived", true)
	assert.Equal(t, "archived", got.Status)
	assert.False(t, got.ResetApproval)
}
