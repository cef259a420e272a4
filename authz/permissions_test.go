package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quoteportal/models"
)

var allStatuses = []string{
	models.QuoteStatusSubmitted,
	models.QuoteStatusUnderReview,
	models.QuoteStatusApproved,
	models.QuoteStatusRejected,
}

func userWith(roles ...string) *models.User {
	return &models.User{ID: primitive.NewObjectID(), Roles: roles}
}

func quoteBy(owner *models.User, status string) *models.Quote {
	return &models.Quote{
		ID:             primitive.NewObjectID(),
		SubmittedBy:    owner.ID,
		ApprovalStatus: status,
	}
}

func TestCanEditQuoteAdminAlwaysAllowed(t *testing.T) {
	admin := userWith("admin")
	other := userWith("basic")

	for _, status := range allStatuses {
		assert.True(t, CanEditQuote(admin, quoteBy(other, status)),
			"admin must edit any quote in status %s", status)
	}
}

func TestCanEditQuoteAdvancedAlwaysAllowed(t *testing.T) {
	advanced := userWith("advanced")
	other := userWith("basic")

	for _, status := range allStatuses {
		assert.True(t, CanEditQuote(advanced, quoteBy(other, status)),
			"advanced must edit any quote in status %s, approved included", status)
	}
}

func TestCanEditQuoteIntermediate(t *testing.T) {
	actor := userWith("intermediate")
	other := userWith("basic")

	// Own quotes: always.
	for _, status := range allStatuses {
		assert.True(t, CanEditQuote(actor, quoteBy(actor, status)),
			"intermediate must edit own quote in status %s", status)
	}

	// Others' quotes: only while still in flight.
	wantByStatus := map[string]bool{
		models.QuoteStatusSubmitted:   true,
		models.QuoteStatusUnderReview: true,
		models.QuoteStatusApproved:    false,
		models.QuoteStatusRejected:    false,
	}
	for status, want := range wantByStatus {
		assert.Equal(t, want, CanEditQuote(actor, quoteBy(other, status)),
			"intermediate vs other's %s quote", status)
	}
}

func TestCanEditQuoteBasicOwnOnly(t *testing.T) {
	actor := userWith("basic")
	other := userWith("basic")

	for _, status := range allStatuses {
		assert.True(t, CanEditQuote(actor, quoteBy(actor, status)),
			"basic must edit own quote in status %s", status)
		assert.False(t, CanEditQuote(actor, quoteBy(other, status)),
			"basic must not edit another user's quote in status %s", status)
	}
}

func TestCanEditQuoteNoRecognizedLevel(t *testing.T) {
	// Unrecognized roles collapse to basic: own quotes only.
	actor := userWith("contractor")
	other := userWith("basic")

	assert.True(t, CanEditQuote(actor, quoteBy(actor, models.QuoteStatusSubmitted)))
	assert.False(t, CanEditQuote(actor, quoteBy(other, models.QuoteStatusSubmitted)))
}

func TestEditDenialReasonIsRoleSpecific(t *testing.T) {
	other := userWith("basic")

	basic := userWith("basic")
	assert.Contains(t, EditDenialReason(basic, quoteBy(other, models.QuoteStatusSubmitted)), "own quotes")

	intermediate := userWith("intermediate")
	assert.Contains(t, EditDenialReason(intermediate, quoteBy(other, models.QuoteStatusApproved)), "another user's quote")
}
