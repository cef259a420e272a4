package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quoteportal/authz"
	"quoteportal/models"
)

// Walks a quote through the full edit lifecycle the way the handlers do:
// permission check first, then the transition policy keyed on whether the
// editor owns the quote.
func TestQuoteEditLifecycle(t *testing.T) {
	owner := &models.User{ID: primitive.NewObjectID(), Roles: []string{"basic"}}
	rival := &models.User{ID: primitive.NewObjectID(), Roles: []string{"basic"}}
	reviewer := &models.User{ID: primitive.NewObjectID(), Roles: []string{"intermediate"}}

	quote := &models.Quote{
		ID:             primitive.NewObjectID(),
		SubmittedBy:    owner.ID,
		ApprovalStatus: models.QuoteStatusSubmitted,
	}

	// Another basic user has no business touching it.
	require.False(t, authz.CanEditQuote(rival, quote))

	// Reviewer puts the quote under review, then the owner fixes a typo:
	// the review is not disturbed.
	quote.ApprovalStatus = models.QuoteStatusUnderReview
	require.True(t, authz.CanEditQuote(owner, quote))
	tr := NextStatus(quote.ApprovalStatus, owner.ID == quote.SubmittedBy)
	assert.Equal(t, models.QuoteStatusUnderReview, tr.Status)
	assert.False(t, tr.ResetApproval)

	// The reviewer edits the same quote: the content under review changed
	// underneath the review, so it restarts.
	require.True(t, authz.CanEditQuote(reviewer, quote))
	tr = NextStatus(quote.ApprovalStatus, reviewer.ID == quote.SubmittedBy)
	assert.Equal(t, models.QuoteStatusSubmitted, tr.Status)
	assert.True(t, tr.ResetApproval)
	quote.ApprovalStatus = tr.Status

	// Once approved, even the owner's edit voids the approval.
	quote.ApprovalStatus = models.QuoteStatusApproved
	now := quote.ApprovalStatus
	require.True(t, authz.CanEditQuote(owner, quote))
	tr = NextStatus(now, owner.ID == quote.SubmittedBy)
	assert.Equal(t, models.QuoteStatusSubmitted, tr.Status)
	assert.True(t, tr.ResetApproval)

	// Approved quotes are off limits for an intermediate editing someone
	// else's work; only advanced and admin may touch those.
	assert.False(t, authz.CanEditQuote(reviewer, quote))
	assert.True(t, authz.CanEditQuote(&models.User{ID: primitive.NewObjectID(), Roles: []string{"advanced"}}, quote))
}
