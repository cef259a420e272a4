// authz/permissions.go
package authz

import "quoteportal/models"

// CanEditQuote decides whether actor may mutate the given quote. Pure
// predicate: callers translate false into a PermissionDenied outcome.
//
// The ladder is evaluated top-down and the order matters — each rung trusts
// the actor strictly more than the one below:
//
//  1. admin: always.
//  2. advanced: any quote in any status, approved included.
//  3. intermediate: own quotes always; other users' quotes only while still
//     submitted or under review. Intentionally broad — an intermediate user
//     may touch any colleague's in-flight quote, not just quotes against
//     their own RFQs.
//  4. basic: own quotes only, regardless of status.
func CanEditQuote(actor *models.User, quote *models.Quote) bool {
	switch LevelFromRoles(actor.Roles) {
	case LevelAdmin:
		return true
	case LevelAdvanced:
		return true
	case LevelIntermediate:
		if actor.ID == quote.SubmittedBy {
			return true
		}
		return quote.ApprovalStatus == models.QuoteStatusSubmitted ||
			quote.ApprovalStatus == models.QuoteStatusUnderReview
	case LevelBasic:
		return actor.ID == quote.SubmittedBy
	default:
		return false
	}
}

// EditDenialReason returns the human message for a failed CanEditQuote, tuned
// to the actor's level so clients can explain the denial.
func EditDenialReason(actor *models.User, quote *models.Quote) string {
	switch LevelFromRoles(actor.Roles) {
	case LevelIntermediate:
		if actor.ID != quote.SubmittedBy {
			return "You cannot edit another user's quote once it has been approved or rejected"
		}
	case LevelBasic:
		return "You can only edit your own quotes"
	}
	return "You do not have permission to edit this quote"
}
