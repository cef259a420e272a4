// workflow/status.go
package workflow

import "quoteportal/models"

// Transition is the outcome of applying an edit to a quote. When
// ResetApproval is true the caller must null out approvedAt/approvedBy in the
// same persisted write as the status and content change, never separately.
type Transition struct {
	Status        string
	ResetApproval bool
}

// transitionTable encodes the post-edit status policy. Keyed by
// (currentStatus, isOwnerEditing); statuses absent from the table are
// unchanged no-ops.
//
// An edit by a non-owner while a quote is under review invalidates that
// review: the facts changed under the approver. An edit to an approved quote
// invalidates the approval no matter who edits, because the stored content no
// longer matches what was approved.
var transitionTable = map[string]map[bool]Transition{
	models.QuoteStatusUnderReview: {
		false: {Status: models.QuoteStatusSubmitted, ResetApproval: true},
		true:  {Status: models.QuoteStatusUnderReview, ResetApproval: false},
	},
	models.QuoteStatusApproved: {
		false: {Status: models.QuoteStatusSubmitted, ResetApproval: true},
		true:  {Status: models.QuoteStatusSubmitted, ResetApproval: true},
	},
}

// NextStatus computes a quote's workflow status after an edit. This is the
// only path that moves a status backwards; every other transition in the
// portal is forward-only.
func NextStatus(currentStatus string, isOwnerEditing bool) Transition {
	if byOwner, ok := transitionTable[currentStatus]; ok {
		return byOwner[isOwnerEditing]
	}
	return Transition{Status: currentStatus, ResetApproval: false}
}
