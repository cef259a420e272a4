// authz/ownership.go
package authz

import (
	"context"

	"quoteportal/models"
)

// AccessMode qualifies what the actor is about to do with the resource.
type AccessMode string

const (
	// ModeReadAll is used by view-only listings open to every authenticated
	// user with the view capability.
	ModeReadAll AccessMode = "read-all"
	ModeRead    AccessMode = "read"
	ModeWrite   AccessMode = "write"
)

// DenialRecorder receives ownership denials. Denied lookups against resources
// the actor has no relation to are an IDOR probe signal, so every denial is
// recorded with enough identifiers to investigate, not just rejected.
type DenialRecorder interface {
	RecordDenial(ctx context.Context, actor *models.User, resourceType, resourceID, mode string)
}

// Guard is the resource-level ownership gate evaluated before any
// capability or edit-permission check.
type Guard struct {
	Denials DenialRecorder
}

// ResolveRFQAccess decides whether actor may touch the RFQ at all.
// Admin bypasses everything; the creator always passes; read-all listings
// pass for everyone else. A write denial keeps NoRelation false: RFQs are
// visible to all authenticated users through listings, so admitting the
// resource exists leaks nothing.
func (g *Guard) ResolveRFQAccess(ctx context.Context, actor *models.User, rfq *models.RFQ, mode AccessMode) error {
	if rfq == nil {
		return &NotFoundError{ResourceType: "rfq", ResourceID: ""}
	}
	if HasRole(actor.Roles, RoleAdmin) {
		return nil
	}
	if actor.ID == rfq.CreatedBy {
		return nil
	}
	if mode == ModeReadAll {
		return nil
	}

	g.recordDenial(ctx, actor, "rfq", rfq.ID.Hex(), mode)
	return &AccessDeniedError{
		ResourceType: "rfq",
		ResourceID:   rfq.ID.Hex(),
		ActorID:      actor.ID.Hex(),
	}
}

// ResolveQuoteAccess decides whether actor may touch the quote. The quote's
// submitter passes, and so does the owner of the RFQ the quote was submitted
// against: an RFQ owner gets to see and act on the quotes answering it.
// Intermediate and above also pass — their edit rights extend to other
// users' in-flight quotes, so the level itself is the relation; whether the
// edit is actually allowed is the permission ladder's call, not this gate's.
// A denied actor has zero relation to the quote, so NoRelation is set and
// handlers answer not-found rather than forbidden.
func (g *Guard) ResolveQuoteAccess(ctx context.Context, actor *models.User, quote *models.Quote, relatedRFQ *models.RFQ) error {
	if quote == nil {
		return &NotFoundError{ResourceType: "quote", ResourceID: ""}
	}
	if HasRole(actor.Roles, RoleAdmin) {
		return nil
	}
	if LevelFromRoles(actor.Roles) >= LevelIntermediate {
		return nil
	}
	if actor.ID == quote.SubmittedBy {
		return nil
	}
	if relatedRFQ != nil && actor.ID == relatedRFQ.CreatedBy {
		return nil
	}

	g.recordDenial(ctx, actor, "quote", quote.ID.Hex(), ModeRead)
	return &AccessDeniedError{
		ResourceType: "quote",
		ResourceID:   quote.ID.Hex(),
		ActorID:      actor.ID.Hex(),
		NoRelation:   true,
	}
}

func (g *Guard) recordDenial(ctx context.Context, actor *models.User, resourceType, resourceID string, mode AccessMode) {
	if g.Denials == nil {
		return
	}
	g.Denials.RecordDenial(ctx, actor, resourceType, resourceID, string(mode))
}
