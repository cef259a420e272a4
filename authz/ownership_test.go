package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quoteportal/models"
)

type recordedDenial struct {
	actorID      string
	resourceType string
	resourceID   string
	mode         string
}

type fakeDenialRecorder struct {
	denials []recordedDenial
}

func (f *fakeDenialRecorder) RecordDenial(_ context.Context, actor *models.User, resourceType, resourceID, mode string) {
	f.denials = append(f.denials, recordedDenial{
		actorID:      actor.ID.Hex(),
		resourceType: resourceType,
		resourceID:   resourceID,
		mode:         mode,
	})
}

func newGuard() (*Guard, *fakeDenialRecorder) {
	rec := &fakeDenialRecorder{}
	return &Guard{Denials: rec}, rec
}

func rfqOwnedBy(owner *models.User) *models.RFQ {
	return &models.RFQ{
		ID:        primitive.NewObjectID(),
		Status:    models.RFQStatusOpen,
		CreatedBy: owner.ID,
	}
}

func TestResolveRFQAccessMissingResource(t *testing.T) {
	guard, rec := newGuard()

	err := guard.ResolveRFQAccess(context.Background(), userWith("admin"), nil, ModeRead)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, rec.denials, "missing resource is not a denial")
}

func TestResolveRFQAccessAdminBypass(t *testing.T) {
	guard, _ := newGuard()
	owner := userWith("basic")
	admin := userWith("admin")

	assert.NoError(t, guard.ResolveRFQAccess(context.Background(), admin, rfqOwnedBy(owner), ModeWrite))
}

func TestResolveRFQAccessCreatorPassesEvenWithBasicRole(t *testing.T) {
	guard, _ := newGuard()
	owner := userWith("basic")

	assert.NoError(t, guard.ResolveRFQAccess(context.Background(), owner, rfqOwnedBy(owner), ModeWrite))
}

func TestResolveRFQAccessReadAllOpenToAnyone(t *testing.T) {
	guard, _ := newGuard()
	owner := userWith("basic")
	stranger := userWith("basic")

	assert.NoError(t, guard.ResolveRFQAccess(context.Background(), stranger, rfqOwnedBy(owner), ModeReadAll))
}

func TestResolveRFQAccessWriteDeniedAndAudited(t *testing.T) {
	guard, rec := newGuard()
	owner := userWith("basic")
	stranger := userWith("intermediate")
	rfq := rfqOwnedBy(owner)

	err := guard.ResolveRFQAccess(context.Background(), stranger, rfq, ModeWrite)

	var denied *AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.False(t, denied.NoRelation, "RFQs are listable, so existence is not a secret")
	assert.Equal(t, rfq.ID.Hex(), denied.ResourceID)
	assert.Equal(t, stranger.ID.Hex(), denied.ActorID)

	require.Len(t, rec.denials, 1)
	assert.Equal(t, stranger.ID.Hex(), rec.denials[0].actorID)
	assert.Equal(t, "rfq", rec.denials[0].resourceType)
	assert.Equal(t, string(ModeWrite), rec.denials[0].mode)
}

func TestResolveQuoteAccessSubmitterPasses(t *testing.T) {
	guard, _ := newGuard()
	submitter := userWith("basic")
	quote := quoteBy(submitter, models.QuoteStatusSubmitted)

	assert.NoError(t, guard.ResolveQuoteAccess(context.Background(), submitter, quote, nil))
}

func TestResolveQuoteAccessRFQOwnerPasses(t *testing.T) {
	guard, _ := newGuard()
	rfqOwner := userWith("basic")
	submitter := userWith("basic")
	rfq := rfqOwnedBy(rfqOwner)
	quote := quoteBy(submitter, models.QuoteStatusSubmitted)
	quote.RFQID = rfq.ID

	assert.NoError(t, guard.ResolveQuoteAccess(context.Background(), rfqOwner, quote, rfq))
}

func TestResolveQuoteAccessIntermediatePassesWithoutRelation(t *testing.T) {
	// The mid-tier edit right reaches other users' quotes, so the guard lets
	// intermediate and above through; the permission ladder decides the rest.
	guard, rec := newGuard()
	submitter := userWith("basic")
	quote := quoteBy(submitter, models.QuoteStatusApproved)

	assert.NoError(t, guard.ResolveQuoteAccess(context.Background(), userWith("intermediate"), quote, nil))
	assert.NoError(t, guard.ResolveQuoteAccess(context.Background(), userWith("advanced"), quote, nil))
	assert.Empty(t, rec.denials)

	// The ladder still blocks the edit itself.
	assert.False(t, CanEditQuote(userWith("intermediate"), quote))
}

func TestResolveQuoteAccessStrangerDeniedAsNotFound(t *testing.T) {
	guard, rec := newGuard()
	rfqOwner := userWith("basic")
	submitter := userWith("basic")
	stranger := userWith("basic")
	rfq := rfqOwnedBy(rfqOwner)
	quote := quoteBy(submitter, models.QuoteStatusSubmitted)

	err := guard.ResolveQuoteAccess(context.Background(), stranger, quote, rfq)

	var denied *AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.True(t, denied.NoRelation, "a stranger must not learn the quote exists")
	require.Len(t, rec.denials, 1)
	assert.Equal(t, "quote", rec.denials[0].resourceType)
}

func TestResolveQuoteAccessNilQuote(t *testing.T) {
	guard, _ := newGuard()

	err := guard.ResolveQuoteAccess(context.Background(), userWith("basic"), nil, nil)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGuardWithoutRecorderDoesNotPanic(t *testing.T) {
	guard := &Guard{}
	owner := userWith("basic")
	stranger := userWith("basic")

	err := guard.ResolveRFQAccess(context.Background(), stranger, rfqOwnedBy(owner), ModeWrite)
	assert.Error(t, err)
}
