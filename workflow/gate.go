// workflow/gate.go
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quoteportal/models"
)

// ErrDuplicateSequence is returned by Ledger implementations when an insert
// loses to the storage-layer uniqueness constraint on (rfqId, sequence).
var ErrDuplicateSequence = errors.New("approval sequence already recorded")

// SequenceViolationError rejects an out-of-order approval. Expected carries
// the now-correct next sequence so a client can retry without a re-read; it
// is the only error in the workflow that is safely auto-retryable, and only
// once.
type SequenceViolationError struct {
	Expected int
}

func (e *SequenceViolationError) Error() string {
	return fmt.Sprintf("approval out of sequence: next approval must be sequence %d", e.Expected)
}

// InvariantViolationError means storage handed back a ledger with a gap or a
// duplicate despite the unique index. That is corruption, not user error:
// processing must stop rather than continue on a broken chain.
type InvariantViolationError struct {
	RFQID  primitive.ObjectID
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("approval ledger corrupt for rfq %s: %s", e.RFQID.Hex(), e.Detail)
}

// Ledger is the persistence surface for approval chains. Insert must be
// atomic with the uniqueness check — a single round trip arbitrated by the
// storage layer, not a read followed by a write.
type Ledger interface {
	// MaxSequence returns the highest recorded sequence for the RFQ, 0 when
	// the chain is empty.
	MaxSequence(ctx context.Context, rfqID primitive.ObjectID) (int, error)
	// Insert appends an approval, returning ErrDuplicateSequence when the
	// (rfqId, sequence) pair already exists.
	Insert(ctx context.Context, approval *models.Approval) error
	// Entries returns the full chain for the RFQ in sequence order.
	Entries(ctx context.Context, rfqID primitive.ObjectID) ([]models.Approval, error)
}

// Gate enforces the gapless, strictly monotonic approval sequence for each
// RFQ. It does not check roles; callers must have already passed the
// canApproveQuotes capability check.
type Gate struct {
	ledger Ledger
}

func NewGate(ledger Ledger) *Gate {
	return &Gate{ledger: ledger}
}

// RecordApproval appends sequence step proposedSequence to the RFQ's chain.
// The max+1 precheck catches ordinary out-of-order submissions; the unique
// index catches the race where two callers read the same max. A lost race is
// reported exactly like an out-of-order submission, with the refreshed
// expected value.
func (g *Gate) RecordApproval(ctx context.Context, rfqID primitive.ObjectID, proposedSequence int, approverUserID primitive.ObjectID, remarks string) (*models.Approval, error) {
	if proposedSequence < 1 {
		return nil, &SequenceViolationError{Expected: 1}
	}

	max, err := g.ledger.MaxSequence(ctx, rfqID)
	if err != nil {
		return nil, err
	}

	expected := max + 1
	if proposedSequence != expected {
		return nil, &SequenceViolationError{Expected: expected}
	}

	approval := &models.Approval{
		ID:             primitive.NewObjectID(),
		RFQID:          rfqID,
		Sequence:       proposedSequence,
		ApproverUserID: approverUserID,
		Remarks:        remarks,
		ApprovedAt:     time.Now().UTC(),
	}

	err = g.ledger.Insert(ctx, approval)
	if err == nil {
		return approval, nil
	}

	if errors.Is(err, ErrDuplicateSequence) {
		// Lost the race: a concurrent caller holds this sequence. Re-read so
		// the caller gets the current expected value to retry with.
		if max, rerr := g.ledger.MaxSequence(ctx, rfqID); rerr == nil {
			return nil, &SequenceViolationError{Expected: max + 1}
		}
		return nil, &SequenceViolationError{Expected: proposedSequence + 1}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		// The insert may or may not have landed. Never report a speculative
		// outcome: re-read the chain and decide from what is actually there.
		return g.resolveUnconfirmedInsert(rfqID, approval, err)
	}

	return nil, err
}

// resolveUnconfirmedInsert re-reads the ledger after a timed-out insert.
// Runs on a fresh short deadline since the request context is already dead.
func (g *Gate) resolveUnconfirmedInsert(rfqID primitive.ObjectID, attempted *models.Approval, insertErr error) (*models.Approval, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := g.ledger.Entries(ctx, rfqID)
	if err != nil {
		return nil, fmt.Errorf("approval insert unconfirmed and ledger re-read failed: %w", insertErr)
	}

	for i := range entries {
		if entries[i].Sequence == attempted.Sequence {
			if entries[i].ApproverUserID == attempted.ApproverUserID {
				return &entries[i], nil
			}
			return nil, &SequenceViolationError{Expected: len(entries) + 1}
		}
	}
	return nil, fmt.Errorf("approval insert did not land: %w", insertErr)
}

// VerifyChain checks the gapless/unique invariant on a loaded ledger and
// returns the chain. Sequences must be exactly 1..len(entries).
func (g *Gate) VerifyChain(ctx context.Context, rfqID primitive.ObjectID) ([]models.Approval, error) {
	entries, err := g.ledger.Entries(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	for i, entry := range entries {
		if entry.Sequence != i+1 {
			return nil, &InvariantViolationError{
				RFQID:  rfqID,
				Detail: fmt.Sprintf("position %d holds sequence %d", i+1, entry.Sequence),
			}
		}
	}
	return entries, nil
}
