package workflow

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quoteportal/models"
)

// memoryLedger enforces the same uniqueness constraint as the Mongo index:
// Insert is atomic with the duplicate check under one lock.
type memoryLedger struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID][]models.Approval
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{entries: make(map[primitive.ObjectID][]models.Approval)}
}

func (l *memoryLedger) MaxSequence(_ context.Context, rfqID primitive.ObjectID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	max := 0
	for _, e := range l.entries[rfqID] {
		if e.Sequence > max {
			max = e.Sequence
		}
	}
	return max, nil
}

func (l *memoryLedger) Insert(_ context.Context, approval *models.Approval) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries[approval.RFQID] {
		if e.Sequence == approval.Sequence {
			return ErrDuplicateSequence
		}
	}
	l.entries[approval.RFQID] = append(l.entries[approval.RFQID], *approval)
	return nil
}

func (l *memoryLedger) Entries(_ context.Context, rfqID primitive.ObjectID) ([]models.Approval, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := append([]models.Approval(nil), l.entries[rfqID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func TestRecordApprovalHappyPath(t *testing.T) {
	gate := NewGate(newMemoryLedger())
	rfqID := primitive.NewObjectID()
	ctx := context.Background()

	first, err := gate.RecordApproval(ctx, rfqID, 1, primitive.NewObjectID(), "looks good")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, rfqID, first.RFQID)
	assert.False(t, first.ApprovedAt.IsZero())

	second, err := gate.RecordApproval(ctx, rfqID, 2, primitive.NewObjectID(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Sequence)
}

func TestRecordApprovalDuplicateSequence(t *testing.T) {
	gate := NewGate(newMemoryLedger())
	rfqID := primitive.NewObjectID()
	ctx := context.Background()

	_, err := gate.RecordApproval(ctx, rfqID, 1, primitive.NewObjectID(), "")
	require.NoError(t, err)
	_, err = gate.RecordApproval(ctx, rfqID, 2, primitive.NewObjectID(), "")
	require.NoError(t, err)

	_, err = gate.RecordApproval(ctx, rfqID, 2, primitive.NewObjectID(), "")
	var seqErr *SequenceViolationError
	require.ErrorAs(t, err, &seqErr)
	assert.Equal(t, 3, seqErr.Expected)
}

func TestRecordApprovalOutOfOrder(t *testing.T) {
	gate := NewGate(newMemoryLedger())
	rfqID := primitive.NewObjectID()
	ctx := context.Background()

	_, err := gate.RecordApproval(ctx, rfqID, 1, primitive.NewObjectID(), "")
	require.NoError(t, err)

	_, err = gate.RecordApproval(ctx, rfqID, 3, primitive.NewObjectID(), "")
	var seqErr *SequenceViolationError
	require.ErrorAs(t, err, &seqErr)
	assert.Equal(t, 2, seqErr.Expected)
}

func TestRecordApprovalMustStartAtOne(t *testing.T) {
	gate := NewGate(newMemoryLedger())

	_, err := gate.RecordApproval(context.Background(), primitive.NewObjectID(), 5, primitive.NewObjectID(), "")
	var seqErr *SequenceViolationError
	require.ErrorAs(t, err, &seqErr)
	assert.Equal(t, 1, seqErr.Expected)

	_, err = gate.RecordApproval(context.Background(), primitive.NewObjectID(), 0, primitive.NewObjectID(), "")
	require.ErrorAs(t, err, &seqErr)
	assert.Equal(t, 1, seqErr.Expected)
}

func TestRecordApprovalConcurrentRace(t *testing.T) {
	ledger := newMemoryLedger()
	gate := NewGate(ledger)
	rfqID := primitive.NewObjectID()
	ctx := context.Background()

	_, err := gate.RecordApproval(ctx, rfqID, 1, primitive.NewObjectID(), "")
	require.NoError(t, err)

	// Both callers read max=1 and propose sequence 2.
	var wg sync.WaitGroup
	results := make([]error, 2)
	start := make(chan struct{})

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, results[i] = gate.RecordApproval(ctx, rfqID, 2, primitive.NewObjectID(), "")
		}(i)
	}
	close(start)
	wg.Wait()

	successes := 0
	violations := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		var seqErr *SequenceViolationError
		require.ErrorAs(t, err, &seqErr)
		assert.Equal(t, 3, seqErr.Expected, "loser must be told the now-current expected sequence")
		violations++
	}
	assert.Equal(t, 1, successes, "exactly one concurrent insert may win")
	assert.Equal(t, 1, violations)

	// The ledger never holds two rows with the same sequence.
	entries, err := ledger.Entries(ctx, rfqID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Sequence)
	assert.Equal(t, 2, entries[1].Sequence)
}

func TestVerifyChain(t *testing.T) {
	ledger := newMemoryLedger()
	gate := NewGate(ledger)
	rfqID := primitive.NewObjectID()
	ctx := context.Background()

	entries, err := gate.VerifyChain(ctx, rfqID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = gate.RecordApproval(ctx, rfqID, 1, primitive.NewObjectID(), "")
	require.NoError(t, err)
	_, err = gate.RecordApproval(ctx, rfqID, 2, primitive.NewObjectID(), "")
	require.NoError(t, err)

	entries, err = gate.VerifyChain(ctx, rfqID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestVerifyChainDetectsGap(t *testing.T) {
	ledger := newMemoryLedger()
	gate := NewGate(ledger)
	rfqID := primitive.NewObjectID()
	ctx := context.Background()

	// Simulate storage corruption: a gap the gate could never have written.
	require.NoError(t, ledger.Insert(ctx, &models.Approval{RFQID: rfqID, Sequence: 1}))
	require.NoError(t, ledger.Insert(ctx, &models.Approval{RFQID: rfqID, Sequence: 3}))

	_, err := gate.VerifyChain(ctx, rfqID)
	var invErr *InvariantViolationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, rfqID, invErr.RFQID)
}

// timeoutLedger records the insert but reports a deadline error, modeling a
// write that landed while the ack was lost. With dropWrite the write is lost
// entirely; rival, if set, takes the sequence instead.
type timeoutLedger struct {
	*memoryLedger
	failInsert error
	dropWrite  bool
	rival      *primitive.ObjectID
}

func (l *timeoutLedger) Insert(ctx context.Context, approval *models.Approval) error {
	if l.failInsert != nil {
		if l.rival != nil {
			stolen := *approval
			stolen.ApproverUserID = *l.rival
			_ = l.memoryLedger.Insert(ctx, &stolen)
		} else if !l.dropWrite {
			_ = l.memoryLedger.Insert(ctx, approval)
		}
		return l.failInsert
	}
	return l.memoryLedger.Insert(ctx, approval)
}

func TestRecordApprovalUnconfirmedInsertThatLanded(t *testing.T) {
	ledger := &timeoutLedger{memoryLedger: newMemoryLedger(), failInsert: context.DeadlineExceeded}
	gate := NewGate(ledger)
	rfqID := primitive.NewObjectID()
	approver := primitive.NewObjectID()

	approval, err := gate.RecordApproval(context.Background(), rfqID, 1, approver, "")
	require.NoError(t, err, "a landed write must be reported as success after re-read")
	assert.Equal(t, 1, approval.Sequence)
	assert.Equal(t, approver, approval.ApproverUserID)
}

func TestRecordApprovalUnconfirmedInsertThatDidNotLand(t *testing.T) {
	ledger := &timeoutLedger{memoryLedger: newMemoryLedger(), failInsert: context.DeadlineExceeded, dropWrite: true}
	gate := NewGate(ledger)

	_, err := gate.RecordApproval(context.Background(), primitive.NewObjectID(), 1, primitive.NewObjectID(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRecordApprovalUnconfirmedInsertLostToRival(t *testing.T) {
	// Our write times out and a rival's approval holds the sequence by the
	// time the ledger is re-read.
	rivalID := primitive.NewObjectID()
	ledger := &timeoutLedger{memoryLedger: newMemoryLedger(), failInsert: context.DeadlineExceeded, rival: &rivalID}
	gate := NewGate(ledger)

	_, err := gate.RecordApproval(context.Background(), primitive.NewObjectID(), 1, primitive.NewObjectID(), "")
	var seqErr *SequenceViolationError
	require.ErrorAs(t, err, &seqErr)
	assert.Equal(t, 2, seqErr.Expected)
}
