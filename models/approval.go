// models/approval.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Approval is one step in an RFQ's sign-off chain. Entries are append-only:
// for a given RFQ the recorded sequences are exactly 1..N, enforced by the
// uniq_rfq_sequence index plus the gate's max+1 check.
type Approval struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RFQID          primitive.ObjectID `bson:"rfqId" json:"rfqId"`
	Sequence       int                `bson:"sequence" json:"sequence"`
	ApproverUserID primitive.ObjectID `bson:"approverUserId" json:"approverUserId"`
	Remarks        string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	ApprovedAt     time.Time          `bson:"approvedAt" json:"approvedAt"`
}
