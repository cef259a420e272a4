// models/quote.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	QuoteStatusSubmitted   = "submitted"
	QuoteStatusUnderReview = "under_review"
	QuoteStatusApproved    = "approved"
	QuoteStatusRejected    = "rejected"
)

type Quote struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RFQID          primitive.ObjectID  `bson:"rfqId" json:"rfqId"`
	SupplierName   string              `bson:"supplierName" json:"supplierName"`
	SupplierKey    string              `bson:"supplierKey" json:"-"`
	Amount         float64             `bson:"amount" json:"amount"`
	Currency       string              `bson:"currency" json:"currency"`
	LeadTimeDays   int                 `bson:"leadTimeDays,omitempty" json:"leadTimeDays,omitempty"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
	ApprovalStatus string              `bson:"approvalStatus" json:"approvalStatus"`
	ApprovedAt     *time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	ApprovedBy     *primitive.ObjectID `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	LastEditedAt   *time.Time          `bson:"lastEditedAt,omitempty" json:"lastEditedAt,omitempty"`
	LastEditedBy   *primitive.ObjectID `bson:"lastEditedBy,omitempty" json:"lastEditedBy,omitempty"`
	EditCount      int                 `bson:"editCount" json:"editCount"`
	SubmittedBy    primitive.ObjectID  `bson:"submittedBy" json:"submittedBy"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// SupplierKeyFor normalizes a supplier name into the natural key used by the
// uniq_rfq_supplier index. Matching is case-insensitive.
func SupplierKeyFor(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
