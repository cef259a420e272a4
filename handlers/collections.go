// handlers/collections.go
package handlers

import (
	"go.mongodb.org/mongo-driver/mongo"

	"quoteportal/authz"
	"quoteportal/config"
	"quoteportal/database"
	"quoteportal/workflow"
)

var (
	userCollection     *mongo.Collection
	rfqCollection      *mongo.Collection
	quoteCollection    *mongo.Collection
	approvalCollection *mongo.Collection
	auditLogCollection *mongo.Collection

	ownershipGuard *authz.Guard
	approvalGate   *workflow.Gate
)

func InitCollections() {
	db := database.Client.Database(config.DatabaseName)

	userCollection = db.Collection("users")
	rfqCollection = db.Collection("rfqs")
	quoteCollection = db.Collection("quotes")
	approvalCollection = db.Collection("approvals")
	auditLogCollection = db.Collection("audit_logs")

	ownershipGuard = &authz.Guard{Denials: &auditDenialRecorder{}}
	approvalGate = workflow.NewGate(workflow.NewMongoLedger(approvalCollection))
}
