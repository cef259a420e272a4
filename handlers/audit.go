// handlers/audit.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quoteportal/models"
	"quoteportal/websocket"
)

// recordAudit persists an audit entry and pushes it to the live stream.
// Audit failures are logged but never fail the request that triggered them.
func recordAudit(r *http.Request, action, entityType string, entityID primitive.ObjectID, details bson.M) {
	if auditLogCollection == nil {
		return
	}

	userIDStr, _ := r.Context().Value("userID").(string)
	userID, _ := primitive.ObjectIDFromHex(userIDStr)
	userEmail, _ := r.Context().Value("userEmail").(string)
	userRoles, _ := r.Context().Value("userRoles").([]string)

	audit := models.AuditLog{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		UserEmail:  userEmail,
		UserRoles:  userRoles,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  r.RemoteAddr,
		UserAgent:  r.UserAgent(),
		CreatedAt:  time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := auditLogCollection.InsertOne(ctx, audit); err != nil {
		log.Printf("Failed to create audit log: %v", err)
		return
	}
	websocket.BroadcastAudit(&audit)
}

// auditDenialRecorder feeds ownership denials into the audit trail. These
// entries are the IDOR-probe signal, so they always carry both actor and
// resource identifiers.
type auditDenialRecorder struct{}

func (auditDenialRecorder) RecordDenial(ctx context.Context, actor *models.User, resourceType, resourceID, mode string) {
	if auditLogCollection == nil {
		return
	}

	resourceObjID, _ := primitive.ObjectIDFromHex(resourceID)

	audit := models.AuditLog{
		ID:         primitive.NewObjectID(),
		UserID:     actor.ID,
		UserEmail:  actor.Email,
		UserRoles:  actor.Roles,
		Action:     "access_denied",
		EntityType: resourceType,
		EntityID:   resourceObjID,
		Details: bson.M{
			"mode":       mode,
			"actorId":    actor.ID.Hex(),
			"resourceId": resourceID,
		},
		CreatedAt: time.Now().UTC(),
	}

	insertCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := auditLogCollection.InsertOne(insertCtx, audit); err != nil {
		log.Printf("Failed to record access denial: %v", err)
		return
	}
	log.Printf("access denied: actor=%s resource=%s/%s mode=%s", actor.ID.Hex(), resourceType, resourceID, mode)
	websocket.BroadcastAudit(&audit)
}
