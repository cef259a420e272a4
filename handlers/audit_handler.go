// handlers/audit_handler.go
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quoteportal/authz"
	"quoteportal/models"
	"quoteportal/utils"
	"quoteportal/websocket"
)

// ListAuditLogs returns the audit trail, newest first. Admin only: the trail
// contains denial entries with actor identifiers.
func ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !authz.HasRole(actor.Roles, authz.RoleAdmin) {
		utils.RespondWithError(w, http.StatusForbidden, "Audit logs require admin access")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	filter := bson.M{}
	query := r.URL.Query()

	if action := query.Get("action"); action != "" && action != "all" {
		filter["action"] = action
	}
	if entityType := query.Get("entityType"); entityType != "" && entityType != "all" {
		filter["entityType"] = entityType
	}
	if userIDStr := query.Get("userId"); userIDStr != "" {
		if userID, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
			filter["userId"] = userID
		}
	}

	limit := int64(50)
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.ParseInt(limitStr, 10, 64); err == nil && l > 0 && l <= 500 {
			limit = l
		}
	}
	skip := int64(0)
	if skipStr := query.Get("skip"); skipStr != "" {
		if s, err := strconv.ParseInt(skipStr, 10, 64); err == nil && s >= 0 {
			skip = s
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := auditLogCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch audit logs")
		return
	}
	defer cursor.Close(ctx)

	var logs []models.AuditLog
	if err = cursor.All(ctx, &logs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode audit logs")
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	total, _ := auditLogCollection.CountDocuments(ctx, filter)

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"logs":    logs,
		"total":   total,
		"limit":   limit,
		"skip":    skip,
		"success": true,
	})
}

// AuditStream upgrades to a websocket feed of live audit events.
func AuditStream(w http.ResponseWriter, r *http.Request) {
	// Token arrives as a query parameter; browsers cannot set headers on
	// websocket upgrades.
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Token required")
		return
	}
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if !authz.HasRole(claims.Roles, authz.RoleAdmin) {
		utils.RespondWithError(w, http.StatusForbidden, "Audit stream requires admin access")
		return
	}

	websocket.ServeAuditStream(w, r)
}
