// handlers/rfq_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quoteportal/authz"
	"quoteportal/models"
	"quoteportal/utils"
)

// loadRFQ fetches an RFQ by id. A nil RFQ with nil error means not found;
// the ownership guard turns that into the 404.
func loadRFQ(ctx context.Context, rfqID primitive.ObjectID) (*models.RFQ, error) {
	var rfq models.RFQ
	err := rfqCollection.FindOne(ctx, bson.M{"_id": rfqID}).Decode(&rfq)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rfq, nil
}

// ListRFQs returns all RFQs. Listings are read-all: any authenticated user
// with the view capability sees every RFQ.
func ListRFQs(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !authz.CapabilitiesForRoles(actor.Roles).CanViewRFQs {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have permission to view RFQs")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" && status != "all" {
		filter["status"] = status
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"reference": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(200)
	cursor, err := rfqCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch RFQs")
		return
	}
	defer cursor.Close(ctx)

	var rfqs []models.RFQ
	if err = cursor.All(ctx, &rfqs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode RFQs")
		return
	}
	if rfqs == nil {
		rfqs = []models.RFQ{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"rfqs":    rfqs,
		"total":   len(rfqs),
		"success": true,
	})
}

// CreateRFQ opens a new request for quotation.
func CreateRFQ(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !authz.CapabilitiesForRoles(actor.Roles).CanCreateRFQs {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have permission to create RFQs")
		return
	}

	var req struct {
		Reference   string     `json:"reference"`
		Title       string     `json:"title"`
		Description string     `json:"description,omitempty"`
		Category    string     `json:"category,omitempty"`
		ClosesAt    *time.Time `json:"closesAt,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.Reference == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Reference is required")
		return
	}

	now := time.Now().UTC()
	rfq := models.RFQ{
		ID:          primitive.NewObjectID(),
		Reference:   req.Reference,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      models.RFQStatusOpen,
		CreatedBy:   actor.ID,
		ClosesAt:    req.ClosesAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := rfqCollection.InsertOne(ctx, rfq); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create RFQ")
		return
	}

	recordAudit(r, "rfq_create", "rfq", rfq.ID, bson.M{"reference": rfq.Reference, "title": rfq.Title})

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"rfq":     rfq,
		"success": true,
	})
}

// GetRFQ returns a single RFQ. Reads go through the guard in read-all mode.
func GetRFQ(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	rfqID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid RFQ ID format")
		return
	}

	rfq, err := loadRFQ(r.Context(), rfqID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch RFQ")
		return
	}

	if err := ownershipGuard.ResolveRFQAccess(r.Context(), actor, rfq, authz.ModeReadAll); err != nil {
		respondAuthzError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, rfq)
}

// UpdateRFQ edits an RFQ. Only its creator (or an admin) may touch it; that
// is a resource gate, checked before the capability.
func UpdateRFQ(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	rfqID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid RFQ ID format")
		return
	}

	rfq, err := loadRFQ(r.Context(), rfqID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch RFQ")
		return
	}
	if err := ownershipGuard.ResolveRFQAccess(r.Context(), actor, rfq, authz.ModeWrite); err != nil {
		respondAuthzError(w, err)
		return
	}
	if !authz.CapabilitiesForRoles(actor.Roles).CanEditRFQs {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have permission to edit RFQs")
		return
	}

	var req struct {
		Title       *string    `json:"title,omitempty"`
		Description *string    `json:"description,omitempty"`
		Category    *string    `json:"category,omitempty"`
		Status      *string    `json:"status,omitempty"`
		ClosesAt    *time.Time `json:"closesAt,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	update := bson.M{"updatedAt": time.Now().UTC()}
	if req.Title != nil {
		update["title"] = *req.Title
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Category != nil {
		update["category"] = *req.Category
	}
	if req.ClosesAt != nil {
		update["closesAt"] = *req.ClosesAt
	}
	if req.Status != nil {
		if *req.Status != models.RFQStatusOpen && *req.Status != models.RFQStatusClosed {
			utils.RespondWithError(w, http.StatusBadRequest, "Status must be open or closed")
			return
		}
		update["status"] = *req.Status
	}

	result, err := rfqCollection.UpdateOne(r.Context(), bson.M{"_id": rfqID}, bson.M{"$set": update})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update RFQ")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "RFQ not found")
		return
	}

	recordAudit(r, "rfq_update", "rfq", rfqID, bson.M(update))

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "RFQ updated",
		"success": true,
	})
}

// DeleteRFQ removes an RFQ that has no quotes against it.
func DeleteRFQ(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	rfqID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid RFQ ID format")
		return
	}

	rfq, err := loadRFQ(r.Context(), rfqID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch RFQ")
		return
	}
	if err := ownershipGuard.ResolveRFQAccess(r.Context(), actor, rfq, authz.ModeWrite); err != nil {
		respondAuthzError(w, err)
		return
	}
	if !authz.CapabilitiesForRoles(actor.Roles).CanDeleteRFQs {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have permission to delete RFQs")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Quotes and approvals reference RFQs for their lifetime.
	quoteCount, err := quoteCollection.CountDocuments(ctx, bson.M{"rfqId": rfqID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check related quotes")
		return
	}
	if quoteCount > 0 {
		utils.RespondWithError(w, http.StatusConflict, "RFQ has quotes submitted against it; close it instead")
		return
	}

	result, err := rfqCollection.DeleteOne(ctx, bson.M{"_id": rfqID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete RFQ")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "RFQ not found")
		return
	}

	recordAudit(r, "rfq_delete", "rfq", rfqID, bson.M{"reference": rfq.Reference})

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "RFQ deleted",
		"success": true,
	})
}
