// handlers/approval_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quoteportal/authz"
	"quoteportal/config"
	"quoteportal/models"
	"quoteportal/utils"
)

func canApprove(actor *models.User) bool {
	if authz.CapabilitiesForRoles(actor.Roles).CanApproveQuotes {
		return true
	}
	return authz.HasRole(actor.Roles, authz.TagProcurement)
}

// ListApprovals returns an RFQ's approval chain and its progress against the
// configured chain length. The chain is verified on every read: a gap or
// duplicate means storage corruption and is a hard error.
func ListApprovals(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	entries, err := approvalGate.VerifyChain(ctx, rfqID)
	if err != nil {
		respondAuthzError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"approvals":     entries,
		"chainLength":   config.ApprovalChainLength,
		"nextSequence":  len(entries) + 1,
		"chainComplete": len(entries) >= config.ApprovalChainLength,
		"success":       true,
	})
}

// RecordApproval appends the next step to an RFQ's approval chain. The
// capability check happens here; the gate itself only enforces sequencing.
// An out-of-order or raced submission gets a 409 carrying the expected
// sequence so the client can retry once with corrected input.
func RecordApproval(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !canApprove(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "Recording approvals requires procurement or admin access")
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
	if rfq == nil {
		utils.RespondWithError(w, http.StatusNotFound, "rfq not found")
		return
	}

	var req struct {
		Sequence int    `json:"sequence"`
		Remarks  string `json:"remarks,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if req.Sequence > config.ApprovalChainLength {
		utils.RespondWithError(w, http.StatusBadRequest, "Sequence exceeds the configured approval chain length")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	approval, err := approvalGate.RecordApproval(ctx, rfqID, req.Sequence, actor.ID, req.Remarks)
	if err != nil {
		respondAuthzError(w, err)
		return
	}

	recordAudit(r, "approval_record", "rfq", rfqID, bson.M{
		"sequence": approval.Sequence,
		"remarks":  req.Remarks,
	})

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"approval":      approval,
		"chainLength":   config.ApprovalChainLength,
		"chainComplete": approval.Sequence >= config.ApprovalChainLength,
		"success":       true,
	})
}
