// handlers/context.go
package handlers

import (
	"errors"
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quoteportal/authz"
	"quoteportal/models"
	"quoteportal/utils"
	"quoteportal/workflow"
)

// actorFromContext rebuilds the acting user from what AuthMiddleware stored.
// Enough for every authorization decision; handlers that need more load the
// full document themselves.
func actorFromContext(r *http.Request) (*models.User, bool) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok || userIDStr == "" {
		return nil, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return nil, false
	}

	roles, _ := r.Context().Value("userRoles").([]string)
	email, _ := r.Context().Value("userEmail").(string)

	return &models.User{ID: userID, Email: email, Roles: roles}, true
}

// respondAuthzError translates the error taxonomy into HTTP responses.
// Denials carry minimal detail to the client; the full picture is in the
// audit log already.
func respondAuthzError(w http.ResponseWriter, err error) {
	var notFound *authz.NotFoundError
	if errors.As(err, &notFound) {
		utils.RespondWithError(w, http.StatusNotFound, notFound.ResourceType+" not found")
		return
	}

	var denied *authz.AccessDeniedError
	if errors.As(err, &denied) {
		if denied.NoRelation {
			// No relation context: answer as if the resource does not exist.
			utils.RespondWithError(w, http.StatusNotFound, denied.ResourceType+" not found")
			return
		}
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}

	var perm *authz.PermissionDeniedError
	if errors.As(err, &perm) {
		utils.RespondWithError(w, http.StatusForbidden, perm.Reason)
		return
	}

	var seq *workflow.SequenceViolationError
	if errors.As(err, &seq) {
		utils.RespondWithJSON(w, http.StatusConflict, map[string]interface{}{
			"error":            seq.Error(),
			"expectedSequence": seq.Expected,
		})
		return
	}

	var invariant *workflow.InvariantViolationError
	if errors.As(err, &invariant) {
		// Storage corruption. Surface nothing to the client beyond a 500.
		log.Printf("INVARIANT VIOLATION: %v", invariant)
		utils.RespondWithError(w, http.StatusInternalServerError, "Approval ledger inconsistent; contact an administrator")
		return
	}

	utils.RespondWithError(w, http.StatusInternalServerError, "Internal error")
}
