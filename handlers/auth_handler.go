// handlers/auth_handler.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"quoteportal/authz"
	"quoteportal/models"
	"quoteportal/utils"
)

// Login handles user authentication
func Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	creds.Email = strings.TrimSpace(strings.ToLower(creds.Email))
	if creds.Email == "" || !strings.Contains(creds.Email, "@") {
		utils.RespondWithError(w, http.StatusBadRequest, "Valid email required")
		return
	}
	if len(creds.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	var user models.User
	err := userCollection.FindOne(r.Context(), bson.M{
		"email":         creds.Email,
		"deactivatedAt": nil,
	}).Decode(&user)

	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Constant-time-ish: burn a bcrypt comparison so a missing
			// account is not distinguishable by response latency.
			_ = utils.CheckPasswordHash("dummy_password", "$2a$10$dummyhashfordummycomparison")
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("Database error during login: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Authentication service unavailable")
		return
	}

	if !utils.CheckPasswordHash(creds.Password, user.PasswordHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.FullName(), user.Roles)
	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":           user.ID.Hex(),
			"name":         user.FullName(),
			"email":        user.Email,
			"roles":        user.Roles,
			"capabilities": authz.CapabilitiesForRoles(user.Roles),
		},
		"success": true,
	})
}

// Logout is a no-op on the server side; tokens are stateless and the client
// discards its copy. Kept as an endpoint so clients have a single auth API.
func Logout(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logged out",
		"success": true,
	})
}

// ValidateToken confirms the bearer token still resolves to an active user.
func ValidateToken(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	claims, err := utils.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	var user models.User
	if err := userCollection.FindOne(r.Context(), bson.M{"_id": userID, "deactivatedAt": nil}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not found or deactivated")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"user": map[string]interface{}{
			"id":           user.ID.Hex(),
			"name":         user.FullName(),
			"email":        user.Email,
			"roles":        user.Roles,
			"capabilities": authz.CapabilitiesForRoles(user.Roles),
		},
	})
}

// ChangePassword lets an authenticated user rotate their own password.
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if len(req.NewPassword) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "New password must be at least 8 characters")
		return
	}

	var user models.User
	if err := userCollection.FindOne(r.Context(), bson.M{"_id": actor.ID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not found")
		return
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	_, err = userCollection.UpdateOne(r.Context(),
		bson.M{"_id": actor.ID},
		bson.M{"$set": bson.M{"passwordHash": hash, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	recordAudit(r, "password_change", "user", actor.ID, nil)

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Password updated",
		"success": true,
	})
}
