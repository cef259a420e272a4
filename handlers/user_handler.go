// handlers/user_handler.go
package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
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

func requireManageUsers(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	if !authz.CapabilitiesForRoles(actor.Roles).CanManageUsers {
		utils.RespondWithError(w, http.StatusForbidden, "User management requires admin access")
		return nil, false
	}
	return actor, true
}

// ListUsers returns all accounts, active and deactivated.
func ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManageUsers(w, r); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := userCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode users")
		return
	}
	if users == nil {
		users = []models.User{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"users":   users,
		"total":   len(users),
		"success": true,
	})
}

// GetCurrentUser returns the authenticated user's own record.
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var user models.User
	if err := userCollection.FindOne(r.Context(), bson.M{"_id": actor.ID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user":         user,
		"capabilities": authz.CapabilitiesForRoles(user.Roles),
		"success":      true,
	})
}

// GetUser returns a single account by id.
func GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManageUsers(w, r); !ok {
		return
	}

	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var user models.User
	if err := userCollection.FindOne(r.Context(), bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// CreateUser provisions a new account with a generated password.
func CreateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManageUsers(w, r); !ok {
		return
	}

	var req struct {
		FirstName string   `json:"firstName"`
		LastName  string   `json:"lastName"`
		Email     string   `json:"email"`
		JobTitle  string   `json:"jobTitle,omitempty"`
		Roles     []string `json:"roles"`
		Password  string   `json:"password,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.RespondWithError(w, http.StatusBadRequest, "Valid email required")
		return
	}
	if len(req.Roles) == 0 {
		req.Roles = []string{authz.RoleBasic}
	}

	password := req.Password
	generated := false
	if password == "" {
		password = utils.GenerateRandomPassword(12)
		generated = true
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		JobTitle:     req.JobTitle,
		PasswordHash: hash,
		Roles:        req.Roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := userCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "A user with this email already exists")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	recordAudit(r, "user_create", "user", user.ID, bson.M{"email": user.Email, "roles": user.Roles})

	response := map[string]interface{}{
		"user":    user,
		"success": true,
	}
	if generated {
		// Returned once at creation; never stored in clear.
		response["temporaryPassword"] = password
	}
	utils.RespondWithJSON(w, http.StatusCreated, response)
}

// UpdateUser changes profile fields and roles.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManageUsers(w, r); !ok {
		return
	}

	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req struct {
		FirstName *string   `json:"firstName,omitempty"`
		LastName  *string   `json:"lastName,omitempty"`
		JobTitle  *string   `json:"jobTitle,omitempty"`
		Roles     *[]string `json:"roles,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	update := bson.M{"updatedAt": time.Now().UTC()}
	if req.FirstName != nil {
		update["firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		update["lastName"] = *req.LastName
	}
	if req.JobTitle != nil {
		update["jobTitle"] = *req.JobTitle
	}
	if req.Roles != nil {
		update["roles"] = *req.Roles
	}

	result, err := userCollection.UpdateOne(r.Context(), bson.M{"_id": userID}, bson.M{"$set": update})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	recordAudit(r, "user_update", "user", userID, bson.M(update))

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated",
		"success": true,
	})
}

// DeactivateUser soft-deactivates an account. Accounts are never hard-deleted
// while quotes or RFQs reference them.
func DeactivateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireManageUsers(w, r)
	if !ok {
		return
	}

	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}
	if userID == actor.ID {
		utils.RespondWithError(w, http.StatusBadRequest, "You cannot deactivate your own account")
		return
	}

	now := time.Now().UTC()
	result, err := userCollection.UpdateOne(r.Context(),
		bson.M{"_id": userID, "deactivatedAt": nil},
		bson.M{"$set": bson.M{"deactivatedAt": now, "updatedAt": now}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to deactivate user")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found or already deactivated")
		return
	}

	recordAudit(r, "user_deactivate", "user", userID, nil)

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User deactivated",
		"success": true,
	})
}

// ExportUsers streams the user list as CSV.
func ExportUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManageUsers(w, r); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	cursor, err := userCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode users")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=users-%s.csv", time.Now().UTC().Format("2006-01-02")))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Email", "First Name", "Last Name", "Job Title", "Roles", "Active", "Created At"})
	for _, u := range users {
		writer.Write([]string{
			u.Email,
			u.FirstName,
			u.LastName,
			u.JobTitle,
			strings.Join(u.Roles, ";"),
			fmt.Sprintf("%t", u.IsActive()),
			u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
}
