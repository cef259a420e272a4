// handlers/report_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"quoteportal/authz"
	"quoteportal/config"
	"quoteportal/utils"
)

// GetOverviewReport aggregates portal-wide counts for the reporting view.
func GetOverviewReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !authz.CapabilitiesForRoles(actor.Roles).CanViewReports {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have permission to view reports")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	rfqsByStatus, err := countByField(ctx, rfqCollection, "$status")
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to aggregate RFQs")
		return
	}

	quotesByStatus, err := countByField(ctx, quoteCollection, "$approvalStatus")
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to aggregate quotes")
		return
	}

	// RFQs with a full approval chain.
	fullyApproved := 0
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$rfqId"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$match", Value: bson.D{
			{Key: "count", Value: bson.D{{Key: "$gte", Value: config.ApprovalChainLength}}},
		}}},
		{{Key: "$count", Value: "total"}},
	}
	cursor, err := approvalCollection.Aggregate(ctx, pipeline)
	if err == nil {
		var results []bson.M
		if cerr := cursor.All(ctx, &results); cerr == nil && len(results) > 0 {
			if total, ok := results[0]["total"].(int32); ok {
				fullyApproved = int(total)
			}
		}
	}

	totalApprovals, _ := approvalCollection.CountDocuments(ctx, bson.M{})

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"rfqsByStatus":        rfqsByStatus,
		"quotesByStatus":      quotesByStatus,
		"totalApprovals":      totalApprovals,
		"fullyApprovedRFQs":   fullyApproved,
		"approvalChainLength": config.ApprovalChainLength,
		"success":             true,
	})
}

func countByField(ctx context.Context, collection *mongo.Collection, field string) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, m := range results {
		status, _ := m["_id"].(string)
		if count, ok := m["count"].(int32); ok {
			counts[status] = int(count)
		}
	}
	return counts, nil
}
