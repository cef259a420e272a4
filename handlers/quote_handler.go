// handlers/quote_handler.go
package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quoteportal/authz"
	"quoteportal/models"
	"quoteportal/utils"
	"quoteportal/workflow"
)

func loadQuote(ctx context.Context, quoteID primitive.ObjectID) (*models.Quote, error) {
	var quote models.Quote
	err := quoteCollection.FindOne(ctx, bson.M{"_id": quoteID}).Decode(&quote)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// editOutcome reports what an accepted edit did to the quote's workflow
// status, so clients can explain "your edit reset this quote to Submitted".
type editOutcome struct {
	StatusChanged  bool   `json:"statusChanged"`
	PreviousStatus string `json:"previousStatus"`
	NewStatus      string `json:"newStatus"`
}

// persistQuoteEdit applies content changes together with the workflow status
// transition in one UpdateOne. Status, cleared approval metadata, and the
// submitted content always land in the same write — a partial update here is
// a correctness bug, not a degraded mode.
func persistQuoteEdit(ctx context.Context, actor *models.User, quote *models.Quote, content bson.M) (*editOutcome, error) {
	isOwner := actor.ID == quote.SubmittedBy
	transition := workflow.NextStatus(quote.ApprovalStatus, isOwner)

	now := time.Now().UTC()
	set := bson.M{
		"approvalStatus": transition.Status,
		"lastEditedAt":   now,
		"lastEditedBy":   actor.ID,
		"updatedAt":      now,
	}
	for k, v := range content {
		set[k] = v
	}
	if transition.ResetApproval {
		set["approvedAt"] = nil
		set["approvedBy"] = nil
	}

	_, err := quoteCollection.UpdateOne(ctx,
		bson.M{"_id": quote.ID},
		bson.M{"$set": set, "$inc": bson.M{"editCount": 1}},
	)
	if err != nil {
		return nil, err
	}

	return &editOutcome{
		StatusChanged:  transition.Status != quote.ApprovalStatus,
		PreviousStatus: quote.ApprovalStatus,
		NewStatus:      transition.Status,
	}, nil
}

// ListQuotesForRFQ returns the quotes submitted against an RFQ. The RFQ's
// creator and intermediate-and-above users see all of them; basic users see
// only their own.
func ListQuotesForRFQ(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !authz.CapabilitiesForRoles(actor.Roles).CanViewQuotes {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have permission to view quotes")
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

	// Basic users see only their own submissions; the RFQ's creator and
	// anyone intermediate or above see the full comparison.
	filter := bson.M{"rfqId": rfqID}
	if authz.LevelFromRoles(actor.Roles) < authz.LevelIntermediate && actor.ID != rfq.CreatedBy {
		filter["submittedBy"] = actor.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := quoteCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "amount", Value: 1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch quotes")
		return
	}
	defer cursor.Close(ctx)

	var quotes []models.Quote
	if err = cursor.All(ctx, &quotes); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode quotes")
		return
	}
	if quotes == nil {
		quotes = []models.Quote{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"quotes":  quotes,
		"total":   len(quotes),
		"success": true,
	})
}

type quotePayload struct {
	SupplierName string  `json:"supplierName"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	LeadTimeDays int     `json:"leadTimeDays,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

func (p *quotePayload) validate() string {
	if strings.TrimSpace(p.SupplierName) == "" {
		return "Supplier name is required"
	}
	if p.Amount <= 0 {
		return "Amount must be positive"
	}
	if p.Currency == "" {
		return "Currency is required"
	}
	return ""
}

// SubmitQuote creates or resubmits a quote for (RFQ, supplier). One quote per
// supplier per RFQ: a resubmission for the same supplier updates the existing
// record and goes through the same permission and status-transition pipeline
// as a PUT edit, so a fresh POST cannot bypass the reset-on-edit rule.
func SubmitQuote(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !authz.CapabilitiesForRoles(actor.Roles).CanCreateQuotes {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have permission to submit quotes")
		return
	}

	rfqID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid RFQ ID format")
		return
	}

	var req quotePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
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
	if rfq.Status != models.RFQStatusOpen {
		utils.RespondWithError(w, http.StatusConflict, "RFQ is closed for submissions")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	supplierKey := models.SupplierKeyFor(req.SupplierName)

	var existing models.Quote
	err = quoteCollection.FindOne(ctx, bson.M{"rfqId": rfqID, "supplierKey": supplierKey}).Decode(&existing)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check existing quote")
		return
	}

	if err == nil {
		// Resubmission path: same checks as PUT.
		if gerr := ownershipGuard.ResolveQuoteAccess(ctx, actor, &existing, rfq); gerr != nil {
			respondAuthzError(w, gerr)
			return
		}
		if !authz.CanEditQuote(actor, &existing) {
			utils.RespondWithError(w, http.StatusForbidden, authz.EditDenialReason(actor, &existing))
			return
		}

		outcome, uerr := persistQuoteEdit(ctx, actor, &existing, bson.M{
			"supplierName": strings.TrimSpace(req.SupplierName),
			"amount":       req.Amount,
			"currency":     req.Currency,
			"leadTimeDays": req.LeadTimeDays,
			"notes":        req.Notes,
		})
		if uerr != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update quote")
			return
		}

		recordAudit(r, "quote_resubmit", "quote", existing.ID, bson.M{
			"rfqId":          rfqID.Hex(),
			"supplier":       req.SupplierName,
			"previousStatus": outcome.PreviousStatus,
			"newStatus":      outcome.NewStatus,
		})

		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"quoteId":    existing.ID.Hex(),
			"transition": outcome,
			"message":    "Quote updated",
			"success":    true,
		})
		return
	}

	now := time.Now().UTC()
	quote := models.Quote{
		ID:             primitive.NewObjectID(),
		RFQID:          rfqID,
		SupplierName:   strings.TrimSpace(req.SupplierName),
		SupplierKey:    supplierKey,
		Amount:         req.Amount,
		Currency:       req.Currency,
		LeadTimeDays:   req.LeadTimeDays,
		Notes:          req.Notes,
		ApprovalStatus: models.QuoteStatusSubmitted,
		SubmittedBy:    actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := quoteCollection.InsertOne(ctx, quote); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a concurrent first-submission race for this supplier.
			utils.RespondWithError(w, http.StatusConflict, "A quote for this supplier was just submitted; retry to update it")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create quote")
		return
	}

	recordAudit(r, "quote_submit", "quote", quote.ID, bson.M{
		"rfqId":    rfqID.Hex(),
		"supplier": quote.SupplierName,
		"amount":   quote.Amount,
	})

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"quote":   quote,
		"success": true,
	})
}

// GetQuote returns a single quote, gated on quote-level access.
func GetQuote(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	quoteID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid quote ID format")
		return
	}

	quote, err := loadQuote(r.Context(), quoteID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch quote")
		return
	}

	var rfq *models.RFQ
	if quote != nil {
		rfq, err = loadRFQ(r.Context(), quote.RFQID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch related RFQ")
			return
		}
	}

	if err := ownershipGuard.ResolveQuoteAccess(r.Context(), actor, quote, rfq); err != nil {
		respondAuthzError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, quote)
}

// UpdateQuote edits a quote. Order is load-bearing: ownership gate first,
// then the edit-permission ladder, then the status transition, persisted
// atomically with the content change.
func UpdateQuote(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	quoteID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid quote ID format")
		return
	}

	var req struct {
		Amount       *float64 `json:"amount,omitempty"`
		Currency     *string  `json:"currency,omitempty"`
		LeadTimeDays *int     `json:"leadTimeDays,omitempty"`
		Notes        *string  `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	quote, err := loadQuote(r.Context(), quoteID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch quote")
		return
	}

	var rfq *models.RFQ
	if quote != nil {
		rfq, err = loadRFQ(r.Context(), quote.RFQID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch related RFQ")
			return
		}
	}

	if err := ownershipGuard.ResolveQuoteAccess(r.Context(), actor, quote, rfq); err != nil {
		respondAuthzError(w, err)
		return
	}
	if !authz.CanEditQuote(actor, quote) {
		utils.RespondWithError(w, http.StatusForbidden, authz.EditDenialReason(actor, quote))
		return
	}

	content := bson.M{}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Amount must be positive")
			return
		}
		content["amount"] = *req.Amount
	}
	if req.Currency != nil {
		content["currency"] = *req.Currency
	}
	if req.LeadTimeDays != nil {
		content["leadTimeDays"] = *req.LeadTimeDays
	}
	if req.Notes != nil {
		content["notes"] = *req.Notes
	}
	if len(content) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	outcome, err := persistQuoteEdit(ctx, actor, quote, content)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update quote")
		return
	}

	recordAudit(r, "quote_update", "quote", quoteID, bson.M{
		"previousStatus": outcome.PreviousStatus,
		"newStatus":      outcome.NewStatus,
		"statusChanged":  outcome.StatusChanged,
	})

	updated, err := loadQuote(ctx, quoteID)
	if err != nil || updated == nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Quote updated but failed to fetch details")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"quote":      updated,
		"transition": outcome,
		"success":    true,
	})
}

// DeleteQuote removes a quote. Same gates as an edit.
func DeleteQuote(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	quoteID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid quote ID format")
		return
	}

	quote, err := loadQuote(r.Context(), quoteID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch quote")
		return
	}

	var rfq *models.RFQ
	if quote != nil {
		rfq, err = loadRFQ(r.Context(), quote.RFQID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch related RFQ")
			return
		}
	}

	if err := ownershipGuard.ResolveQuoteAccess(r.Context(), actor, quote, rfq); err != nil {
		respondAuthzError(w, err)
		return
	}
	if !authz.CanEditQuote(actor, quote) {
		utils.RespondWithError(w, http.StatusForbidden, authz.EditDenialReason(actor, quote))
		return
	}

	result, err := quoteCollection.DeleteOne(r.Context(), bson.M{"_id": quoteID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete quote")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Quote not found")
		return
	}

	recordAudit(r, "quote_delete", "quote", quoteID, bson.M{
		"rfqId":    quote.RFQID.Hex(),
		"supplier": quote.SupplierName,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Quote deleted",
		"success": true,
	})
}

// ImportQuotesCSV bulk-submits quotes from a CSV body. Each row runs through
// the same submission pipeline as a single POST.
// Expected columns: supplierName,amount,currency,leadTimeDays,notes
func ImportQuotesCSV(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !authz.CapabilitiesForRoles(actor.Roles).CanCreateQuotes {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have permission to submit quotes")
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
	if rfq.Status != models.RFQStatusOpen {
		utils.RespondWithError(w, http.StatusConflict, "RFQ is closed for submissions")
		return
	}

	reader := csv.NewReader(r.Body)
	reader.FieldsPerRecord = -1

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	imported := 0
	updated := 0
	var rowErrors []string

	for line := 0; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %v", line+1, err))
			continue
		}
		if line == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "suppliername") {
			continue // header row
		}
		if len(record) < 3 {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: need at least supplierName,amount,currency", line+1))
			continue
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil || amount <= 0 {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: invalid amount %q", line+1, record[1]))
			continue
		}

		leadTime := 0
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			leadTime, _ = strconv.Atoi(strings.TrimSpace(record[3]))
		}
		notes := ""
		if len(record) > 4 {
			notes = strings.TrimSpace(record[4])
		}

		supplierName := strings.TrimSpace(record[0])
		supplierKey := models.SupplierKeyFor(supplierName)
		if supplierKey == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: supplier name required", line+1))
			continue
		}

		var existing models.Quote
		ferr := quoteCollection.FindOne(ctx, bson.M{"rfqId": rfqID, "supplierKey": supplierKey}).Decode(&existing)
		if ferr == nil {
			if gerr := ownershipGuard.ResolveQuoteAccess(ctx, actor, &existing, rfq); gerr != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("line %d: no access to existing quote for %s", line+1, supplierName))
				continue
			}
			if !authz.CanEditQuote(actor, &existing) {
				rowErrors = append(rowErrors, fmt.Sprintf("line %d: %s", line+1, authz.EditDenialReason(actor, &existing)))
				continue
			}
			if _, uerr := persistQuoteEdit(ctx, actor, &existing, bson.M{
				"supplierName": supplierName,
				"amount":       amount,
				"currency":     strings.TrimSpace(record[2]),
				"leadTimeDays": leadTime,
				"notes":        notes,
			}); uerr != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("line %d: update failed", line+1))
				continue
			}
			updated++
			continue
		}
		if ferr != mongo.ErrNoDocuments {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: lookup failed", line+1))
			continue
		}

		now := time.Now().UTC()
		quote := models.Quote{
			ID:             primitive.NewObjectID(),
			RFQID:          rfqID,
			SupplierName:   supplierName,
			SupplierKey:    supplierKey,
			Amount:         amount,
			Currency:       strings.TrimSpace(record[2]),
			LeadTimeDays:   leadTime,
			Notes:          notes,
			ApprovalStatus: models.QuoteStatusSubmitted,
			SubmittedBy:    actor.ID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if _, ierr := quoteCollection.InsertOne(ctx, quote); ierr != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: insert failed for %s", line+1, supplierName))
			continue
		}
		imported++
	}

	recordAudit(r, "quote_import", "rfq", rfqID, bson.M{
		"imported": imported,
		"updated":  updated,
		"errors":   len(rowErrors),
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"imported": imported,
		"updated":  updated,
		"errors":   rowErrors,
		"success":  true,
	})
}

// ExportQuotesExcel renders the RFQ's quote comparison as an Excel workbook.
func ExportQuotesExcel(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !authz.CapabilitiesForRoles(actor.Roles).CanExportData {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have permission to export data")
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

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	cursor, err := quoteCollection.Find(ctx, bson.M{"rfqId": rfqID}, options.Find().SetSort(bson.D{{Key: "amount", Value: 1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch quotes")
		return
	}
	defer cursor.Close(ctx)

	var quotes []models.Quote
	if err = cursor.All(ctx, &quotes); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode quotes")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Quotes"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Supplier", "Amount", "Currency", "Lead Time (days)", "Status", "Submitted At", "Edits", "Notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, q := range quotes {
		values := []interface{}{
			q.SupplierName,
			q.Amount,
			q.Currency,
			q.LeadTimeDays,
			q.ApprovalStatus,
			q.CreatedAt.UTC().Format(time.RFC3339),
			q.EditCount,
			q.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=quotes-%s.xlsx", rfq.Reference))

	if err := f.Write(w); err != nil {
		// Headers already sent; nothing useful left to return.
		return
	}

	recordAudit(r, "quote_export", "rfq", rfqID, bson.M{"quotes": len(quotes)})
}
