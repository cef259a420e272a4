package routes

import (
	"github.com/gorilla/mux"

	"quoteportal/handlers"
	"quoteportal/middleware"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

func RegisterRoutes(r *mux.Router) {
	// ====================
	// HEALTH CHECK (Public)
	// ====================
	r.HandleFunc("/health", handlers.HealthCheck).Methods(MethodsGetOnly...)

	// ====================
	// AUTHENTICATION (Public - No auth required)
	// ====================
	r.HandleFunc("/api/auth/login", handlers.Login).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/logout", handlers.Logout).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/validate", handlers.ValidateToken).Methods(MethodsGetOnly...)

	// Live audit feed authenticates via token query param inside the handler.
	r.HandleFunc("/api/audit/stream", handlers.AuditStream).Methods(MethodsGetOnly...)

	// ====================
	// PROTECTED API ROUTES (Require authentication)
	// ====================
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(middleware.AuthMiddleware)

	// USER MANAGEMENT
	apiRouter.HandleFunc("/users", handlers.ListUsers).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users", handlers.CreateUser).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/users/export", handlers.ExportUsers).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users/{id}", handlers.GetUser).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users/{id}", handlers.UpdateUser).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/users/{id}/deactivate", handlers.DeactivateUser).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/user/me", handlers.GetCurrentUser).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/user/change-password", handlers.ChangePassword).Methods(MethodsPostOnly...)

	// RFQs
	apiRouter.HandleFunc("/rfqs", handlers.ListRFQs).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/rfqs", handlers.CreateRFQ).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/rfqs/{id}", handlers.GetRFQ).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/rfqs/{id}", handlers.UpdateRFQ).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/rfqs/{id}", handlers.DeleteRFQ).Methods(MethodsDeleteOnly...)

	// QUOTES
	apiRouter.HandleFunc("/rfqs/{id}/quotes", handlers.ListQuotesForRFQ).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/rfqs/{id}/quotes", handlers.SubmitQuote).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/rfqs/{id}/quotes/import", handlers.ImportQuotesCSV).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/rfqs/{id}/quotes/export", handlers.ExportQuotesExcel).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/quotes/{id}", handlers.GetQuote).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/quotes/{id}", handlers.UpdateQuote).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/quotes/{id}", handlers.DeleteQuote).Methods(MethodsDeleteOnly...)

	// APPROVALS
	apiRouter.HandleFunc("/rfqs/{id}/approvals", handlers.ListApprovals).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/rfqs/{id}/approvals", handlers.RecordApproval).Methods(MethodsPostOnly...)

	// REPORTS
	apiRouter.HandleFunc("/reports/overview", handlers.GetOverviewReport).Methods(MethodsGetOnly...)

	// AUDIT LOGS
	apiRouter.HandleFunc("/audit", handlers.ListAuditLogs).Methods(MethodsGetOnly...)
}
