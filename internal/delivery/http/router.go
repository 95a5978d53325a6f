package http

import (
	"net/http"

	"clinical-followup-platform/internal/delivery/http/handler"
	"clinical-followup-platform/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	authHandler           *handler.AuthHandler
	patientHandler        *handler.PatientHandler
	consultationHandler   *handler.ConsultationHandler
	predictionHandler     *handler.PredictionHandler
	validationHandler     *handler.ValidationHandler
	followUpHandler       *handler.FollowUpHandler
	prescriptionHandler   *handler.PrescriptionHandler
	reconciliationHandler *handler.ReconciliationHandler
	auditLogHandler       *handler.AuditLogHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	consultationHandler *handler.ConsultationHandler,
	predictionHandler *handler.PredictionHandler,
	validationHandler *handler.ValidationHandler,
	followUpHandler *handler.FollowUpHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	reconciliationHandler *handler.ReconciliationHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		authHandler:           authHandler,
		patientHandler:        patientHandler,
		consultationHandler:   consultationHandler,
		predictionHandler:     predictionHandler,
		validationHandler:     validationHandler,
		followUpHandler:       followUpHandler,
		prescriptionHandler:   prescriptionHandler,
		reconciliationHandler: reconciliationHandler,
		auditLogHandler:       auditLogHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Staff routes: any authenticated clinical staff member
	staff := api.PathPrefix("").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)

	staff.HandleFunc("/patients", r.patientHandler.ListPatients).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	staff.HandleFunc("/consultations", r.consultationHandler.ListByPatient).Methods(http.MethodGet)
	staff.HandleFunc("/consultations/{id}", r.consultationHandler.GetConsultation).Methods(http.MethodGet)
	staff.HandleFunc("/predictions", r.predictionHandler.ListByVisit).Methods(http.MethodGet)
	staff.HandleFunc("/validations", r.validationHandler.ListValidations).Methods(http.MethodGet)
	staff.HandleFunc("/followups", r.followUpHandler.ListFollowUps).Methods(http.MethodGet)
	staff.HandleFunc("/followups/{id}", r.followUpHandler.GetFollowUp).Methods(http.MethodGet)
	staff.HandleFunc("/followups/{id}/exams", r.followUpHandler.ListExams).Methods(http.MethodGet)
	staff.HandleFunc("/prescriptions", r.prescriptionHandler.ListPrescriptions).Methods(http.MethodGet)
	staff.HandleFunc("/prescriptions/{id}", r.prescriptionHandler.GetPrescription).Methods(http.MethodGet)

	// Clinician routes: physicians and admins only
	clinician := api.PathPrefix("").Subrouter()
	clinician.Use(r.authMiddleware.Authenticate)
	clinician.Use(middleware.RequireClinician)

	clinician.HandleFunc("/patients", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	clinician.HandleFunc("/patients/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)
	clinician.HandleFunc("/consultations", r.consultationHandler.CreateConsultation).Methods(http.MethodPost)
	clinician.HandleFunc("/visits", r.consultationHandler.CreateVisit).Methods(http.MethodPost)
	clinician.HandleFunc("/predictions", r.predictionHandler.CreatePrediction).Methods(http.MethodPost)
	clinician.HandleFunc("/validations", r.validationHandler.CreateValidation).Methods(http.MethodPost)
	clinician.HandleFunc("/followups", r.followUpHandler.CreateFollowUp).Methods(http.MethodPost)
	clinician.HandleFunc("/followups/{id}", r.followUpHandler.UpdateFollowUp).Methods(http.MethodPut)
	clinician.HandleFunc("/followups/{id}/exams", r.followUpHandler.ScheduleExam).Methods(http.MethodPost)
	clinician.HandleFunc("/prescriptions/{id}/results", r.prescriptionHandler.RecordResults).Methods(http.MethodPost)
	clinician.HandleFunc("/reconciliation/run", r.reconciliationHandler.Run).Methods(http.MethodPost)
	clinician.HandleFunc("/reconciliation/candidates", r.reconciliationHandler.ListCandidates).Methods(http.MethodGet)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.ListAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
