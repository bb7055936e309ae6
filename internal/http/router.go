package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"electric-backend/internal/handlers"
	"electric-backend/internal/middleware"
	"electric-backend/internal/models"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	customerHandler *handlers.CustomerHandler,
	chatHandler *handlers.ChatHandler,
	totpHandler *handlers.TOTPHandler,
	razorpayHandler *handlers.RazorpayHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Health and metrics
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public auth routes
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/login/2fa", totpHandler.VerifyLogin).Methods("POST")

	// Everything below requires a valid session
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/auth/verify", authHandler.Verify).Methods("GET")
	api.HandleFunc("/auth/profile", authHandler.UpdateProfile).Methods("PUT")
	api.HandleFunc("/auth/password", authHandler.ChangePassword).Methods("PUT")

	// Admin 2FA management
	admin2FA := api.PathPrefix("/auth/2fa").Subrouter()
	admin2FA.Use(middleware.RequireRole(models.RoleAdmin))
	admin2FA.HandleFunc("/setup", totpHandler.Setup).Methods("POST")
	admin2FA.HandleFunc("/enable", totpHandler.Enable).Methods("POST")
	admin2FA.HandleFunc("/disable", totpHandler.Disable).Methods("POST")

	// Customer self-service
	api.HandleFunc("/customers/me/jobs", customerHandler.MyJobs).Methods("GET")

	// Customer record access; service enforces ownership for customers
	api.HandleFunc("/customers/{id:[0-9]+}", customerHandler.Get).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}", customerHandler.Update).Methods("PUT")

	// Admin-only customer management
	adminOnly := api.PathPrefix("/customers").Subrouter()
	adminOnly.Use(middleware.RequireRole(models.RoleAdmin))
	adminOnly.HandleFunc("", customerHandler.List).Methods("GET")
	adminOnly.HandleFunc("", customerHandler.Create).Methods("POST")
	adminOnly.HandleFunc("/stats", customerHandler.Stats).Methods("GET")
	adminOnly.HandleFunc("/{id:[0-9]+}/payments", customerHandler.AddPayment).Methods("POST")
	adminOnly.HandleFunc("/{id:[0-9]+}/statement", reportHandler.CustomerStatement).Methods("GET")
	adminOnly.HandleFunc("/{id:[0-9]+}", customerHandler.Delete).Methods("DELETE")

	// Chat (both roles; topology enforced in the service)
	api.HandleFunc("/chat/send", chatHandler.Send).Methods("POST")
	api.HandleFunc("/chat/conversations", chatHandler.Conversations).Methods("GET")
	api.HandleFunc("/chat/unread", chatHandler.UnreadCount).Methods("GET")
	api.HandleFunc("/chat/messages/{userId:[0-9]+}", chatHandler.Thread).Methods("GET")
	api.HandleFunc("/chat/messages/{userId:[0-9]+}/read", chatHandler.MarkRead).Methods("PUT")

	// Online payments (customer side)
	payments := api.PathPrefix("/payments").Subrouter()
	payments.Use(middleware.RequireRole(models.RoleCustomer))
	payments.HandleFunc("/status", razorpayHandler.Status).Methods("GET")
	payments.HandleFunc("/order", razorpayHandler.CreateOrder).Methods("POST")
	payments.HandleFunc("/verify", razorpayHandler.VerifyPayment).Methods("POST")
	payments.HandleFunc("/transactions", razorpayHandler.Transactions).Methods("GET")

	return r
}
