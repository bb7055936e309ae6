package handlers

import (
	"encoding/json"
	"net/http"

	"electric-backend/internal/middleware"
	"electric-backend/internal/models"
	"electric-backend/internal/services"
	"electric-backend/pkg/utils"
)

type RazorpayHandler struct {
	Service *services.RazorpayService
}

func NewRazorpayHandler(s *services.RazorpayService) *RazorpayHandler {
	return &RazorpayHandler{Service: s}
}

// Status tells the frontend whether online payments are available.
func (h *RazorpayHandler) Status(w http.ResponseWriter, r *http.Request) {
	utils.Success(w, http.StatusOK, "", map[string]interface{}{
		"enabled": h.Service.Enabled(),
	})
}

// CreateOrder raises an order for the calling customer's outstanding due.
func (h *RazorpayHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.Service.CreateOrder(r.Context(), customerID, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, "Order created", map[string]interface{}{
		"order": order,
	})
}

// VerifyPayment validates the Razorpay callback and folds the payment into
// the customer's history.
func (h *RazorpayHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	customer, err := h.Service.VerifyPayment(r.Context(), customerID, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Payment verified", map[string]interface{}{
		"customer": customer,
	})
}

// Transactions lists the calling customer's online payment attempts.
func (h *RazorpayHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.GetUserIDFromContext(r.Context())

	txs, err := h.Service.ListTransactions(r.Context(), customerID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "", map[string]interface{}{"transactions": txs})
}
