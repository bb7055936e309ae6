package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"electric-backend/internal/errs"
	"electric-backend/internal/middleware"
	"electric-backend/internal/models"
	"electric-backend/internal/services"
	"electric-backend/pkg/utils"
)

type CustomerHandler struct {
	Service *services.CustomerService
}

func NewCustomerHandler(s *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: s}
}

// pathID parses the {id} path variable. A malformed id reads the same as a
// missing record.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.ErrNotFound
	}
	return id, nil
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	query := &models.ListCustomersQuery{
		Page:       page,
		Limit:      limit,
		Search:     q.Get("search"),
		WorkStatus: q.Get("workStatus"),
		Area:       q.Get("area"),
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
	}

	result, err := h.Service.List(r.Context(), query)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "", map[string]interface{}{
		"customers":  result.Customers,
		"pagination": result.Pagination,
	})
}

func (h *CustomerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "", map[string]interface{}{
		"stats":    stats.Stats,
		"topAreas": stats.TopAreas,
	})
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	customer, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, "Customer created", map[string]interface{}{
		"customer": customer,
	})
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	requesterID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	customer, err := h.Service.Get(r.Context(), requesterID, role, id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "", map[string]interface{}{"customer": customer})
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	requesterID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	customer, err := h.Service.Update(r.Context(), requesterID, role, id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Customer updated", map[string]interface{}{
		"customer": customer,
	})
}

func (h *CustomerHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	customer, entry, err := h.Service.AddPayment(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Payment recorded", map[string]interface{}{
		"customer": customer,
		"payment":  entry,
	})
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Customer deleted", nil)
}

// MyJobs serves the customer-facing view of their own record.
func (h *CustomerHandler) MyJobs(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	customer, err := h.Service.MyJobs(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	// A customer's profile is their single job record.
	jobs := []interface{}{customer}
	utils.Success(w, http.StatusOK, "", map[string]interface{}{
		"jobs":  jobs,
		"total": len(jobs),
	})
}
