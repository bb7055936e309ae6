package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"electric-backend/internal/auth"
	"electric-backend/internal/cache"
	"electric-backend/internal/errs"
	"electric-backend/internal/finance"
	"electric-backend/internal/metrics"
	"electric-backend/internal/models"
	"electric-backend/internal/repositories"
	"electric-backend/internal/timeutil"
)

const statsCacheTTL = 5 * time.Minute

type CustomerService struct {
	Repo *repositories.UserRepository
}

func NewCustomerService(repo *repositories.UserRepository) *CustomerService {
	return &CustomerService{Repo: repo}
}

// CustomerPage is one page of the admin customer list.
type CustomerPage struct {
	Customers  []*models.UserResponse `json:"customers"`
	Pagination models.Pagination      `json:"pagination"`
}

// StatsResponse bundles the aggregate stats with the area breakdown.
type StatsResponse struct {
	Stats    *models.CustomerStats `json:"stats"`
	TopAreas []models.AreaStat     `json:"topAreas"`
}

// List returns a filtered, paginated page of active customers.
func (s *CustomerService) List(ctx context.Context, q *models.ListCustomersQuery) (*CustomerPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}

	users, total, err := s.Repo.ListCustomers(ctx, q)
	if err != nil {
		return nil, err
	}

	customers := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		customers = append(customers, u.Response())
	}

	pages := (total + q.Limit - 1) / q.Limit
	if pages == 0 {
		pages = 1
	}
	return &CustomerPage{
		Customers: customers,
		Pagination: models.Pagination{
			Current: q.Page,
			Pages:   pages,
			Total:   total,
			HasNext: q.Page < pages,
			HasPrev: q.Page > 1,
		},
	}, nil
}

// Stats returns the dashboard aggregates, cached for a few minutes.
func (s *CustomerService) Stats(ctx context.Context) (*StatsResponse, error) {
	if data, ok := cache.GetCached(ctx, cache.CustomerStatsKey); ok {
		var resp StatsResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			return &resp, nil
		}
	}

	resp, data, err := s.fetchStats(ctx)
	if err != nil {
		return nil, err
	}
	cache.SetCached(ctx, cache.CustomerStatsKey, data, statsCacheTTL)
	return resp, nil
}

func (s *CustomerService) fetchStats(ctx context.Context) (*StatsResponse, []byte, error) {
	stats, err := s.Repo.Stats(ctx)
	if err != nil {
		return nil, nil, err
	}
	areas, err := s.Repo.TopAreas(ctx)
	if err != nil {
		return nil, nil, err
	}

	resp := &StatsResponse{Stats: stats, TopAreas: areas}
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, nil, err
	}
	return resp, data, nil
}

// invalidateAndRewarm clears customer caches after a mutation and re-warms
// the stats key in the background so the next dashboard load is a hit.
func (s *CustomerService) invalidateAndRewarm(ctx context.Context) {
	cache.InvalidateCustomerCaches(ctx)
	cache.PreWarmKey(cache.CustomerStatsKey, func(ctx context.Context) ([]byte, error) {
		_, data, err := s.fetchStats(ctx)
		return data, err
	}, statsCacheTTL)
}

// Create reconciles and stores a new customer. A blank password falls back
// to the well-known default so the admin can hand out initial credentials.
func (s *CustomerService) Create(ctx context.Context, req *models.CreateCustomerRequest) (*models.UserResponse, error) {
	user, err := finance.ReconcileCreate(req, timeutil.Now())
	if err != nil {
		return nil, err
	}

	taken, err := s.Repo.UsernameTaken(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.ErrConflict
	}

	password := req.Password
	if password == "" {
		password = finance.DefaultPassword()
	}
	user.PasswordHash, err = auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.invalidateAndRewarm(ctx)
	log.Printf("[Customer] Created customer %s (id=%d)", user.Username, user.ID)
	return user.Response(), nil
}

// Get returns one customer. Customers can only read their own record.
func (s *CustomerService) Get(ctx context.Context, requesterID int64, requesterRole string, id int64) (*models.UserResponse, error) {
	if requesterRole != models.RoleAdmin && requesterID != id {
		return nil, errs.ErrForbidden
	}

	user, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleCustomer {
		return nil, errs.ErrNotFound
	}
	return user.Response(), nil
}

// Update applies a partial patch under the caller's role allowlist.
func (s *CustomerService) Update(ctx context.Context, requesterID int64, requesterRole string, id int64, req *models.UpdateCustomerRequest) (*models.UserResponse, error) {
	if requesterRole != models.RoleAdmin && requesterID != id {
		return nil, errs.ErrForbidden
	}

	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Role != models.RoleCustomer {
		return nil, errs.ErrNotFound
	}

	next, err := finance.ReconcileUpdate(current, req, requesterRole, timeutil.Now())
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, next); err != nil {
		return nil, err
	}

	s.invalidateAndRewarm(ctx)
	return next.Response(), nil
}

// AddPayment appends one payment entry and persists the reconciled record.
func (s *CustomerService) AddPayment(ctx context.Context, id int64, req *models.AddPaymentRequest) (*models.UserResponse, *models.PaymentEntry, error) {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if current.Role != models.RoleCustomer {
		return nil, nil, errs.ErrNotFound
	}

	next, entry, err := finance.AddPayment(current, req, timeutil.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.Repo.Update(ctx, next); err != nil {
		return nil, nil, err
	}

	metrics.PaymentsRecordedTotal.Inc()
	s.invalidateAndRewarm(ctx)
	log.Printf("[Customer] Payment of %.2f recorded for customer %d", entry.Amount, id)
	return next.Response(), entry, nil
}

// Delete soft-deletes a customer. The row survives for history.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidateAndRewarm(ctx)
	log.Printf("[Customer] Deactivated customer %d", id)
	return nil
}

// MyJobs is the customer-facing view of their own record.
func (s *CustomerService) MyJobs(ctx context.Context, userID int64) (*models.UserResponse, error) {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleCustomer {
		return nil, errs.ErrForbidden
	}
	return user.Response(), nil
}
