package finance

import (
	"regexp"
	"strings"
	"time"

	"electric-backend/internal/errs"
	"electric-backend/internal/models"
	"electric-backend/internal/timeutil"
)

var mobileRe = regexp.MustCompile(`^[0-9]{10}$`)

const (
	defaultPassword = "default123"
	notSpecified    = "Not specified"
)

// DefaultPassword is applied when a customer is created without one.
func DefaultPassword() string { return defaultPassword }

func validWorkStatus(s string) bool {
	return s == models.WorkStatusPending || s == models.WorkStatusOngoing || s == models.WorkStatusCompleted
}

// ReconcileCreate turns a raw creation payload into a consistent new record.
// The username-uniqueness check is the caller's responsibility (it needs the
// store); everything else is validated and derived here.
func ReconcileCreate(req *models.CreateCustomerRequest, now time.Time) (*models.User, error) {
	var fields []string

	name := strings.TrimSpace(req.Name)
	username := strings.ToLower(strings.TrimSpace(req.Username))
	mobile := strings.TrimSpace(req.Mobile)

	if name == "" {
		fields = append(fields, "name is required")
	}
	if username == "" {
		fields = append(fields, "username is required")
	} else if len(username) < 3 || len(username) > 50 {
		fields = append(fields, "username must be between 3 and 50 characters")
	}
	if mobile == "" {
		fields = append(fields, "mobile is required")
	} else if !mobileRe.MatchString(mobile) {
		fields = append(fields, "mobile must be a valid 10-digit number")
	}
	if req.TotalAmount < 0 {
		fields = append(fields, "totalAmount cannot be negative")
	}
	if req.PaymentPaid < 0 {
		fields = append(fields, "paymentPaid cannot be negative")
	}
	if req.PaymentDue < 0 {
		fields = append(fields, "paymentDue cannot be negative")
	}

	workStatus := req.WorkStatus
	if workStatus == "" {
		workStatus = models.WorkStatusPending
	} else if !validWorkStatus(workStatus) {
		fields = append(fields, "workStatus must be one of pending, ongoing, completed")
	}

	var dueDate *models.Date
	if req.DueDate != "" {
		if d, ok := parseDate(req.DueDate); ok {
			dueDate = &d
		} else {
			fields = append(fields, "dueDate must be a valid date")
		}
	}

	if len(fields) > 0 {
		return nil, errs.Validation(fields...)
	}

	materials := NormalizeMaterials(req.Materials)
	history := NormalizePayments(req.PaymentHistory, now)

	// History is authoritative over a supplied paymentPaid when both are given.
	paid := float64(req.PaymentPaid)
	if len(history) > 0 {
		paid = PaymentsTotal(history)
	}

	// A zero/absent totalAmount is derived from paid + due. Materials cost
	// never feeds into it.
	total := float64(req.TotalAmount)
	if total == 0 {
		total = paid + float64(req.PaymentDue)
	}

	area := strings.TrimSpace(req.Area)
	if area == "" {
		area = notSpecified
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = notSpecified
	}
	completionStatus := req.CompletionStatus
	if completionStatus == "" {
		completionStatus = "Not Started"
	}

	return &models.User{
		Name:               name,
		Username:           username,
		Mobile:             mobile,
		Area:               area,
		Address:            address,
		Role:               models.RoleCustomer,
		WorkStatus:         workStatus,
		JobDetail:          req.JobDetail,
		TotalAmount:        total,
		PaymentPaid:        paid,
		PaymentDue:         clampDue(total, paid),
		PaymentHistory:     history,
		DueDate:            dueDate,
		CompletionStatus:   completionStatus,
		Materials:          materials,
		MaterialsTotalCost: MaterialsTotal(materials),
		HousePhoto:         models.DecodePhoto(req.HousePhoto),
		OwnerPhoto:         models.DecodePhoto(req.OwnerPhoto),
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// ReconcileUpdate applies a partial patch to an existing record and returns
// the next consistent state. Fields outside the caller's role allowlist are
// silently dropped, never rejected. The returned record is a copy; the input
// is not mutated.
func ReconcileUpdate(current *models.User, req *models.UpdateCustomerRequest, role string, now time.Time) (*models.User, error) {
	next := *current
	var fields []string

	// Fields any role may touch on their own record.
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			fields = append(fields, "name is required")
		} else {
			next.Name = name
		}
	}
	if req.Mobile != nil {
		mobile := strings.TrimSpace(*req.Mobile)
		if !mobileRe.MatchString(mobile) {
			fields = append(fields, "mobile must be a valid 10-digit number")
		} else {
			next.Mobile = mobile
		}
	}
	if req.Area != nil {
		next.Area = strings.TrimSpace(*req.Area)
	}
	if req.Address != nil {
		next.Address = strings.TrimSpace(*req.Address)
	}

	if role != models.RoleAdmin {
		if len(fields) > 0 {
			return nil, errs.Validation(fields...)
		}
		next.UpdatedAt = now
		return &next, nil
	}

	// Admin-only fields from here on.
	if req.WorkStatus != nil {
		if !validWorkStatus(*req.WorkStatus) {
			fields = append(fields, "workStatus must be one of pending, ongoing, completed")
		} else {
			next.WorkStatus = *req.WorkStatus
		}
	}
	if req.JobDetail != nil {
		next.JobDetail = *req.JobDetail
	}
	if req.CompletionStatus != nil {
		next.CompletionStatus = *req.CompletionStatus
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			next.DueDate = nil
		} else if d, ok := parseDate(*req.DueDate); ok {
			next.DueDate = &d
		} else {
			fields = append(fields, "dueDate must be a valid date")
		}
	}

	if req.Materials != nil {
		next.Materials = NormalizeMaterials(req.Materials)
		next.MaterialsTotalCost = MaterialsTotal(next.Materials)
	}

	applyPhoto(&next.HousePhoto, req.HousePhoto)
	applyPhoto(&next.OwnerPhoto, req.OwnerPhoto)

	if req.TotalAmount != nil {
		next.TotalAmount = float64(*req.TotalAmount)
	}
	if req.PaymentPaid != nil {
		next.PaymentPaid = float64(*req.PaymentPaid)
	}
	if req.PaymentDue != nil {
		next.PaymentDue = float64(*req.PaymentDue)
	}

	if req.PaymentHistory != nil {
		// History is the source of truth when supplied: paid is its sum, due
		// follows from the in-flight total. An explicitly cleared history
		// zeroes paid and restores the full total as due.
		history := NormalizePayments(*req.PaymentHistory, now)
		next.PaymentHistory = history
		if len(history) > 0 {
			next.PaymentPaid = PaymentsTotal(history)
			next.PaymentDue = clampDue(next.TotalAmount, next.PaymentPaid)
		} else {
			next.PaymentPaid = 0
			next.PaymentDue = next.TotalAmount
		}
	} else if req.TotalAmount != nil {
		next.PaymentDue = clampDue(next.TotalAmount, next.PaymentPaid)
	}

	// A patch without an explicit nonzero totalAmount re-derives it from the
	// final paid + due, the same derivation create uses.
	if req.TotalAmount == nil || *req.TotalAmount == 0 {
		next.TotalAmount = next.PaymentPaid + next.PaymentDue
	}

	if next.TotalAmount < 0 {
		fields = append(fields, "totalAmount cannot be negative")
	}
	if next.PaymentPaid < 0 {
		fields = append(fields, "paymentPaid cannot be negative")
	}
	if next.PaymentDue < 0 {
		fields = append(fields, "paymentDue cannot be negative")
	}
	if len(fields) > 0 {
		return nil, errs.Validation(fields...)
	}

	next.UpdatedAt = now
	return &next, nil
}

// AddPayment appends a single payment and reconciles the derived fields.
// Unlike a bulk history replace this is strict: a non-positive amount is a
// hard validation error.
func AddPayment(current *models.User, req *models.AddPaymentRequest, now time.Time) (*models.User, *models.PaymentEntry, error) {
	amount := float64(req.Amount)
	if amount <= 0 {
		return nil, nil, errs.Validation("amount is required and must be greater than 0")
	}

	entry := models.PaymentEntry{
		Date:        models.Date{Time: timeutil.CoerceDate(req.Date, now)},
		Amount:      amount,
		Description: strings.TrimSpace(req.Description),
	}

	next := *current
	next.PaymentHistory = append(append([]models.PaymentEntry(nil), current.PaymentHistory...), entry)
	next.PaymentPaid = PaymentsTotal(next.PaymentHistory)

	// A record whose total was never set falls back to the pre-payment
	// paid + due as its effective total.
	effectiveTotal := current.TotalAmount
	if effectiveTotal == 0 {
		effectiveTotal = current.PaymentPaid + current.PaymentDue
	}
	next.PaymentDue = clampDue(effectiveTotal, next.PaymentPaid)
	next.UpdatedAt = now

	return &next, &entry, nil
}

func applyPhoto(dst *[]byte, patch *string) {
	if patch == nil {
		return
	}
	if *patch == "" {
		*dst = nil
		return
	}
	if decoded := models.DecodePhoto(*patch); decoded != nil {
		*dst = decoded
	}
	// Undecodable photo data leaves the stored photo untouched.
}

func parseDate(s string) (models.Date, bool) {
	if t, err := time.ParseInLocation(timeutil.DateLayout, s, timeutil.IST); err == nil {
		return models.Date{Time: t}, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return models.Date{Time: timeutil.StartOfDay(t)}, true
	}
	return models.Date{}, false
}
