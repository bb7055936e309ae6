package finance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"electric-backend/internal/errs"
	"electric-backend/internal/models"
)

func flexPtr(v float64) *models.FlexNumber {
	n := models.FlexNumber(v)
	return &n
}

func strPtr(s string) *string { return &s }

func TestReconcileCreate_HistoryOverridesPaid(t *testing.T) {
	t.Parallel()
	req := &models.CreateCustomerRequest{
		Name:        "Ramesh Kumar",
		Username:    "Ramesh01",
		Mobile:      "9876543210",
		TotalAmount: 12000,
		PaymentPaid: 999, // ignored, history wins
		PaymentHistory: []models.PaymentInput{
			{Date: "2024-01-15", Amount: 5000, Description: "advance"},
		},
	}

	u, err := ReconcileCreate(req, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, "ramesh01", u.Username)
	assert.Equal(t, 12000.0, u.TotalAmount)
	assert.Equal(t, 5000.0, u.PaymentPaid)
	assert.Equal(t, 7000.0, u.PaymentDue)
	assert.Equal(t, models.RoleCustomer, u.Role)
	assert.True(t, u.IsActive)
}

func TestReconcileCreate_DerivesTotalFromPaidAndDue(t *testing.T) {
	t.Parallel()
	req := &models.CreateCustomerRequest{
		Name:        "Sita Devi",
		Username:    "sita",
		Mobile:      "9000000001",
		PaymentPaid: 5000,
		PaymentDue:  2000,
	}

	u, err := ReconcileCreate(req, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, 7000.0, u.TotalAmount)
	assert.Equal(t, 5000.0, u.PaymentPaid)
	assert.Equal(t, 2000.0, u.PaymentDue)
}

func TestReconcileCreate_Defaults(t *testing.T) {
	t.Parallel()
	req := &models.CreateCustomerRequest{
		Name:     "Mohan",
		Username: "mohan",
		Mobile:   "9000000002",
	}

	u, err := ReconcileCreate(req, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, "Not specified", u.Area)
	assert.Equal(t, "Not specified", u.Address)
	assert.Equal(t, models.WorkStatusPending, u.WorkStatus)
	assert.Equal(t, "Not Started", u.CompletionStatus)
	assert.NotNil(t, u.PaymentHistory)
	assert.Empty(t, u.PaymentHistory)
	assert.Nil(t, u.DueDate)
}

func TestReconcileCreate_CollectsAllViolations(t *testing.T) {
	t.Parallel()
	req := &models.CreateCustomerRequest{
		Username:    "ab",
		Mobile:      "12345",
		TotalAmount: -1,
		WorkStatus:  "paused",
		DueDate:     "next tuesday",
	}

	_, err := ReconcileCreate(req, fixedNow())
	require.Error(t, err)
	verr, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.Len(t, verr.Fields, 6)
	assert.Contains(t, verr.Fields, "name is required")
	assert.Contains(t, verr.Fields, "username must be between 3 and 50 characters")
	assert.Contains(t, verr.Fields, "mobile must be a valid 10-digit number")
	assert.Contains(t, verr.Fields, "totalAmount cannot be negative")
	assert.Contains(t, verr.Fields, "workStatus must be one of pending, ongoing, completed")
	assert.Contains(t, verr.Fields, "dueDate must be a valid date")
}

func TestReconcileCreate_MaterialsNeverFeedTotal(t *testing.T) {
	t.Parallel()
	req := &models.CreateCustomerRequest{
		Name:        "Geeta",
		Username:    "geeta",
		Mobile:      "9000000003",
		TotalAmount: 1000,
		Materials:   json.RawMessage(`[{"name": "Switch", "cost": 50, "purchasedByAdmin": true}]`),
	}

	u, err := ReconcileCreate(req, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, 1000.0, u.TotalAmount)
	assert.Equal(t, 50.0, u.MaterialsTotalCost)
}

func TestReconcileUpdate_CustomerAllowlist(t *testing.T) {
	t.Parallel()
	current := &models.User{
		ID: 7, Name: "Old Name", Mobile: "9000000004",
		Role: models.RoleCustomer, WorkStatus: models.WorkStatusPending,
		TotalAmount: 5000, PaymentDue: 5000,
	}
	req := &models.UpdateCustomerRequest{
		Name:        strPtr("New Name"),
		Area:        strPtr("Sector 12"),
		WorkStatus:  strPtr(models.WorkStatusCompleted),
		TotalAmount: flexPtr(0),
	}

	next, err := ReconcileUpdate(current, req, models.RoleCustomer, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, "New Name", next.Name)
	assert.Equal(t, "Sector 12", next.Area)
	// Admin-only fields are silently dropped for customers, never rejected.
	assert.Equal(t, models.WorkStatusPending, next.WorkStatus)
	assert.Equal(t, 5000.0, next.TotalAmount)
	// Input record stays untouched.
	assert.Equal(t, "Old Name", current.Name)
}

func TestReconcileUpdate_HistoryReplaceRecomputes(t *testing.T) {
	t.Parallel()
	current := &models.User{
		TotalAmount: 10000, PaymentPaid: 2000, PaymentDue: 8000,
	}
	req := &models.UpdateCustomerRequest{
		PaymentHistory: &[]models.PaymentInput{
			{Date: "2024-02-01", Amount: 3000},
			{Date: "2024-03-01", Amount: 4000},
		},
	}

	next, err := ReconcileUpdate(current, req, models.RoleAdmin, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, 7000.0, next.PaymentPaid)
	assert.Equal(t, 3000.0, next.PaymentDue)
	assert.Equal(t, 10000.0, next.TotalAmount)
}

func TestReconcileUpdate_ClearedHistoryRestoresDue(t *testing.T) {
	t.Parallel()
	current := &models.User{
		TotalAmount: 10000, PaymentPaid: 7000, PaymentDue: 3000,
		PaymentHistory: []models.PaymentEntry{{Amount: 7000}},
	}
	req := &models.UpdateCustomerRequest{PaymentHistory: &[]models.PaymentInput{}}

	next, err := ReconcileUpdate(current, req, models.RoleAdmin, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, 0.0, next.PaymentPaid)
	assert.Equal(t, 10000.0, next.PaymentDue)
	assert.Empty(t, next.PaymentHistory)
}

func TestReconcileUpdate_TotalChangeRecomputesDue(t *testing.T) {
	t.Parallel()
	current := &models.User{TotalAmount: 10000, PaymentPaid: 4000, PaymentDue: 6000}
	req := &models.UpdateCustomerRequest{TotalAmount: flexPtr(15000)}

	next, err := ReconcileUpdate(current, req, models.RoleAdmin, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, 15000.0, next.TotalAmount)
	assert.Equal(t, 11000.0, next.PaymentDue)
}

func TestReconcileUpdate_OverpaidHistoryClampsDue(t *testing.T) {
	t.Parallel()
	current := &models.User{TotalAmount: 5000, PaymentDue: 5000}
	req := &models.UpdateCustomerRequest{
		PaymentHistory: &[]models.PaymentInput{{Date: "2024-04-01", Amount: 9000}},
	}

	next, err := ReconcileUpdate(current, req, models.RoleAdmin, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, 9000.0, next.PaymentPaid)
	assert.Equal(t, 0.0, next.PaymentDue)
	// Total re-derives from paid + due when never explicitly set in the patch.
	assert.Equal(t, 9000.0, next.TotalAmount)
}

func TestReconcileUpdate_ClearPhoto(t *testing.T) {
	t.Parallel()
	current := &models.User{HousePhoto: []byte{1, 2, 3}, OwnerPhoto: []byte{4, 5}}
	req := &models.UpdateCustomerRequest{
		HousePhoto: strPtr(""),
		OwnerPhoto: strPtr("!!not base64!!"),
	}

	next, err := ReconcileUpdate(current, req, models.RoleAdmin, fixedNow())
	require.NoError(t, err)
	assert.Nil(t, next.HousePhoto)
	// Undecodable data never clobbers the stored photo.
	assert.Equal(t, []byte{4, 5}, next.OwnerPhoto)
}

func TestAddPayment_Sequence(t *testing.T) {
	t.Parallel()
	u := &models.User{
		TotalAmount: 12000, PaymentPaid: 5000, PaymentDue: 7000,
		PaymentHistory: []models.PaymentEntry{{Amount: 5000}},
	}

	u, entry, err := AddPayment(u, &models.AddPaymentRequest{Amount: 3000, Description: "second installment"}, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, 3000.0, entry.Amount)
	assert.Equal(t, 8000.0, u.PaymentPaid)
	assert.Equal(t, 4000.0, u.PaymentDue)
	require.Len(t, u.PaymentHistory, 2)

	u, _, err = AddPayment(u, &models.AddPaymentRequest{Amount: 4000}, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, 12000.0, u.PaymentPaid)
	assert.Equal(t, 0.0, u.PaymentDue)
	assert.Equal(t, "paid", u.PaymentStatus())
}

func TestAddPayment_ZeroTotalFallsBackToPaidPlusDue(t *testing.T) {
	t.Parallel()
	u := &models.User{PaymentPaid: 1000, PaymentDue: 4000,
		PaymentHistory: []models.PaymentEntry{{Amount: 1000}}}

	next, _, err := AddPayment(u, &models.AddPaymentRequest{Amount: 2000}, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, 3000.0, next.PaymentPaid)
	assert.Equal(t, 2000.0, next.PaymentDue)
}

func TestAddPayment_RejectsNonPositive(t *testing.T) {
	t.Parallel()
	u := &models.User{TotalAmount: 100}
	for _, amt := range []float64{0, -50} {
		_, _, err := AddPayment(u, &models.AddPaymentRequest{Amount: models.FlexNumber(amt)}, fixedNow())
		require.Error(t, err)
		_, ok := errs.AsValidation(err)
		assert.True(t, ok)
	}
}

func TestAddPayment_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	u := &models.User{
		TotalAmount: 12000, PaymentPaid: 5000, PaymentDue: 7000,
		PaymentHistory: []models.PaymentEntry{{Amount: 5000}},
	}

	_, _, err := AddPayment(u, &models.AddPaymentRequest{Amount: 3000}, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, 5000.0, u.PaymentPaid)
	assert.Len(t, u.PaymentHistory, 1)
}
