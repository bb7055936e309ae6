package finance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"electric-backend/internal/models"
	"electric-backend/internal/timeutil"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 10, 14, 30, 0, 0, timeutil.IST)
}

func TestNormalizeMaterials_ObjectArray(t *testing.T) {
	t.Parallel()
	raw := json.RawMessage(`[
		{"name": "  Wire  ", "cost": null, "purchasedByAdmin": false},
		{"name": "Switch", "cost": 50, "purchasedByAdmin": true}
	]`)

	got := NormalizeMaterials(raw)
	require.Len(t, got, 2)
	require.Equal(t, "Wire", got[0].Name)
	require.Nil(t, got[0].Cost)
	require.False(t, got[0].PurchasedByAdmin)
	require.Equal(t, "Switch", got[1].Name)
	require.NotNil(t, got[1].Cost)
	require.Equal(t, 50.0, *got[1].Cost)
	require.Equal(t, 50.0, MaterialsTotal(got))
}

func TestNormalizeMaterials_LegacyStringArray(t *testing.T) {
	t.Parallel()
	got := NormalizeMaterials(json.RawMessage(`["Wire", " Conduit ", ""]`))
	require.Len(t, got, 2)
	require.Equal(t, "Wire", got[0].Name)
	require.Equal(t, "Conduit", got[1].Name)
	require.Nil(t, got[0].Cost)
	require.False(t, got[0].PurchasedByAdmin)
}

func TestNormalizeMaterials_LooseStringLiteral(t *testing.T) {
	t.Parallel()
	// JavaScript-style literal: single quotes, unquoted keys.
	raw, err := json.Marshal(`['Wire', {name: 'Switch', cost: 50, purchasedByAdmin: true}]`)
	require.NoError(t, err)

	got := NormalizeMaterials(raw)
	require.Len(t, got, 2)
	require.Equal(t, models.Material{Name: "Wire"}, got[0])
	require.Equal(t, "Switch", got[1].Name)
	require.True(t, got[1].PurchasedByAdmin)
	require.NotNil(t, got[1].Cost)
	require.Equal(t, 50.0, *got[1].Cost)
	require.Equal(t, 50.0, MaterialsTotal(got))
}

func TestNormalizeMaterials_MultilineLiteral(t *testing.T) {
	t.Parallel()
	raw, err := json.Marshal("[\n  'Wire',\n  {name: 'MCB',\n   cost: 320, purchasedByAdmin: true}\n]")
	require.NoError(t, err)

	got := NormalizeMaterials(raw)
	require.Len(t, got, 2)
	require.Equal(t, "MCB", got[1].Name)
	require.Equal(t, 320.0, *got[1].Cost)
}

func TestNormalizeMaterials_GarbageDegradesToEmpty(t *testing.T) {
	t.Parallel()
	for _, raw := range []json.RawMessage{
		json.RawMessage(`"not an array at all"`),
		json.RawMessage(`{"name": "Wire"}`),
		json.RawMessage(`42`),
		json.RawMessage(`null`),
		nil,
	} {
		got := NormalizeMaterials(raw)
		require.NotNil(t, got, "degraded input must yield an empty array, not null")
		require.Empty(t, got)
	}
}

func TestNormalizeMaterials_DropsInvalidElements(t *testing.T) {
	t.Parallel()
	raw := json.RawMessage(`["Wire", 42, true, {"cost": 9, "purchasedByAdmin": true}, {"name": "  "}]`)
	got := NormalizeMaterials(raw)
	// Nameless and non-string/non-object elements are dropped, never fatal.
	require.Len(t, got, 1)
	require.Equal(t, "Wire", got[0].Name)
}

func TestNormalizeMaterials_CostOnlyWhenPurchasedByAdmin(t *testing.T) {
	t.Parallel()
	raw := json.RawMessage(`[
		{"name": "Cable", "cost": 200, "purchasedByAdmin": false},
		{"name": "Socket", "cost": "150", "purchasedByAdmin": true},
		{"name": "Tape", "cost": "", "purchasedByAdmin": true}
	]`)
	got := NormalizeMaterials(raw)
	require.Len(t, got, 3)
	require.Nil(t, got[0].Cost, "cost is meaningless without purchasedByAdmin")
	require.Equal(t, 150.0, *got[1].Cost, "numeric strings are coerced")
	require.Nil(t, got[2].Cost, "empty cost stays null")
	require.Equal(t, 150.0, MaterialsTotal(got))
}

func TestNormalizeMaterials_Idempotent(t *testing.T) {
	t.Parallel()
	cost := 75.0
	canonical := []models.Material{
		{Name: "Wire"},
		{Name: "Switch", Cost: &cost, PurchasedByAdmin: true},
	}
	raw, err := json.Marshal(canonical)
	require.NoError(t, err)

	got := NormalizeMaterials(raw)
	require.Equal(t, canonical, got)

	// And a second pass over the re-marshaled result drifts nowhere.
	raw2, err := json.Marshal(got)
	require.NoError(t, err)
	require.Equal(t, canonical, NormalizeMaterials(raw2))
}

func TestNormalizePayments_DropsNonPositive(t *testing.T) {
	t.Parallel()
	now := fixedNow()
	got := NormalizePayments([]models.PaymentInput{
		{Date: "2024-01-15", Amount: 5000, Description: " advance "},
		{Date: "2024-02-01", Amount: 0},
		{Date: "2024-02-02", Amount: -300},
	}, now)

	require.Len(t, got, 1)
	require.Equal(t, 5000.0, got[0].Amount)
	require.Equal(t, "advance", got[0].Description)
	require.Equal(t, "2024-01-15", timeutil.FormatDate(got[0].Date.Time))
	require.Equal(t, 5000.0, PaymentsTotal(got))
}

func TestNormalizePayments_DateCoercion(t *testing.T) {
	t.Parallel()
	now := fixedNow()
	got := NormalizePayments([]models.PaymentInput{
		{Date: "2024-03-05T09:15:00Z", Amount: 100},
		{Date: "", Amount: 200},
		{Date: "gibberish", Amount: 300},
	}, now)

	require.Len(t, got, 3)
	require.Equal(t, "2024-03-05", timeutil.FormatDate(got[0].Date.Time))
	require.Equal(t, "2024-06-10", timeutil.FormatDate(got[1].Date.Time))
	require.Equal(t, "2024-06-10", timeutil.FormatDate(got[2].Date.Time))
}

func TestNormalizePayments_StringAmounts(t *testing.T) {
	t.Parallel()
	var inputs []models.PaymentInput
	require.NoError(t, json.Unmarshal([]byte(`[
		{"date": "2024-01-01", "amount": "2500", "description": "cash"},
		{"date": "2024-01-02", "amount": "oops"}
	]`), &inputs))

	got := NormalizePayments(inputs, fixedNow())
	require.Len(t, got, 1)
	require.Equal(t, 2500.0, got[0].Amount)
}

func TestNormalizePayments_EmptyInputStaysNonNil(t *testing.T) {
	t.Parallel()
	now := fixedNow()
	for _, inputs := range [][]models.PaymentInput{
		nil,
		{},
		{{Date: "2024-01-01", Amount: 0}},
	} {
		got := NormalizePayments(inputs, now)
		require.NotNil(t, got, "history must persist as an empty array, not null")
		require.Empty(t, got)
	}
}

func TestNormalizePayments_Idempotent(t *testing.T) {
	t.Parallel()
	now := fixedNow()
	first := NormalizePayments([]models.PaymentInput{
		{Date: "2024-01-15", Amount: 5000, Description: "advance"},
		{Date: "2024-02-20", Amount: 3000},
	}, now)

	// Feed the canonical output back through as input.
	again := make([]models.PaymentInput, len(first))
	for i, e := range first {
		again[i] = models.PaymentInput{
			Date:        timeutil.FormatDate(e.Date.Time),
			Amount:      models.FlexNumber(e.Amount),
			Description: e.Description,
		}
	}
	require.Equal(t, first, NormalizePayments(again, now))
}
