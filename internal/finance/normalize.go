// Package finance holds the pure reconciliation engine: normalization of
// heterogeneous materials/payment payloads and the derived-field state
// transitions for create, update and add-payment. Nothing in this package
// touches storage; services persist what it returns.
package finance

import (
	"encoding/json"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"electric-backend/internal/models"
	"electric-backend/internal/timeutil"
)

var bareKeyRe = regexp.MustCompile(`([{,]\s*)([A-Za-z_$][A-Za-z0-9_$]*)\s*:`)
var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeMaterials converts an arbitrary client-submitted materials payload
// into the canonical collection. Tolerated inputs: a proper array of objects,
// a legacy array of plain name strings, or a single string holding a
// serialized array (JSON or a loosely-quoted literal). Malformed input never
// fails the request; it degrades to an empty collection. The result is
// always non-nil so it persists as an empty array, never as null.
func NormalizeMaterials(raw json.RawMessage) []models.Material {
	if len(raw) == 0 {
		return []models.Material{}
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Printf("[Finance] materials payload is not valid JSON: %v", err)
		return []models.Material{}
	}

	var elems []interface{}
	switch t := v.(type) {
	case nil:
		return []models.Material{}
	case string:
		elems = parseMaterialsString(t)
	case []interface{}:
		elems = t
	default:
		log.Printf("[Finance] materials payload is not an array (got %T)", v)
		return []models.Material{}
	}

	out := make([]models.Material, 0, len(elems))
	for i, e := range elems {
		switch m := e.(type) {
		case string:
			name := strings.TrimSpace(m)
			if name == "" {
				continue
			}
			out = append(out, models.Material{Name: name, Cost: nil, PurchasedByAdmin: false})
		case map[string]interface{}:
			name := strings.TrimSpace(asString(m["name"]))
			if name == "" {
				continue
			}
			purchased := asBool(m["purchasedByAdmin"])
			var cost *float64
			if purchased {
				if c, ok := asNumber(m["cost"]); ok {
					cost = &c
				}
			}
			out = append(out, models.Material{Name: name, Cost: cost, PurchasedByAdmin: purchased})
		default:
			log.Printf("[Finance] dropping invalid material at index %d (%T)", i, e)
		}
	}
	return out
}

// parseMaterialsString parses a stringified materials array. Strict JSON is
// tried first, then a best-effort repair of JavaScript-style literals
// (single quotes, unquoted keys, embedded newlines).
func parseMaterialsString(s string) []interface{} {
	s = strings.TrimSpace(s)
	if arr, ok := tryParseArray(s); ok {
		return arr
	}

	cleaned := strings.ReplaceAll(s, "\n", "")
	cleaned = strings.ReplaceAll(cleaned, "\r", "")
	cleaned = spaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, "'", `"`)
	cleaned = bareKeyRe.ReplaceAllString(cleaned, `$1"$2":`)

	if arr, ok := tryParseArray(cleaned); ok {
		return arr
	}
	log.Printf("[Finance] could not parse materials string, treating as empty")
	return nil
}

func tryParseArray(s string) ([]interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	arr, ok := v.([]interface{})
	return arr, ok
}

// MaterialsTotal sums the cost of admin-purchased materials with a positive
// cost. Kept strictly separate from the contracted total amount.
func MaterialsTotal(ms []models.Material) float64 {
	var total float64
	for _, m := range ms {
		if m.PurchasedByAdmin && m.Cost != nil && *m.Cost > 0 {
			total += *m.Cost
		}
	}
	return total
}

// NormalizePayments converts raw payment history input into canonical
// entries: non-positive amounts are dropped, dates coerced to calendar dates
// (falling back to now), descriptions trimmed. The result is always non-nil
// so it persists as an empty array, never as null.
func NormalizePayments(inputs []models.PaymentInput, now time.Time) []models.PaymentEntry {
	out := make([]models.PaymentEntry, 0, len(inputs))
	for _, p := range inputs {
		amount := float64(p.Amount)
		if amount <= 0 {
			continue
		}
		out = append(out, models.PaymentEntry{
			Date:        models.Date{Time: timeutil.CoerceDate(p.Date, now)},
			Amount:      amount,
			Description: strings.TrimSpace(p.Description),
		})
	}
	return out
}

// PaymentsTotal sums the amounts of a payment history.
func PaymentsTotal(entries []models.PaymentEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Amount
	}
	return total
}

func clampDue(total, paid float64) float64 {
	return math.Max(0, total-paid)
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case float64:
		return t != 0
	default:
		return false
	}
}

func asNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
