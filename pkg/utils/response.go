package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"electric-backend/internal/errs"
)

// JSON writes data as an application/json response.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[Response] encode failed: %v", err)
		}
	}
}

// Success writes the standard {success, message, ...} envelope with extra
// top-level fields merged in.
func Success(w http.ResponseWriter, status int, message string, extra map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	JSON(w, status, body)
}

// Error maps service errors onto HTTP statuses and writes the failure
// envelope. Unknown errors become opaque 500s.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var verr *errs.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		message = verr.Error()
		JSON(w, status, map[string]interface{}{
			"success": false,
			"message": message,
			"errors":  verr.Fields,
		})
		return
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, errs.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	default:
		log.Printf("[Response] internal error: %v", err)
	}

	JSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
