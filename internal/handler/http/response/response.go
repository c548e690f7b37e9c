package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Meta    *Meta             `json:"meta,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func fail(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Code:    code,
	})
}

// Success responses
func Success(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "OK",
		Data:    data,
	})
}

func SuccessWithMessage(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(w http.ResponseWriter, data interface{}, meta *Meta) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "OK",
		Data:    data,
		Meta:    meta,
	})
}

// Paginated writes one page of items with its paging metadata.
func Paginated[T any](w http.ResponseWriter, page pagination.Page[T]) {
	SuccessWithMeta(w, page.Items, &Meta{
		Page:       page.Page,
		Limit:      page.PerPage,
		TotalItems: page.Total,
		TotalPages: page.LastPage(),
	})
}

// Error responses
func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	writeJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: message,
		Code:    "BAD_REQUEST",
		Errors:  details,
	})
}

func ValidationError(w http.ResponseWriter, details map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, Response{
		Success: false,
		Message: "Validation failed",
		Code:    "VALIDATION_ERROR",
		Errors:  details,
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	fail(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(w http.ResponseWriter, message string) {
	fail(w, http.StatusForbidden, "FORBIDDEN", message)
}

func NotFound(w http.ResponseWriter, message string) {
	fail(w, http.StatusNotFound, "NOT_FOUND", message)
}

func Conflict(w http.ResponseWriter, message string) {
	fail(w, http.StatusConflict, "CONFLICT", message)
}

// UnprocessableEntity is for requests that are well formed but not allowed in the current state.
func UnprocessableEntity(w http.ResponseWriter, message string) {
	fail(w, http.StatusUnprocessableEntity, "UNPROCESSABLE", message)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	fail(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", message)
}

func ServiceUnavailable(w http.ResponseWriter, message string) {
	fail(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	fail(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}
