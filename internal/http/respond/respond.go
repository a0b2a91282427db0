// Package respond writes JSON bodies and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/fieldservice/internal/customer"
	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
	"github.com/MrJamesThe3rd/fieldservice/internal/importer"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/qrcode"
	"github.com/MrJamesThe3rd/fieldservice/internal/report"
	"github.com/MrJamesThe3rd/fieldservice/internal/technician"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error     string             `json:"error"`
	Problems  []string           `json:"problems,omitempty"`
	Conflicts []conflictResponse `json:"conflicts,omitempty"`
}

type conflictResponse struct {
	OrderID   string `json:"order_id"`
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

// Error writes err with the status its kind maps to. Unknown errors are
// logged and reported as 500 without leaking their text.
func Error(w http.ResponseWriter, err error) {
	var (
		verr  *order.ValidationError
		serr  *order.StateError
		cerr  *order.ConflictError
		scerr *order.SchedulingError
	)

	switch {
	case errors.As(err, &verr):
		JSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Problems: verr.Problems})
	case errors.As(err, &cerr):
		resp := errorResponse{Error: "scheduling conflict"}
		for _, c := range cerr.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictResponse{
				OrderID:   c.Order.ID.String(),
				Reference: c.Order.Reference,
				Reason:    c.Reason,
			})
		}

		JSON(w, http.StatusConflict, resp)
	case errors.As(err, &serr), errors.Is(err, order.ErrAlreadyInvoiced):
		JSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &scerr):
		JSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, qrcode.ErrCustomerMismatch):
		JSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, equipment.ErrNotFound),
		errors.Is(err, technician.ErrNotFound),
		errors.Is(err, customer.ErrNotFound):
		JSON(w, http.StatusNotFound, errorResponse{Error: notFoundText(err)})
	case errors.Is(err, equipment.ErrInvalid),
		errors.Is(err, technician.ErrInvalid),
		errors.Is(err, customer.ErrInvalid),
		errors.Is(err, report.ErrInvalidRange),
		errors.Is(err, importer.ErrUnreadable):
		JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		JSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func notFoundText(err error) string {
	for _, target := range []error{order.ErrNotFound, equipment.ErrNotFound, technician.ErrNotFound, customer.ErrNotFound} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}

	return "not found"
}

// BadRequest reports malformed input that never reached a service.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
