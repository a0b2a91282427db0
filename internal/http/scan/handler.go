package scan

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	orderhttp "github.com/MrJamesThe3rd/fieldservice/internal/http/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/respond"
	"github.com/MrJamesThe3rd/fieldservice/internal/qrcode"
)

type Handler struct {
	scanner *qrcode.Scanner
}

func NewHandler(scanner *qrcode.Scanner) *Handler {
	return &Handler{scanner: scanner}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{payload}", h.resolve)
}

// resolve answers a scanned order label with the order's public status.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	payload, err := url.PathUnescape(chi.URLParam(r, "payload"))
	if err != nil {
		respond.BadRequest(w, "invalid payload encoding")
		return
	}

	o, err := h.scanner.Resolve(r.Context(), payload)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, orderhttp.ToStatusResponse(o))
}
