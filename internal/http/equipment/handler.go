package equipment

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
	orderhttp "github.com/MrJamesThe3rd/fieldservice/internal/http/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/respond"
	"github.com/MrJamesThe3rd/fieldservice/internal/importer"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/qrcode"
)

type Handler struct {
	svc       *equipment.Service
	orderSvc  *order.Service
	importSvc *importer.Service
	now       func() time.Time
}

func NewHandler(svc *equipment.Service, orderSvc *order.Service, importSvc *importer.Service) *Handler {
	return &Handler{
		svc:       svc,
		orderSvc:  orderSvc,
		importSvc: importSvc,
		now:       time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/import", h.importFile)
	r.Get("/{id}", h.get)
	r.Get("/{id}/history", h.history)
	r.Get("/{id}/qr.png", h.qr)
}

type createRequest struct {
	CustomerID          uuid.UUID  `json:"customer_id"`
	Name                string     `json:"name"`
	SerialNumber        string     `json:"serial_number"`
	Model               string     `json:"model"`
	Manufacturer        string     `json:"manufacturer"`
	Location            string     `json:"location"`
	Notes               string     `json:"notes"`
	PurchaseDate        *time.Time `json:"purchase_date,omitempty"`
	WarrantyStart       *time.Time `json:"warranty_start,omitempty"`
	WarrantyEnd         *time.Time `json:"warranty_end,omitempty"`
	ServiceIntervalDays int        `json:"service_interval_days"`
}

func equipmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := equipment.ListFilter{Search: q.Get("search")}

	if s := q.Get("customer_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respond.BadRequest(w, "invalid customer_id")
			return
		}

		filter.CustomerID = &id
	}

	if s := q.Get("due_before"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			respond.BadRequest(w, "invalid due_before, expected YYYY-MM-DD")
			return
		}

		filter.DueBefore = &t
	}

	items, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(items, h.now()))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	e, err := h.svc.Create(r.Context(), equipment.CreateParams{
		CustomerID:          req.CustomerID,
		Name:                req.Name,
		SerialNumber:        req.SerialNumber,
		Model:               req.Model,
		Manufacturer:        req.Manufacturer,
		Location:            req.Location,
		Notes:               req.Notes,
		PurchaseDate:        req.PurchaseDate,
		WarrantyStart:       req.WarrantyStart,
		WarrantyEnd:         req.WarrantyEnd,
		ServiceIntervalDays: req.ServiceIntervalDays,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(e, h.now()))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := equipmentID(w, r)
	if !ok {
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e, h.now()))
}

// history lists every order raised against the equipment, newest first.
func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	id, ok := equipmentID(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Get(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	orders, err := h.orderSvc.List(r.Context(), order.ListFilter{EquipmentID: &id, Sort: order.SortDate})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, orderhttp.ToResponseList(orders))
}

func (h *Handler) qr(w http.ResponseWriter, r *http.Request) {
	id, ok := equipmentID(w, r)
	if !ok {
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	png, err := qrcode.PNG(qrcode.ForEquipment(e), qrcode.DefaultSize)
	if err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")

	if _, err := w.Write(png); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// importFile accepts a multipart upload. With dry_run=true the parsed rows are
// returned without creating anything.
func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respond.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	customerID, err := uuid.Parse(r.FormValue("customer_id"))
	if err != nil {
		respond.BadRequest(w, "customer_id field is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	format := importer.Format(r.FormValue("format"))

	if r.FormValue("dry_run") == "true" {
		params, err := h.importSvc.Parse(format, file, customerID)
		if err != nil {
			respond.BadRequest(w, err.Error())
			return
		}

		resp := importResponse{Preview: make([]paramsResponse, len(params))}
		for i, p := range params {
			resp.Preview[i] = toParamsResponse(p)
		}

		respond.JSON(w, http.StatusOK, resp)

		return
	}

	created, err := h.importSvc.Import(r.Context(), format, file, customerID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importResponse{
		Imported:  len(created),
		Equipment: toResponseList(created, h.now()),
	})
}
