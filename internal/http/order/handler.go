package order

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fieldservice/internal/http/respond"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/qrcode"
)

type Handler struct {
	svc *order.Service
}

func NewHandler(svc *order.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/status", h.status)
	r.Get("/{id}/conflicts", h.conflicts)
	r.Get("/{id}/estimate", h.estimate)
	r.Get("/{id}/reschedules", h.reschedules)
	r.Get("/{id}/qr.png", h.qr)
	r.Post("/{id}/schedule", h.schedule)
	r.Post("/{id}/start", h.start)
	r.Post("/{id}/complete", h.complete)
	r.Post("/{id}/cancel", h.cancel)
	r.Post("/{id}/reprogram", h.reprogram)
	r.Post("/{id}/invoice", h.invoice)
}

func (h *Handler) ServiceTypeRoutes(r chi.Router) {
	r.Get("/", h.listServiceTypes)
	r.Post("/", h.createServiceType)
}

type lineRequest struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Notes     string           `json:"notes"`
}

type createOrderRequest struct {
	CustomerID    uuid.UUID      `json:"customer_id"`
	ServiceTypeID uuid.UUID      `json:"service_type_id"`
	EquipmentID   *uuid.UUID     `json:"equipment_id,omitempty"`
	TechnicianID  *uuid.UUID     `json:"technician_id,omitempty"`
	DateRequested *time.Time     `json:"date_requested,omitempty"`
	Description   string         `json:"description"`
	Priority      order.Priority `json:"priority"`
	Lines         []lineRequest  `json:"lines"`
}

func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return uuid.Nil, false
	}

	return id, true
}

// decode reads an optional JSON body; an empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return false
	}

	return true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decode(w, r, &req) {
		return
	}

	params := order.CreateParams{
		CustomerID:    req.CustomerID,
		ServiceTypeID: req.ServiceTypeID,
		EquipmentID:   req.EquipmentID,
		TechnicianID:  req.TechnicianID,
		DateRequested: req.DateRequested,
		Description:   req.Description,
		Priority:      req.Priority,
		Lines:         make([]order.LineParams, len(req.Lines)),
	}

	for i, l := range req.Lines {
		params.Lines[i] = order.LineParams{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Notes:     l.Notes,
		}
	}

	o, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, ToResponse(o))
}

// ParseListFilter reads the shared list query parameters. from and to are
// inclusive YYYY-MM-DD days.
func ParseListFilter(r *http.Request) (order.ListFilter, error) {
	q := r.URL.Query()
	filter := order.ListFilter{Sort: order.Sort(q.Get("sort"))}

	if s := q.Get("state"); s != "" {
		st := order.State(s)
		if !st.Valid() {
			return filter, errors.New("unknown state " + s)
		}

		filter.State = &st
	}

	ids := []struct {
		key string
		dst **uuid.UUID
	}{
		{"customer_id", &filter.CustomerID},
		{"technician_id", &filter.TechnicianID},
		{"equipment_id", &filter.EquipmentID},
	}

	for _, p := range ids {
		if s := q.Get(p.key); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return filter, errors.New("invalid " + p.key)
			}

			*p.dst = &id
		}
	}

	dates := []struct {
		key string
		dst **time.Time
	}{
		{"from", &filter.From},
		{"to", &filter.To},
	}

	for _, p := range dates {
		if s := q.Get(p.key); s != "" {
			t, err := time.Parse(time.DateOnly, s)
			if err != nil {
				return filter, errors.New("invalid " + p.key + ", expected YYYY-MM-DD")
			}

			*p.dst = &t
		}
	}

	// to names the last day included; the store bound is exclusive.
	if filter.To != nil {
		filter.To = new(filter.To.AddDate(0, 0, 1))
	}

	for _, p := range []struct {
		key string
		dst *int
	}{{"limit", &filter.Limit}, {"offset", &filter.Offset}} {
		if s := q.Get(p.key); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return filter, errors.New("invalid " + p.key)
			}

			*p.dst = n
		}
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseListFilter(r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	orders, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponseList(orders))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponse(o))
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToStatusResponse(o))
}

func (h *Handler) conflicts(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	conflicts, err := h.svc.FindConflicts(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]conflictResponse, len(conflicts))
	for i, c := range conflicts {
		resp[i] = conflictResponse{OrderID: c.Order.ID, Reference: c.Order.Reference, Reason: c.Reason}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) estimate(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	hours, err := h.svc.Estimate(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, estimateResponse{OrderID: id, Hours: hours})
}

func (h *Handler) reschedules(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	history, err := h.svc.Reschedules(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]rescheduleResponse, len(history))
	for i, rs := range history {
		resp[i] = rescheduleResponse{OldDate: rs.OldDate, NewDate: rs.NewDate, Reason: rs.Reason, CreatedAt: rs.CreatedAt}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) qr(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	png, err := qrcode.PNG(qrcode.ForOrder(o).String(), qrcode.DefaultSize)
	if err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")

	if _, err := w.Write(png); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

type scheduleRequest struct {
	PreferredDate *time.Time `json:"preferred_date,omitempty"`
}

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req scheduleRequest
	if !decode(w, r, &req) {
		return
	}

	h.writeResult(w)(h.svc.Schedule(r.Context(), id, req.PreferredDate))
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	h.writeResult(w)(h.svc.Start(r.Context(), id))
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	h.writeResult(w)(h.svc.Cancel(r.Context(), id))
}

type lineEditRequest struct {
	ID        *uuid.UUID       `json:"id,omitempty"`
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Notes     string           `json:"notes"`
	Remove    bool             `json:"remove"`
}

type completeRequest struct {
	CompletionDate *time.Time        `json:"completion_date,omitempty"`
	Notes          string            `json:"notes"`
	Lines          []lineEditRequest `json:"lines"`
	Invoice        bool              `json:"invoice"`
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req completeRequest
	if !decode(w, r, &req) {
		return
	}

	params := order.CompleteParams{
		CompletionDate: req.CompletionDate,
		Notes:          req.Notes,
		Lines:          make([]order.LineEdit, len(req.Lines)),
		Invoice:        req.Invoice,
	}

	for i, l := range req.Lines {
		params.Lines[i] = order.LineEdit{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Notes:     l.Notes,
			Remove:    l.Remove,
		}
	}

	h.writeResult(w)(h.svc.Complete(r.Context(), id, params))
}

type reprogramRequest struct {
	NewDate time.Time `json:"new_date"`
	Reason  string    `json:"reason"`
}

func (h *Handler) reprogram(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req reprogramRequest
	if !decode(w, r, &req) {
		return
	}

	h.writeResult(w)(h.svc.Reprogram(r.Context(), id, req.NewDate, req.Reason))
}

func (h *Handler) invoice(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.CreateInvoice(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponse(o))
}

func (h *Handler) writeResult(w http.ResponseWriter) func(*order.Result, error) {
	return func(res *order.Result, err error) {
		if err != nil {
			respond.Error(w, err)
			return
		}

		respond.JSON(w, http.StatusOK, toResultResponse(res))
	}
}

type createServiceTypeRequest struct {
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	Duration           float64    `json:"duration"`
	RequiresEquipment  bool       `json:"requires_equipment"`
	RequiresTechnician *bool      `json:"requires_technician,omitempty"`
	ProductID          *uuid.UUID `json:"product_id,omitempty"`
}

func (h *Handler) createServiceType(w http.ResponseWriter, r *http.Request) {
	var req createServiceTypeRequest
	if !decode(w, r, &req) {
		return
	}

	st, err := h.svc.CreateServiceType(r.Context(), order.ServiceTypeParams{
		Name:               req.Name,
		Description:        req.Description,
		Duration:           req.Duration,
		RequiresEquipment:  req.RequiresEquipment,
		RequiresTechnician: req.RequiresTechnician,
		ProductID:          req.ProductID,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toServiceTypeResponse(st))
}

func (h *Handler) listServiceTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.ListServiceTypes(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]serviceTypeResponse, len(types))
	for i, st := range types {
		resp[i] = toServiceTypeResponse(st)
	}

	respond.JSON(w, http.StatusOK, resp)
}
