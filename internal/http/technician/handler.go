package technician

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fieldservice/internal/http/respond"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/technician"
)

type Handler struct {
	svc      *technician.Service
	orderSvc *order.Service
	now      func() time.Time
}

func NewHandler(svc *technician.Service, orderSvc *order.Service) *Handler {
	return &Handler{svc: svc, orderSvc: orderSvc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/availability", h.setAvailability)
	r.Get("/{id}/availability", h.availability)
	r.Get("/{id}/next-slot", h.nextSlot)
}

type createRequest struct {
	Code                string     `json:"code"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	ManagerEmail        string     `json:"manager_email"`
	Phone               string     `json:"phone"`
	Specialization      string     `json:"specialization"`
	Certification       string     `json:"certification"`
	CertificationDate   *time.Time `json:"certification_date,omitempty"`
	CertificationExpiry *time.Time `json:"certification_expiry,omitempty"`
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

func technicianID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return uuid.Nil, false
	}

	return id, true
}

func hoursParam(r *http.Request) (float64, bool) {
	hours, err := strconv.ParseFloat(r.URL.Query().Get("hours"), 64)
	if err != nil || hours <= 0 {
		return 0, false
	}

	return hours, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	techs, err := h.svc.List(r.Context(), technician.ListFilter{
		ActiveOnly:    q.Get("active") == "true",
		AvailableOnly: q.Get("available") == "true",
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	now := h.now()

	resp := make([]technicianResponse, len(techs))
	for i, t := range techs {
		resp[i] = toResponse(t, now)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	t, err := h.svc.Create(r.Context(), technician.CreateParams{
		Code:                req.Code,
		Name:                req.Name,
		Email:               req.Email,
		ManagerEmail:        req.ManagerEmail,
		Phone:               req.Phone,
		Specialization:      req.Specialization,
		Certification:       req.Certification,
		CertificationDate:   req.CertificationDate,
		CertificationExpiry: req.CertificationExpiry,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(t, h.now()))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := technicianID(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t, h.now()))
}

func (h *Handler) setAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := technicianID(w, r)
	if !ok {
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Available == nil {
		respond.BadRequest(w, "available is required")
		return
	}

	t, err := h.svc.SetAvailability(r.Context(), id, *req.Available)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t, h.now()))
}

// availability answers whether the technician is free for ?start=<RFC3339>&hours=<n>.
func (h *Handler) availability(w http.ResponseWriter, r *http.Request) {
	id, ok := technicianID(w, r)
	if !ok {
		return
	}

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		respond.BadRequest(w, "invalid start, expected RFC3339")
		return
	}

	hours, ok := hoursParam(r)
	if !ok {
		respond.BadRequest(w, "hours must be a positive number")
		return
	}

	window := order.WindowAt(start, hours)

	free, err := h.orderSvc.IsAvailable(r.Context(), id, window)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, availabilityResponse{
		TechnicianID: id,
		Start:        window.Start,
		End:          window.End,
		Available:    free,
	})
}

func (h *Handler) nextSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := technicianID(w, r)
	if !ok {
		return
	}

	hours, ok := hoursParam(r)
	if !ok {
		respond.BadRequest(w, "hours must be a positive number")
		return
	}

	window, found, err := h.orderSvc.NextSlot(r.Context(), id, hours)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := slotResponse{TechnicianID: id, Found: found}
	if found {
		resp.Start = &window.Start
		resp.End = &window.End
	}

	respond.JSON(w, http.StatusOK, resp)
}
