package customer

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fieldservice/internal/customer"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/auth"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/respond"
)

// portalTokenTTL bounds how long a customer link stays valid.
const portalTokenTTL = 30 * 24 * time.Hour

type Handler struct {
	svc    *customer.Service
	tokens *auth.Authenticator
}

// NewHandler builds the customer routes. tokens may be nil when the portal is disabled.
func NewHandler(svc *customer.Service, tokens *auth.Authenticator) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/{id}/portal-token", h.portalToken)
}

type customerResponse struct {
	ID                uuid.UUID           `json:"id"`
	Name              string              `json:"name"`
	Email             string              `json:"email,omitempty"`
	Phone             string              `json:"phone,omitempty"`
	Street            string              `json:"street,omitempty"`
	City              string              `json:"city,omitempty"`
	IsServiceCustomer bool                `json:"is_service_customer"`
	Segment           customer.Segment    `json:"segment,omitempty"`
	Preference        customer.Preference `json:"preference"`
	ServiceContact    string              `json:"service_contact,omitempty"`
	ServicePhone      string              `json:"service_phone,omitempty"`
	ServiceEmail      string              `json:"service_email,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

type createRequest struct {
	Name              string              `json:"name"`
	Email             string              `json:"email"`
	Phone             string              `json:"phone"`
	Street            string              `json:"street"`
	City              string              `json:"city"`
	IsServiceCustomer bool                `json:"is_service_customer"`
	Segment           customer.Segment    `json:"segment"`
	Preference        customer.Preference `json:"preference"`
	ServiceContact    string              `json:"service_contact"`
	ServicePhone      string              `json:"service_phone"`
	ServiceEmail      string              `json:"service_email"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toResponse(c *customer.Customer) customerResponse {
	return customerResponse{
		ID:                c.ID,
		Name:              c.Name,
		Email:             c.Email,
		Phone:             c.Phone,
		Street:            c.Street,
		City:              c.City,
		IsServiceCustomer: c.IsServiceCustomer,
		Segment:           c.Segment,
		Preference:        c.Preference,
		ServiceContact:    c.ServiceContact,
		ServicePhone:      c.ServicePhone,
		ServiceEmail:      c.ServiceEmail,
		CreatedAt:         c.CreatedAt,
	}
}

func customerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	customers, err := h.svc.List(r.Context(), customer.ListFilter{
		ServiceOnly: q.Get("service") == "true",
		Search:      q.Get("search"),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toResponse(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	c, err := h.svc.Create(r.Context(), customer.CreateParams{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Street:            req.Street,
		City:              req.City,
		IsServiceCustomer: req.IsServiceCustomer,
		Segment:           req.Segment,
		Preference:        req.Preference,
		ServiceContact:    req.ServiceContact,
		ServicePhone:      req.ServicePhone,
		ServiceEmail:      req.ServiceEmail,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

// portalToken issues a customer-scoped token for the self-service portal.
func (h *Handler) portalToken(w http.ResponseWriter, r *http.Request) {
	if h.tokens == nil {
		http.Error(w, "portal is disabled", http.StatusNotFound)
		return
	}

	id, ok := customerID(w, r)
	if !ok {
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	expires := time.Now().Add(portalTokenTTL)

	token, err := h.tokens.Issue(auth.Claims{Role: auth.RoleCustomer, CustomerID: &c.ID}, portalTokenTTL)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, tokenResponse{Token: token, ExpiresAt: expires})
}
