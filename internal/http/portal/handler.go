// Package portal serves the customer self-service routes. Every route expects
// customer claims in the request context and only ever shows that customer's orders.
package portal

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fieldservice/internal/http/auth"
	orderhttp "github.com/MrJamesThe3rd/fieldservice/internal/http/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/respond"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
)

const pageSize = 20

type Handler struct {
	orderSvc *order.Service
}

func NewHandler(orderSvc *order.Service) *Handler {
	return &Handler{orderSvc: orderSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/orders", h.list)
	r.Get("/orders/{id}", h.get)
}

type listResponse struct {
	Count  int                       `json:"count"`
	Page   int                       `json:"page"`
	Pages  int                       `json:"pages"`
	Orders []orderhttp.OrderResponse `json:"orders"`
}

func customerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok || claims.CustomerID == nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return uuid.Nil, false
	}

	return *claims.CustomerID, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, ok := customerID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()

	page := 1
	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			respond.BadRequest(w, "invalid page")
			return
		}

		page = n
	}

	sort := order.Sort(q.Get("sort"))
	switch sort {
	case "":
		sort = order.SortDate
	case order.SortDate, order.SortReference, order.SortState:
	default:
		respond.BadRequest(w, "sort must be one of date, reference, state")
		return
	}

	filter := order.ListFilter{CustomerID: &owner}

	count, err := h.orderSvc.Count(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	filter.Sort = sort
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	orders, err := h.orderSvc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, listResponse{
		Count:  count,
		Page:   page,
		Pages:  (count + pageSize - 1) / pageSize,
		Orders: orderhttp.ToResponseList(orders),
	})
}

// get hides orders of other customers behind the same 404 as unknown ids.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	owner, ok := customerID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	o, err := h.orderSvc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if o.CustomerID != owner {
		respond.Error(w, order.ErrNotFound)
		return
	}

	respond.JSON(w, http.StatusOK, orderhttp.ToResponse(o))
}
