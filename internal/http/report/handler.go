package report

import (
	"archive/zip"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fieldservice/internal/http/respond"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/summary.xlsx", h.xlsx)
	r.Get("/summary.zip", h.bundle)
}

type technicianResponse struct {
	TechnicianID string  `json:"technician_id"`
	Name         string  `json:"name"`
	Orders       int     `json:"orders"`
	Completed    int     `json:"completed"`
	AvgDuration  float64 `json:"avg_duration"`
}

type serviceTypeResponse struct {
	ServiceTypeID string `json:"service_type_id"`
	Name          string `json:"name"`
	Orders        int    `json:"orders"`
}

type summaryResponse struct {
	From            time.Time             `json:"from"`
	To              time.Time             `json:"to"`
	Total           int                   `json:"total"`
	ByState         map[order.State]int   `json:"by_state"`
	InvoicedRevenue decimal.Decimal       `json:"invoiced_revenue"`
	AvgDuration     float64               `json:"avg_duration"`
	Technicians     []technicianResponse  `json:"technicians"`
	ServiceTypes    []serviceTypeResponse `json:"service_types"`
}

func toResponse(s *report.Summary) summaryResponse {
	resp := summaryResponse{
		From:            s.Range.From,
		To:              s.Range.To,
		Total:           s.Total,
		ByState:         s.ByState,
		InvoicedRevenue: s.InvoicedRevenue,
		AvgDuration:     s.AvgDuration,
		Technicians:     make([]technicianResponse, len(s.Technicians)),
		ServiceTypes:    make([]serviceTypeResponse, len(s.ServiceTypes)),
	}

	for i, t := range s.Technicians {
		resp.Technicians[i] = technicianResponse{
			TechnicianID: t.TechnicianID.String(),
			Name:         t.Name,
			Orders:       t.Orders,
			Completed:    t.Completed,
			AvgDuration:  t.AvgDuration,
		}
	}

	for i, st := range s.ServiceTypes {
		resp.ServiceTypes[i] = serviceTypeResponse{
			ServiceTypeID: st.ServiceTypeID.String(),
			Name:          st.Name,
			Orders:        st.Orders,
		}
	}

	return resp
}

// parseRange reads ?from=&to= as dates. to is inclusive for callers and
// becomes the exclusive end of the following day.
func parseRange(r *http.Request) (report.Range, error) {
	q := r.URL.Query()

	from, err := time.Parse(time.DateOnly, q.Get("from"))
	if err != nil {
		return report.Range{}, errors.New("invalid from, expected YYYY-MM-DD")
	}

	to, err := time.Parse(time.DateOnly, q.Get("to"))
	if err != nil {
		return report.Range{}, errors.New("invalid to, expected YYYY-MM-DD")
	}

	return report.Range{From: from, To: to.AddDate(0, 0, 1)}, nil
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*report.Summary, bool) {
	rng, err := parseRange(r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return nil, false
	}

	summary, err := h.svc.Summary(r.Context(), rng)
	if err != nil {
		respond.Error(w, err)
		return nil, false
	}

	return summary, true
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.load(w, r)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(summary))
}

func (h *Handler) xlsx(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.load(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", summary.Filename()))

	if err := summary.WriteXLSX(w); err != nil {
		slog.Error("failed to write spreadsheet", "error", err)
	}
}

// bundle zips the spreadsheet together with the plain-text summary for mailing.
func (h *Handler) bundle(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.load(w, r)
	if !ok {
		return
	}

	name := strings.TrimSuffix(summary.Filename(), ".xlsx")

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".zip"))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	sheet, err := zipWriter.Create(summary.Filename())
	if err != nil {
		slog.Error("failed to create zip", "error", err)
		return
	}

	if err := summary.WriteXLSX(sheet); err != nil {
		slog.Error("failed to write spreadsheet", "error", err)
		return
	}

	body, err := zipWriter.Create("summary.txt")
	if err != nil {
		slog.Error("failed to create zip", "error", err)
		return
	}

	if _, err := body.Write([]byte(summary.Text())); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
}
