package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/s4ngmin-9/Fast-API/internal/domain"
)

var (
	errInvalidDays = apiError{ID: "ERR_VALIDATION", Message: "days must be an integer"}
	errInvalidYear = apiError{ID: "ERR_VALIDATION", Message: "year must be a positive integer"}
)

// deliveryETA quotes the arrival date of an order. purchase_date defaults to
// today (UTC); days and rule default to the configured values.
func (h *handler) deliveryETA(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var req domain.QuoteRequest
	if ds := q.Get("purchase_date"); ds != "" {
		d, err := time.Parse(domain.DateLayout, ds)
		if err != nil {
			writeError(w, http.StatusBadRequest, errInvalidDate)
			return
		}
		req.PurchaseDate = d
	} else {
		y, m, d := h.now().UTC().Date()
		req.PurchaseDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	if raw := q.Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, errInvalidDays)
			return
		}
		req.RequiredDays = &days
	}
	req.Rule = q.Get("rule")

	quote, err := h.deliveries.Quote(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

type holidayResponse struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (h *handler) listHolidays(w http.ResponseWriter, r *http.Request) {
	var year int
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y <= 0 {
			writeError(w, http.StatusUnprocessableEntity, errInvalidYear)
			return
		}
		year = y
	}

	holidays, err := h.holidays.List(r.Context(), year)
	if err != nil {
		writeDomainError(w, err, errInternal)
		return
	}
	out := make([]holidayResponse, 0, len(holidays))
	for _, hd := range holidays {
		out = append(out, holidayResponse{Date: hd.Date.Format(domain.DateLayout), Name: hd.Name})
	}
	writeJSON(w, http.StatusOK, out)
}
