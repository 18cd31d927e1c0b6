package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"gastos/internal/core"

	"github.com/shopspring/decimal"
)

type summaryPayload struct {
	Category        string      `json:"category"`
	CategoryDisplay string      `json:"category_display"`
	Amount          json.Number `json:"amount"`
	AmountFormatted string      `json:"amount_formatted"`
}

type reportResponse struct {
	Summaries      []summaryPayload `json:"summaries"`
	Total          json.Number      `json:"total"`
	TotalFormatted string           `json:"total_formatted"`
	Month          *string          `json:"month"`
	FilterIgnored  bool             `json:"filter_ignored,omitempty"`
	Records        int              `json:"records"`
}

type rowPayload struct {
	Fecha       string      `json:"fecha"`
	Categoria   string      `json:"categoria"`
	Monto       json.Number `json:"monto"`
	Descripcion string      `json:"descripcion"`
	Usuario     string      `json:"usuario"`
}

type createdResponse struct {
	Status  string     `json:"status"`
	Mensaje string     `json:"mensaje"`
	Gasto   rowPayload `json:"gasto"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// number renders d as an exact JSON number.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func newReportResponse(rep core.Report) reportResponse {
	resp := reportResponse{
		Summaries:      make([]summaryPayload, 0, len(rep.Summaries)),
		Total:          number(rep.Total),
		TotalFormatted: core.FormatAmount(rep.Total),
		FilterIgnored:  rep.FilterIgnored,
		Records:        rep.Records,
	}
	if rep.Filter != nil {
		m := rep.Filter.String()
		resp.Month = &m
	}
	for _, s := range rep.Summaries {
		resp.Summaries = append(resp.Summaries, summaryPayload{
			Category:        s.Category,
			CategoryDisplay: s.Display,
			Amount:          number(s.Total),
			AmountFormatted: core.FormatAmount(s.Total),
		})
	}
	return resp
}

func newRowPayload(row core.Row) rowPayload {
	return rowPayload{
		Fecha:       row.Date,
		Categoria:   row.Category,
		Monto:       number(row.Amount),
		Descripcion: row.Description,
		Usuario:     row.User,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func sendAttachment(w http.ResponseWriter, contentType, filename string, body io.WriterTo) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}
