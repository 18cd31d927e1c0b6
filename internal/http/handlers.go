package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gastos/internal/core"
	"gastos/internal/export"
	applog "gastos/internal/log"
	"gastos/internal/services"
)

const (
	msgBadFormat   = "Formato de datos incorrecto"
	msgStoreFailed = "No se pudieron leer los datos"
	msgSaveFailed  = "No se pudo guardar el gasto"
	msgSaved       = "Gasto guardado correctamente"
	msgNoFont      = "Exportación PDF no disponible"
	msgExportFail  = "No se pudo generar el documento"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Month string
		Today string
	}{
		Month: time.Now().Format("2006-01"),
		Today: time.Now().Format("2006-01-02"),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution error", applog.FieldError, err, "template", "index.html")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentExpense)

	in, err := parseExpenseRequest(w, r)
	if err != nil {
		logger.WarnContext(ctx, "Rejected expense request", applog.FieldError, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	row, err := s.expenses.CreateExpense(ctx, in)
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, core.ErrInvalidAmount), errors.Is(err, core.ErrDescriptionTooLong):
		logger.WarnContext(ctx, "Invalid expense", applog.FieldError, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.ErrorContext(ctx, "Expense append error", applog.NewFields().WithError(err).WithOperation(applog.OpAppend).ToSlice()...)
		writeError(w, storeErrorStatus(ctx, err), msgSaveFailed)
		return
	}

	logger.InfoContext(ctx, "Expense recorded", applog.NewFields().WithExpense(row.Category, row.Amount, row.User).ToSlice()...)
	writeJSON(w, http.StatusCreated, createdResponse{
		Status:  "ok",
		Mensaje: msgSaved,
		Gasto:   newRowPayload(row),
	})
}

// loadReport resolves the month selector and computes the report. It writes
// the error response itself and reports whether the caller should continue.
func (s *Server) loadReport(w http.ResponseWriter, r *http.Request) (core.Report, bool) {
	if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
		return core.Report{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentReport)

	month := parseMonthParam(r.URL.Query())
	rep, err := s.reports.MonthlyReport(ctx, month)
	switch {
	case errors.Is(err, core.ErrMissingColumn):
		logger.WarnContext(ctx, "Report rows lack required columns", applog.FieldError, err)
		writeError(w, http.StatusBadRequest, msgBadFormat)
		return core.Report{}, false
	case err != nil:
		logger.ErrorContext(ctx, "Report failed", applog.NewFields().WithError(err).WithOperation(applog.OpReport).ToSlice()...)
		writeError(w, storeErrorStatus(ctx, err), msgStoreFailed)
		return core.Report{}, false
	}

	filter := ""
	if rep.Filter != nil {
		filter = rep.Filter.String()
	}
	logger.DebugContext(ctx, "Report served", applog.NewFields().WithReport(filter, rep.FilterIgnored, len(rep.Summaries), rep.Total).ToSlice()...)
	return rep, true
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newReportResponse(rep))
}

func (s *Server) handleReportExcel(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.exporter.Workbook(&buf, rep); err != nil {
		s.exportFailed(w, r, "excel", err)
		return
	}
	sendAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", exportFilename(rep, "xlsx"), &buf)
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.exporter.PDF(&buf, rep); err != nil {
		if errors.Is(err, export.ErrFontUnavailable) {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "PDF export unavailable", applog.FieldError, err)
			writeError(w, http.StatusServiceUnavailable, msgNoFont)
			return
		}
		s.exportFailed(w, r, "pdf", err)
		return
	}
	sendAttachment(w, "application/pdf", exportFilename(rep, "pdf"), &buf)
}

func (s *Server) exportFailed(w http.ResponseWriter, r *http.Request, format string, err error) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentExport).ErrorContext(r.Context(), "Export failed",
		applog.FieldFormat, format, applog.FieldError, err)
	writeError(w, http.StatusInternalServerError, msgExportFail)
}

func exportFilename(rep core.Report, ext string) string {
	period := "total"
	if rep.Filter != nil {
		period = rep.Filter.String()
	}
	return fmt.Sprintf("gastos-%s.%s", period, ext)
}

// storeErrorStatus maps store failures to 504 on timeout and 502 otherwise.
func storeErrorStatus(ctx context.Context, err error) int {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}
