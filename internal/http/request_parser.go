package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"gastos/internal/services"
)

const maxBodyBytes = 64 << 10

// expensePayload is the ingest body. monto may be a JSON number or a
// locale formatted string.
type expensePayload struct {
	Categoria   string `json:"categoria"`
	Monto       any    `json:"monto"`
	Descripcion string `json:"descripcion"`
	Fecha       string `json:"fecha"`
	Usuario     string `json:"usuario"`
}

func (p expensePayload) toNewExpense() services.NewExpense {
	return services.NewExpense{
		Category:    sanitizeInput(p.Categoria),
		Amount:      p.Monto,
		Description: sanitizeInput(p.Descripcion),
		Date:        sanitizeInput(p.Fecha),
		User:        sanitizeInput(p.Usuario),
	}
}

// parseExpenseRequest reads a JSON body, or a urlencoded form when the
// client sends one.
func parseExpenseRequest(w http.ResponseWriter, r *http.Request) (services.NewExpense, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return services.NewExpense{}, fmt.Errorf("formulario inválido: %w", err)
		}
		return formPayload(r.PostForm).toNewExpense(), nil
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var p expensePayload
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return services.NewExpense{}, errors.New("cuerpo vacío")
		}
		return services.NewExpense{}, fmt.Errorf("JSON inválido: %w", err)
	}
	if dec.More() {
		return services.NewExpense{}, errors.New("JSON inválido: datos extra después del objeto")
	}
	switch p.Monto.(type) {
	case nil, string, json.Number:
	default:
		return services.NewExpense{}, errors.New("monto debe ser un número o texto")
	}
	return p.toNewExpense(), nil
}

func formPayload(form url.Values) expensePayload {
	p := expensePayload{
		Categoria:   form.Get("categoria"),
		Descripcion: form.Get("descripcion"),
		Fecha:       form.Get("fecha"),
		Usuario:     form.Get("usuario"),
	}
	if v := form.Get("monto"); v != "" {
		p.Monto = v
	}
	return p
}

// parseMonthParam returns the "YYYY-MM" selector from mes, or from year and
// month when mes is absent. An empty result means all time.
func parseMonthParam(q url.Values) string {
	if mes := strings.TrimSpace(q.Get("mes")); mes != "" {
		return mes
	}
	year := strings.TrimSpace(q.Get("year"))
	month := strings.TrimSpace(q.Get("month"))
	if year == "" && month == "" {
		return ""
	}
	return year + "-" + month
}

// sanitizeInput removes control characters except tab and newlines and trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}
