package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestParseMonthParam(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"", ""},
		{"mes=2025-03", "2025-03"},
		{"mes=%202025-03%20", "2025-03"},
		{"year=2025&month=3", "2025-3"},
		{"mes=2024-12&year=2025&month=1", "2024-12"},
		{"year=2025", "2025-"},
		{"month=7", "-7"},
	}
	for _, tt := range tests {
		q, err := url.ParseQuery(tt.query)
		if err != nil {
			t.Fatal(err)
		}
		if got := parseMonthParam(q); got != tt.want {
			t.Errorf("parseMonthParam(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestParseExpenseRequestJSON(t *testing.T) {
	body := `{"categoria":" Comida\u0007 ","monto":1.500,"descripcion":"pan","fecha":"01/02/2025","usuario":"Ana"}`
	r := httptest.NewRequest(http.MethodPost, "/agregar_gasto", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")

	in, err := parseExpenseRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatal(err)
	}
	if in.Category != "Comida" {
		t.Errorf("category=%q", in.Category)
	}
	if n, ok := in.Amount.(json.Number); !ok || n.String() != "1.500" {
		t.Errorf("amount=%#v", in.Amount)
	}
	if in.Date != "01/02/2025" || in.User != "Ana" || in.Description != "pan" {
		t.Errorf("unexpected %+v", in)
	}
}

func TestParseExpenseRequestRejects(t *testing.T) {
	for name, body := range map[string]string{
		"empty":       "",
		"truncated":   `{"categoria":"x"`,
		"trailing":    `{"categoria":"x"} {}`,
		"array monto": `{"categoria":"x","monto":[1]}`,
		"bool monto":  `{"categoria":"x","monto":true}`,
		"too large":   `{"categoria":"` + strings.Repeat("a", maxBodyBytes) + `"}`,
	} {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/agregar_gasto", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")
			if _, err := parseExpenseRequest(httptest.NewRecorder(), r); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := map[string]string{
		"  hola  ":          "hola",
		"a\x00b\x1fc":       "abc",
		"linea1\nlinea2\t ": "linea1\nlinea2",
	}
	for in, want := range tests {
		if got := sanitizeInput(in); got != want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", in, got, want)
		}
	}
}
