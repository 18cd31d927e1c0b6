package core

import "testing"

func TestNormalizeCategory(t *testing.T) {
	cases := map[string]string{
		"Alimentación":             "alimentacion",
		"alimentacion":             "alimentacion",
		"  COMIDA ":                "alimentacion",
		"Supermercado":             "alimentacion",
		"Transporte":               "transporte",
		"LUZ":                      "servicios",
		"Educación":                "educacion",
		"":                         "otros",
		"   ":                      "otros",
		"Varios":                   "otros",
		"Mascotas":                 "mascotas",
		"Regalos   de  cumpleaños": "regalos de cumpleanos",
	}
	for in, want := range cases {
		if got := NormalizeCategory(in); got != want {
			t.Fatalf("NormalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeCategoryIsIdempotent(t *testing.T) {
	for _, in := range []string{"Alimentación", "Mascotas", "  Ropa  ", "Día  de campo"} {
		once := NormalizeCategory(in)
		if twice := NormalizeCategory(once); twice != once {
			t.Fatalf("NormalizeCategory not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"alimentacion":          "Alimentación",
		"educacion":             "Educación",
		"transporte":            "Transporte",
		"mascotas":              "Mascotas",
		"regalos de cumpleanos": "Regalos De Cumpleanos",
	}
	for in, want := range cases {
		if got := DisplayName(in); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}
