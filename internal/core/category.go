package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCategory is the canonical token for rows without a category.
const DefaultCategory = "otros"

// categorySynonyms maps folded labels to their canonical token.
// Keys are lowercase and accent-free.
var categorySynonyms = map[string]string{
	// Alimentación
	"alimentacion": "alimentacion",
	"alimentos":    "alimentacion",
	"comida":       "alimentacion",
	"comidas":      "alimentacion",
	"supermercado": "alimentacion",
	"super":        "alimentacion",
	"almacen":      "alimentacion",
	"verduleria":   "alimentacion",
	"carniceria":   "alimentacion",

	// Transporte
	"transporte":  "transporte",
	"colectivo":   "transporte",
	"subte":       "transporte",
	"taxi":        "transporte",
	"uber":        "transporte",
	"nafta":       "transporte",
	"combustible": "transporte",
	"peajes":      "transporte",

	// Servicios
	"servicios": "servicios",
	"luz":       "servicios",
	"gas":       "servicios",
	"agua":      "servicios",
	"internet":  "servicios",
	"telefono":  "servicios",
	"celular":   "servicios",

	// Vivienda
	"vivienda": "vivienda",
	"alquiler": "vivienda",
	"expensas": "vivienda",
	"hogar":    "vivienda",
	"casa":     "vivienda",

	// Salud
	"salud":    "salud",
	"farmacia": "salud",
	"medico":   "salud",
	"medicos":  "salud",
	"prepaga":  "salud",

	// Entretenimiento
	"entretenimiento": "entretenimiento",
	"ocio":            "entretenimiento",
	"salidas":         "entretenimiento",
	"cine":            "entretenimiento",
	"restaurante":     "entretenimiento",

	// Educación
	"educacion": "educacion",
	"cursos":    "educacion",
	"libros":    "educacion",
	"colegio":   "educacion",

	// Ropa
	"ropa":         "ropa",
	"vestimenta":   "ropa",
	"indumentaria": "ropa",

	// Otros
	"otros":  "otros",
	"otro":   "otros",
	"varios": "otros",
}

// categoryLabels are the presentation strings for known canonical tokens.
var categoryLabels = map[string]string{
	"alimentacion":    "Alimentación",
	"transporte":      "Transporte",
	"servicios":       "Servicios",
	"vivienda":        "Vivienda",
	"salud":           "Salud",
	"entretenimiento": "Entretenimiento",
	"educacion":       "Educación",
	"ropa":            "Ropa",
	"otros":           "Otros",
}

// NormalizeCategory folds a free-text label into its canonical token.
// Unknown labels are returned folded and whitespace-collapsed, so they act as
// their own canonical identity.
func NormalizeCategory(raw string) string {
	key := foldText(raw)
	if key == "" {
		return DefaultCategory
	}
	if canonical, ok := categorySynonyms[key]; ok {
		return canonical
	}
	collapsed := collapseSpaces(key)
	if canonical, ok := categorySynonyms[collapsed]; ok {
		return canonical
	}
	return collapsed
}

// DisplayName returns the presentation label for a canonical category.
func DisplayName(canonical string) string {
	if label, ok := categoryLabels[canonical]; ok {
		return label
	}
	return cases.Title(language.Spanish).String(canonical)
}

// foldText trims, lowercases and strips diacritics.
func foldText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
