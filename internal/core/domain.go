package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// RawRow is one row as read from the store: header -> cell value.
	// Headers are not normalized and values are loosely typed.
	RawRow map[string]any

	// Row is the payload appended to the store for a new expense.
	Row struct {
		Date        string
		Category    string
		Amount      decimal.Decimal
		Description string
		User        string
	}

	// ExpenseRecord is a normalized row.
	ExpenseRecord struct {
		DateRaw     string
		Date        *time.Time // nil when DateRaw could not be parsed
		CategoryRaw string
		Category    string // canonical, never empty
		AmountRaw   any
		Amount      decimal.Decimal // zero when AmountRaw could not be parsed
		Description string
		User        string
	}
)

var (
	ErrMissingColumn      = errors.New("missing required column")
	ErrInvalidMonthFilter = errors.New("invalid month filter")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

// RowDateLayout is the layout used for server-assigned row dates.
const RowDateLayout = "02/01/2006 15:04:05"

// Validate checks an outgoing row before it is appended.
func (r Row) Validate() error {
	if strings.TrimSpace(r.Date) == "" {
		return errors.New("empty date")
	}
	if len(r.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

// Values returns the row cells in store column order.
func (r Row) Values() []any {
	return []any{r.Date, r.Category, r.Amount.InexactFloat64(), r.Description, r.User}
}

// InMonth reports whether the record date falls within year and month.
func (e ExpenseRecord) InMonth(year, month int) bool {
	if e.Date == nil {
		return false
	}
	return e.Date.Year() == year && int(e.Date.Month()) == month
}
