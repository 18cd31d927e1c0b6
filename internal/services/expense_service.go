package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gastos/internal/core"
	applog "gastos/internal/log"
	"gastos/internal/sheets"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput wraps field validation failures of an ingest request.
var ErrInvalidInput = errors.New("invalid input")

// NewExpense is an ingest request. Amount is kept loosely typed because
// clients send both numbers and locale formatted strings.
type NewExpense struct {
	Category    string `validate:"required,max=100"`
	Amount      any    `validate:"required"`
	Description string `validate:"max=200"`
	Date        string `validate:"omitempty,max=40"`
	User        string `validate:"omitempty,max=100"`
}

// Publisher announces stored rows to the mirror worker.
type Publisher interface {
	PublishRowSync(ctx context.Context, id int64) error
}

// rowInserter is implemented by stores that assign row ids.
type rowInserter interface {
	InsertRow(ctx context.Context, r core.Row) (int64, error)
}

// ExpenseService validates ingest requests and appends them to the store.
type ExpenseService struct {
	appender    sheets.RowAppender
	publisher   Publisher
	defaultUser string
	validate    *validator.Validate
	now         func() time.Time
}

// NewExpenseService builds the service. publisher may be nil.
func NewExpenseService(appender sheets.RowAppender, publisher Publisher, defaultUser string) *ExpenseService {
	return &ExpenseService{
		appender:    appender,
		publisher:   publisher,
		defaultUser: defaultUser,
		validate:    validator.New(),
		now:         time.Now,
	}
}

// CreateExpense appends one row. Date and user fall back to the current time
// and the configured identity. The category is stored as typed.
func (s *ExpenseService) CreateExpense(ctx context.Context, in NewExpense) (core.Row, error) {
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.Date = strings.TrimSpace(in.Date)
	in.User = strings.TrimSpace(in.User)
	if str, ok := in.Amount.(string); ok {
		if str = strings.TrimSpace(str); str == "" {
			in.Amount = nil
		} else {
			in.Amount = str
		}
	}

	if err := s.validate.Struct(in); err != nil {
		return core.Row{}, fmt.Errorf("%w: %s", ErrInvalidInput, describeValidation(err))
	}

	amount, ok := core.ParseAmount(in.Amount)
	if !ok {
		return core.Row{}, fmt.Errorf("%w: %v", core.ErrInvalidAmount, in.Amount)
	}

	row := core.Row{
		Date:        s.now().Format(core.RowDateLayout),
		Category:    in.Category,
		Amount:      amount,
		Description: in.Description,
		User:        s.defaultUser,
	}
	if in.Date != "" {
		t := core.ParseDayFirst(in.Date)
		if t == nil {
			return core.Row{}, fmt.Errorf("%w: unrecognized date %q", ErrInvalidInput, in.Date)
		}
		row.Date = t.Format(core.RowDateLayout)
	}
	if in.User != "" {
		row.User = in.User
	}
	if err := row.Validate(); err != nil {
		return core.Row{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if ins, ok := s.appender.(rowInserter); ok && s.publisher != nil {
		id, err := ins.InsertRow(ctx, row)
		if err != nil {
			return core.Row{}, fmt.Errorf("save expense: %w", err)
		}
		// The row is stored; a lost message is picked up by the worker's pending scan.
		if err := s.publisher.PublishRowSync(ctx, id); err != nil {
			applog.FromContext(ctx).WithComponent(applog.ComponentExpense).ErrorContext(ctx, "Failed to publish sync message",
				"id", id, applog.FieldError, err)
		}
		return row, nil
	}

	if err := s.appender.AppendRow(ctx, row); err != nil {
		return core.Row{}, fmt.Errorf("save expense: %w", err)
	}
	return row, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, strings.ToLower(fe.Field())+" is required")
		case "max":
			parts = append(parts, fmt.Sprintf("%s exceeds %s characters", strings.ToLower(fe.Field()), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
