package backend

import (
	"context"

	"gastos/internal/services"
	"gastos/internal/sheets"
)

// CleanupFunc releases backend resources
type CleanupFunc func() error

// Pinger is implemented by stores that can report readiness
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendResult contains the store, an optional change publisher and a cleanup hook
type BackendResult struct {
	Type      BackendType
	Store     sheets.RowStore
	Publisher services.Publisher // nil when new rows are not announced
	Cleanup   CleanupFunc
}

// Ping checks the store when it supports readiness checks
func (b *BackendResult) Ping(ctx context.Context) error {
	if p, ok := b.Store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close runs the cleanup hook if any
func (b *BackendResult) Close() error {
	if b == nil || b.Cleanup == nil {
		return nil
	}
	return b.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Memory
	SeedDir string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
