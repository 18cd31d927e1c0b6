package sheets

import (
	"context"

	"gastos/internal/core"
)

// Ports for outbound adapters.
type (
	// RowFetcher returns every expense row in the store. An empty store
	// yields an empty slice, not an error.
	RowFetcher interface {
		FetchAllRows(ctx context.Context) ([]core.RawRow, error)
	}

	// RowAppender appends one expense row to the store.
	RowAppender interface {
		AppendRow(ctx context.Context, r core.Row) error
	}

	// RowStore is a backend that can both read and append rows.
	RowStore interface {
		RowFetcher
		RowAppender
	}
)

// Header names written by the appenders, in store column order.
var Headers = []string{"Fecha", "Categoría", "Monto", "Descripción", "Usuario"}
