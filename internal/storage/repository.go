package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gastos/internal/core"
	ports "gastos/internal/sheets"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// ErrRowNotFound is returned when a row id does not exist.
var ErrRowNotFound = errors.New("row not found")

// Sync states of a stored row.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

// SQLiteRepository is an append-only expense log backed by SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ ports.RowFetcher  = (*SQLiteRepository)(nil)
	_ ports.RowAppender = (*SQLiteRepository)(nil)
)

// StoredRow is a row with its database identity.
type StoredRow struct {
	ID         int64
	Row        core.Row
	SyncStatus string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// AppendRow implements sheets.RowAppender.
func (r *SQLiteRepository) AppendRow(ctx context.Context, row core.Row) error {
	_, err := r.InsertRow(ctx, row)
	return err
}

// InsertRow appends the row and returns its id.
func (r *SQLiteRepository) InsertRow(ctx context.Context, row core.Row) (int64, error) {
	if err := row.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expense_rows (fecha, categoria, monto, descripcion, usuario) VALUES (?, ?, ?, ?, ?)`,
		row.Date, row.Category, row.Amount.String(), row.Description, row.User)
	if err != nil {
		return 0, fmt.Errorf("insert row: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense row saved to SQLite",
		"id", id,
		"category", row.Category,
		"amount", row.Amount.String())
	return id, nil
}

// FetchAllRows implements sheets.RowFetcher. Rows are keyed with the same
// headers the sheet uses and returned in insertion order.
func (r *SQLiteRepository) FetchAllRows(ctx context.Context) ([]core.RawRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT fecha, categoria, monto, descripcion, usuario FROM expense_rows ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	out := []core.RawRow{}
	for rows.Next() {
		var fecha, categoria, monto, descripcion, usuario string
		if err := rows.Scan(&fecha, &categoria, &monto, &descripcion, &usuario); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		raw := core.RawRow{
			ports.Headers[0]: fecha,
			ports.Headers[1]: categoria,
			ports.Headers[3]: descripcion,
			ports.Headers[4]: usuario,
		}
		// Amounts are stored canonical; hand them over as decimals so they
		// are not run through the separator heuristic again.
		if d, err := decimal.NewFromString(monto); err == nil {
			raw[ports.Headers[2]] = d
		} else {
			raw[ports.Headers[2]] = monto
		}
		out = append(out, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// GetRow returns a stored row by id.
func (r *SQLiteRepository) GetRow(ctx context.Context, id int64) (*StoredRow, error) {
	var (
		sr    StoredRow
		monto string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, fecha, categoria, monto, descripcion, usuario, sync_status FROM expense_rows WHERE id = ?`, id).
		Scan(&sr.ID, &sr.Row.Date, &sr.Row.Category, &monto, &sr.Row.Description, &sr.Row.User, &sr.SyncStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRowNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get row %d: %w", id, err)
	}
	sr.Row.Amount, err = decimal.NewFromString(monto)
	if err != nil {
		return nil, fmt.Errorf("row %d amount %q: %w", id, monto, err)
	}
	return &sr, nil
}

// PendingSyncIDs returns up to limit row ids not yet mirrored, oldest first.
func (r *SQLiteRepository) PendingSyncIDs(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM expense_rows WHERE sync_status = ? ORDER BY id LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending rows: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkSynced marks a row as mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	return r.setSyncStatus(ctx, id, SyncSynced)
}

// MarkSyncError marks a row whose mirroring failed permanently.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.setSyncStatus(ctx, id, SyncError); err != nil {
		return err
	}
	slog.WarnContext(ctx, "Expense row marked with sync error", "id", id)
	return nil
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, id int64, status string) error {
	q := `UPDATE expense_rows SET sync_status = ?, synced_at = NULL WHERE id = ?`
	if status == SyncSynced {
		q = `UPDATE expense_rows SET sync_status = ?, synced_at = CURRENT_TIMESTAMP WHERE id = ?`
	}
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return fmt.Errorf("mark row %d %s: %w", id, status, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %d", ErrRowNotFound, id)
	}
	return nil
}
