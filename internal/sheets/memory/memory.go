package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gastos/internal/core"
	ports "gastos/internal/sheets"
)

// SeedFile is the CSV read by NewFromFiles. The first record holds headers.
const SeedFile = "seed_rows.csv"

// Store keeps rows in memory. It is meant for local runs and tests.
type Store struct {
	mu      sync.Mutex
	headers []string
	rows    [][]any
}

var (
	_ ports.RowFetcher  = (*Store)(nil)
	_ ports.RowAppender = (*Store)(nil)
)

// New returns an empty store using the default headers.
func New() *Store {
	return &Store{headers: append([]string(nil), ports.Headers...)}
}

// NewWithRows returns a store preloaded with raw rows under the given headers.
func NewWithRows(headers []string, rows [][]any) *Store {
	s := &Store{headers: append([]string(nil), headers...)}
	for _, r := range rows {
		s.rows = append(s.rows, append([]any(nil), r...))
	}
	return s
}

// NewFromFiles seeds the store from base/seed_rows.csv. A missing file gives
// an empty store.
func NewFromFiles(base string) (*Store, error) {
	path := filepath.Join(base, SeedFile)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()

	headers, rows, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	if len(headers) == 0 {
		return New(), nil
	}
	return NewWithRows(headers, rows), nil
}

// FetchAllRows returns a snapshot of every stored row.
func (s *Store) FetchAllRows(_ context.Context) ([]core.RawRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RawRow, 0, len(s.rows))
	for _, cells := range s.rows {
		if len(cells) > len(s.headers) {
			out = append(out, nil)
			continue
		}
		row := make(core.RawRow, len(cells))
		for i, v := range cells {
			row[s.headers[i]] = v
		}
		out = append(out, row)
	}
	return out, nil
}

// AppendRow stores the row in header order.
func (s *Store) AppendRow(_ context.Context, r core.Row) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, r.Values())
	return nil
}

// Len returns the number of stored rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func readCSV(r io.Reader) ([]string, [][]any, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var headers []string
	var rows [][]any
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if headers == nil {
			for _, h := range rec {
				headers = append(headers, strings.TrimSpace(h))
			}
			continue
		}
		cells := make([]any, len(rec))
		for i, v := range rec {
			cells[i] = v
		}
		rows = append(rows, cells)
	}
	return headers, rows, nil
}
