package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gastos/internal/core"
	"gastos/internal/sheets/memory"

	"github.com/shopspring/decimal"
)

type fakeInserter struct {
	rows   []core.Row
	err    error
	nextID int64
}

func (f *fakeInserter) AppendRow(ctx context.Context, r core.Row) error {
	_, err := f.InsertRow(ctx, r)
	return err
}

func (f *fakeInserter) InsertRow(_ context.Context, r core.Row) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.rows = append(f.rows, r)
	return f.nextID, nil
}

type fakePublisher struct {
	ids []int64
	err error
}

func (p *fakePublisher) PublishRowSync(_ context.Context, id int64) error {
	p.ids = append(p.ids, id)
	return p.err
}

func fixedNow() time.Time { return time.Date(2025, 3, 15, 10, 30, 0, 0, time.Local) }

func TestCreateExpenseDefaults(t *testing.T) {
	store := memory.New()
	svc := NewExpenseService(store, nil, "Smith")
	svc.now = fixedNow

	row, err := svc.CreateExpense(context.Background(), NewExpense{Category: " Comida ", Amount: "1.234,56", Description: "súper"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if row.Date != "15/03/2025 10:30:00" || row.User != "Smith" || row.Category != "Comida" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if !row.Amount.Equal(decimal.RequireFromString("1234.56")) {
		t.Fatalf("amount = %s", row.Amount)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 stored row, got %d", store.Len())
	}
}

func TestCreateExpenseExplicitDateAndUser(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil, "Smith")
	row, err := svc.CreateExpense(context.Background(), NewExpense{Category: "luz", Amount: 12.5, Date: "2025-01-02", User: "Ana"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if row.Date != "02/01/2025 00:00:00" || row.User != "Ana" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestCreateExpenseRejectsBadInput(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil, "Smith")
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	cases := []struct {
		name string
		in   NewExpense
		want error
	}{
		{"missing category", NewExpense{Amount: "10"}, ErrInvalidInput},
		{"missing amount", NewExpense{Category: "luz"}, ErrInvalidInput},
		{"empty amount", NewExpense{Category: "luz", Amount: "  "}, ErrInvalidInput},
		{"bad amount", NewExpense{Category: "luz", Amount: "abc"}, core.ErrInvalidAmount},
		{"long description", NewExpense{Category: "luz", Amount: "1", Description: string(long)}, ErrInvalidInput},
		{"bad date", NewExpense{Category: "luz", Amount: "1", Date: "ayer"}, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateExpense(context.Background(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateExpensePublishesWhenStoreAssignsIDs(t *testing.T) {
	store := &fakeInserter{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewExpenseService(store, pub, "Smith")

	if _, err := svc.CreateExpense(context.Background(), NewExpense{Category: "taxi", Amount: 100}); err != nil {
		t.Fatalf("publish failure must not fail the request: %v", err)
	}
	if len(store.rows) != 1 || len(pub.ids) != 1 || pub.ids[0] != 1 {
		t.Fatalf("rows=%d published=%v", len(store.rows), pub.ids)
	}
}

func TestCreateExpenseStoreFailure(t *testing.T) {
	svc := NewExpenseService(&fakeInserter{err: errors.New("disk full")}, nil, "Smith")
	if _, err := svc.CreateExpense(context.Background(), NewExpense{Category: "taxi", Amount: 1}); err == nil {
		t.Fatal("expected store error")
	}
}
