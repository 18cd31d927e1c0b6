package backend

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"gastos/internal/config"
	"gastos/internal/core"
	applog "gastos/internal/log"
	"gastos/internal/sheets/memory"

	"github.com/shopspring/decimal"
)

func quietFactory() Factory {
	return NewFactory(applog.New(applog.Config{Output: &bytes.Buffer{}}))
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "postgres"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", SeedDir: "seed"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "x.db" || cfg.SeedDir != "seed" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr bool
	}{
		{Config{Type: MemoryBackend}, false},
		{Config{Type: SQLiteBackend}, true},
		{Config{Type: SQLiteBackend, SQLiteDBPath: "a.db"}, false},
		{Config{Type: SheetsBackend}, true},
		{Config{Type: SheetsBackend, GoogleSpreadsheetID: "id"}, false},
		{Config{Type: "nope"}, true},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%+v) err=%v, wantErr=%v", tt.cfg, err, tt.wantErr)
		}
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	dir := t.TempDir()
	seed := "Fecha,Categoría,Monto\n01/03/2025,Comida,\"1.500\"\n"
	if err := os.WriteFile(filepath.Join(dir, memory.SeedFile), []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: MemoryBackend, SeedDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if res.Publisher != nil {
		t.Fatal("memory backend must not publish")
	}
	rows, err := res.Store.FetchAllRows(context.Background())
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows=%v err=%v", rows, err)
	}
	if err := res.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := res.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateSQLiteBackendWithoutAMQP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "gastos.db")
	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if res.Publisher != nil {
		t.Fatal("publisher should be nil without AMQP_URL")
	}
	if err := res.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
	row := core.Row{Date: "01/03/2025 10:00:00", Category: "Comida", Amount: decimal.RequireFromString("12.5")}
	if err := res.Store.AppendRow(context.Background(), row); err != nil {
		t.Fatal(err)
	}
	rows, err := res.Store.FetchAllRows(context.Background())
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows=%v err=%v", rows, err)
	}
}

func TestCreateSheetsBackendRequiresID(t *testing.T) {
	if _, err := quietFactory().CreateBackend(context.Background(), Config{Type: SheetsBackend}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNilResultClose(t *testing.T) {
	var res *BackendResult
	if err := res.Close(); err != nil {
		t.Fatal(err)
	}
}
