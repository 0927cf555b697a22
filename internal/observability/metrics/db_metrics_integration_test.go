package metrics

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStoredRowsCollector_CountsEveryTable(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	for _, name := range []string{"001_catalog.sql", "002_audit_logs.sql"} {
		content, err := os.ReadFile(filepath.Join(projectRoot(), "migrations", name))
		if err != nil {
			t.Fatalf("read migration %s: %v", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			t.Fatalf("apply migration %s: %v", name, err)
		}
	}

	c := newStoredRowsCollector(db, nil)
	if got := testutil.CollectAndCount(c, metricPrefix+"stored_rows"); got != len(storedTables) {
		t.Fatalf("expected %d table samples, got %d", len(storedTables), got)
	}
}

func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return filepath.Clean(filepath.Join(dir, "..", "..", ".."))
}
