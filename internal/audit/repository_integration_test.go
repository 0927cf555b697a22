package audit

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestRepository_LogAndRecent(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	content, err := os.ReadFile(filepath.Join(projectRoot(), "migrations", "002_audit_logs.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := db.Exec(string(content)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}

	ctx := context.Background()
	repo := NewRepository(db)
	entry := Entry{
		ID:           NewID(),
		Actor:        "it-user",
		Role:         "admin",
		Action:       ActionReportExport,
		ResourceType: "report",
		ResourceID:   "pdf",
		Metadata:     []byte(`{"project":"IT"}`),
	}
	if err := repo.Log(ctx, entry); err != nil {
		t.Fatalf("log: %v", err)
	}
	defer func() {
		_, _ = db.Exec(`DELETE FROM audit_logs WHERE id = $1`, entry.ID)
	}()

	recent, err := repo.Recent(ctx, ActionReportExport, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	for _, got := range recent {
		if got.ID == entry.ID {
			if got.PayloadDigest != DigestJSON(entry.Metadata) {
				t.Fatalf("expected digest to be filled, got %q", got.PayloadDigest)
			}
			return
		}
	}
	t.Fatalf("logged entry %s not found", entry.ID)
}

func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}
