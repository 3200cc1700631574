package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Store Hours!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasSuffix(base, "_add_store_hours.sql") {
		t.Fatalf("unexpected file name %q", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read created migration: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "-- +goose Up") || !strings.Contains(content, "-- +goose Down") {
		t.Fatalf("missing goose markers in %q", content)
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()

	good := "20250601120000_add_stores.sql"
	content := "-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n"
	if err := os.WriteFile(filepath.Join(dir, good), []byte(content), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("ValidateDir on valid dir: %v", err)
	}

	bad := "not_a_migration.sql"
	if err := os.WriteFile(filepath.Join(dir, bad), []byte(content), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected error for misnamed migration file")
	}
}

func TestValidateDirDetectsDuplicateVersions(t *testing.T) {
	dir := t.TempDir()

	content := "-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n"
	for _, name := range []string{"20250601120000_first.sql", "20250601120000_second.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write migration: %v", err)
		}
	}

	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected duplicate version error")
	}
}
