package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go-datasync/pkg/syncerr"
)

func TestLoadDefaultCatalog(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Entries) == 0 {
		t.Fatal("default catalog is empty")
	}
	for _, e := range cat.Entries {
		if e.SourceID == "" || e.DestinationTable == "" || e.DisplayName == "" || e.Kind == "" || e.WriteMethod == "" {
			t.Errorf("default entry incomplete: %+v", e)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	content := `{"mappings":[{"source_id":"custom_1","destination_table":"widgets","display_name":"Widgets","kind":"entity","write_method":"upsert"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Entries) != 1 || cat.Entries[0].DestinationTable != "widgets" {
		t.Errorf("entries = %+v", cat.Entries)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing field", `{"mappings":[{"source_id":"x","destination_table":"t","display_name":"T","kind":"entity"}]}`},
		{"bad table name", `{"mappings":[{"source_id":"x","destination_table":"no spaces!","display_name":"T","kind":"entity","write_method":"upsert"}]}`},
		{"empty catalog", `{"mappings":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(path)
			var ve *syncerr.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/definitely/not/here.json"); err == nil {
		t.Error("expected error for missing catalog file")
	}
}

func TestIsPaginated(t *testing.T) {
	for _, table := range []string{"invoices_detailed", "item_fulfillments_detailed", "sales_orders_detailed", "forecast"} {
		if !IsPaginated(table) {
			t.Errorf("IsPaginated(%q) = false", table)
		}
	}
	for _, table := range []string{"invoices", "customers", "unknown"} {
		if IsPaginated(table) {
			t.Errorf("IsPaginated(%q) = true", table)
		}
	}
}
