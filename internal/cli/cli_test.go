package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("UPLOADS_DIR", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSyncProducts_InMemory(t *testing.T) {
	out, err := run(t, "sync", "products")
	if err != nil {
		t.Fatalf("sync products: %v", err)
	}
	if !strings.Contains(out, "inserted: 10, updated: 0, deleted: 0") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestSyncReviews_InMemory(t *testing.T) {
	out, err := run(t, "sync", "reviews")
	if err != nil {
		t.Fatalf("sync reviews: %v", err)
	}
	if !strings.HasPrefix(out, "inserted: ") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestExportProducts_WritesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.xlsx")
	out, err := run(t, "export", "products", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "exported 0 products") {
		t.Fatalf("unexpected output: %q", out)
	}
	st, err := os.Stat(path)
	if err != nil || st.Size() == 0 {
		t.Fatalf("workbook not written: %v", err)
	}
}

func TestMigrate_RequiresDatabase(t *testing.T) {
	if _, err := run(t, "migrate", "up"); !errors.Is(err, errNoDatabase) {
		t.Fatalf("want errNoDatabase, got %v", err)
	}
}

func TestMigrate_RejectsUnknownDirection(t *testing.T) {
	if _, err := run(t, "migrate", "sideways"); err == nil {
		t.Fatal("expected argument error")
	}
}
