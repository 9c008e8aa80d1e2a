package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTableCommand(t *testing.T) {
	out, err := run(t, "", "table")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(out, "<table>") {
		t.Errorf("expected an HTML table, got %q", out)
	}
	if !strings.Contains(out, "<td>Arroz de Marisco</td>") {
		t.Errorf("expected default menu in table, got %q", out)
	}
}

func TestTableCommand_EmptyMenu(t *testing.T) {
	out, err := run(t, "", "table", "--empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected no output for an empty menu, got %q", out)
	}
}

func TestTableCommand_SortAndImport(t *testing.T) {
	file := filepath.Join(t.TempDir(), "extra.txt")
	if err := os.WriteFile(file, []byte("Café|B|0.7\n"), 0644); err != nil {
		t.Fatalf("failed to write menu file: %v", err)
	}

	out, err := run(t, "", "table", "--file", file, "--sort", "price")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cafe := strings.Index(out, "Café")
	pao := strings.Index(out, "Pão")
	if cafe < 0 || pao < 0 || cafe > pao {
		t.Errorf("expected Café before Pão after sorting by price, got %q", out)
	}
}

func TestTableCommand_UnknownSortField(t *testing.T) {
	if _, err := run(t, "", "table", "--sort", "colour"); err == nil {
		t.Error("expected error for unknown sort field")
	}
}

func TestSearchCommand(t *testing.T) {
	out, err := run(t, "", "search", "arroz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "O preço de Arroz de Marisco é 15.00€\nO preço de Arroz Doce é 2.50€\n"
	if out != expected {
		t.Errorf("expected %q, got %q", expected, out)
	}
}

func TestShellCommand(t *testing.T) {
	out, err := run(t, "remove arroz\nquit\n", "shell")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "Produtos removidos: 2") {
		t.Errorf("expected removal message, got %q", out)
	}
}

func TestExportCommand(t *testing.T) {
	output := filepath.Join(t.TempDir(), "menu.xlsx")

	out, err := run(t, "", "export", "-o", output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "5 produtos") {
		t.Errorf("unexpected output %q", out)
	}

	f, err := excelize.OpenFile(output)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 6 {
		t.Errorf("expected 6 rows, got %d", len(rows))
	}
}

func TestImportError(t *testing.T) {
	if _, err := run(t, "", "table", "--file", "/non/existent/menu.txt"); err == nil {
		t.Error("expected error for missing menu file")
	}
}
