package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writePDF writes a single-page PDF showing text at a fixed position.
func writePDF(t *testing.T, dir, name, text string) string {
	t.Helper()

	var buf bytes.Buffer
	offsets := make(map[int]int)
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n")
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /Contents 4 0 R >>")
	writeObj(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))

	xrefPos := buf.Len()
	buf.WriteString("xref\n0 5\n0000000000 65535 f \n")
	for num := 1; num <= 4; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefPos)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompareCommandIdentical(t *testing.T) {
	dir := t.TempDir()
	ref := writePDF(t, dir, "ref.pdf", "Invoice 4411")
	cand := writePDF(t, dir, "cand.pdf", "Invoice 4411")

	out, err := runCLI(t, "compare", ref, cand)
	if err != nil {
		t.Fatalf("Expected success for identical documents, got: %v", err)
	}
	if !strings.Contains(out, "identical") {
		t.Errorf("Output should report identical pages:\n%s", out)
	}
	if !strings.Contains(out, "1 identical, 0 differing") {
		t.Errorf("Summary line missing:\n%s", out)
	}
}

func TestCompareCommandDiffering(t *testing.T) {
	dir := t.TempDir()
	ref := writePDF(t, dir, "ref.pdf", "Amount due: 100.00")
	cand := writePDF(t, dir, "cand.pdf", "Amount due: 250.00")

	out, err := runCLI(t, "compare", ref, cand)
	if !errors.Is(err, errDifferencesFound) {
		t.Fatalf("Expected errDifferencesFound, got: %v", err)
	}
	if !strings.Contains(out, "differs") {
		t.Errorf("Output should report a differing page:\n%s", out)
	}
}

func TestCompareCommandOverlayOutput(t *testing.T) {
	dir := t.TempDir()
	ref := writePDF(t, dir, "ref.pdf", "Version A content")
	cand := writePDF(t, dir, "cand.pdf", "Version B content")
	outDir := filepath.Join(dir, "overlays")

	_, err := runCLI(t, "compare", "--out", outDir, ref, cand)
	if !errors.Is(err, errDifferencesFound) {
		t.Fatalf("Expected errDifferencesFound, got: %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("Overlay directory missing: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 overlay PNG, got %d", len(entries))
	}
	if !strings.HasSuffix(entries[0].Name(), ".png") {
		t.Errorf("Overlay file %q is not a PNG", entries[0].Name())
	}
}

func TestCompareCommandZoneSuppression(t *testing.T) {
	dir := t.TempDir()
	ref := writePDF(t, dir, "ref.pdf", "Printed 2026-01-05")
	cand := writePDF(t, dir, "cand.pdf", "Printed 2026-02-17")

	// The changed text sits around (144,144) at the default zoom.
	_, err := runCLI(t, "compare", "--zone", "100,100,500,200", ref, cand)
	if err != nil {
		t.Errorf("Expected identical result with the change zoned out, got: %v", err)
	}
}

func TestCompareCommandConfigFile(t *testing.T) {
	dir := t.TempDir()
	ref := writePDF(t, dir, "ref.pdf", "Printed 2026-01-05")
	cand := writePDF(t, dir, "cand.pdf", "Printed 2026-02-17")

	configPath := filepath.Join(dir, "compare.yaml")
	config := "zones:\n  - [100, 100, 500, 200]\n"
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "compare", "--config", configPath, ref, cand)
	if err != nil {
		t.Errorf("Expected identical result with configured zone, got: %v", err)
	}
}

func TestCompareCommandBadArgs(t *testing.T) {
	if _, err := runCLI(t, "compare", "only-one.pdf"); err == nil {
		t.Error("Expected an error for a single argument")
	}
	if _, err := runCLI(t, "compare", "/no/such/a.pdf", "/no/such/b.pdf"); err == nil {
		t.Error("Expected an error for missing files")
	}
	if _, err := runCLI(t, "compare", "--zone", "bogus", "/a.pdf", "/b.pdf"); err == nil {
		t.Error("Expected an error for a malformed zone")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "pagediff version") {
		t.Errorf("Unexpected version output: %q", out)
	}
}
