package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateFile_JSON_Auto_OK(t *testing.T) {
	ctx := context.Background()
	validator := NewRequestValidator()

	dir := t.TempDir()
	path := filepath.Join(dir, "one.json")
	if err := os.WriteFile(path, []byte(minimalValidRequestJSON("c-1", "p-1", 1)), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	summary, err := ValidateFile(ctx, validator, path, FormatAuto, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "1 valid / 0 invalid" {
		t.Fatalf("unexpected summary: %s", summary)
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Fatalf("expected non-empty output")
	}
}

func TestValidateFile_JSONL_Auto_Mixed(t *testing.T) {
	ctx := context.Background()
	validator := NewRequestValidator()

	dir := t.TempDir()
	path := filepath.Join(dir, "list.jsonl")
	content := oneLineJSON(minimalValidRequestJSON("c-1", "p-1", 1)) + "\n" +
		oneLineJSON(minimalValidRequestJSON("", "p-1", 1)) + "\n" + // нет покупателя
		oneLineJSON(minimalValidRequestJSON("c-3", "p-3", 3)) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	summary, err := ValidateFile(ctx, validator, path, FormatAuto, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "2 valid / 1 invalid" {
		t.Fatalf("unexpected summary: %s", summary)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %d", len(lines))
	}
}

func TestValidateFile_JSON_Invalid(t *testing.T) {
	ctx := context.Background()
	validator := NewRequestValidator()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	// неизвестное поле
	raw := `{"unknown":1,` + minimalValidRequestJSON("c-1", "p-1", 1)[1:]
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	summary, err := ValidateFile(ctx, validator, path, FormatJSON, &out)
	if err == nil {
		t.Fatalf("expected error for invalid json")
	}
	if summary != "0 valid / 1 invalid" {
		t.Fatalf("unexpected summary: %s", summary)
	}
	if out.String() != "" {
		t.Fatalf("output must be empty for invalid single JSON")
	}
}

func TestValidateFile_JSON_PrintsMergedRequest(t *testing.T) {
	ctx := context.Background()
	validator := NewRequestValidator()

	dir := t.TempDir()
	path := filepath.Join(dir, "dup.json")
	raw := `{"customer_id":"c-1","products":[{"id":"p-1","quantity":1},{"id":"p-1","quantity":2}]}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	if _, err := ValidateFile(ctx, validator, path, FormatAuto, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"customer_id":"c-1","products":[{"id":"p-1","quantity":3}]}`
	if strings.TrimSpace(out.String()) != want {
		t.Fatalf("want %s, got %s", want, out.String())
	}
}

func TestValidateFile_ExplicitFormat_IgnoresExt(t *testing.T) {
	ctx := context.Background()
	validator := NewRequestValidator()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	content := oneLineJSON(minimalValidRequestJSON("c-1", "p-1", 1)) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	summary, err := ValidateFile(ctx, validator, path, FormatJSONL, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "1 valid / 0 invalid" {
		t.Fatalf("unexpected summary: %s", summary)
	}
}

func TestValidateFile_OpenError(t *testing.T) {
	ctx := context.Background()
	validator := NewRequestValidator()

	var out bytes.Buffer
	_, err := ValidateFile(ctx, validator, "no-such-file.json", FormatAuto, &out)
	if err == nil {
		t.Fatalf("expected open error")
	}
}

func TestValidateFile_UnsupportedFormat(t *testing.T) {
	ctx := context.Background()
	validator := NewRequestValidator()

	dir := t.TempDir()
	path := filepath.Join(dir, "one.json")
	_ = os.WriteFile(path, []byte(minimalValidRequestJSON("c-1", "p-1", 1)), 0o600)

	var out bytes.Buffer
	_, err := ValidateFile(ctx, validator, path, InputFormat("yaml"), &out)
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got: %v", err)
	}
}

// ---- функции для тестирования ----

func oneLineJSON(s string) string {
	var b bytes.Buffer
	_ = json.Compact(&b, []byte(s))
	return b.String()
}
