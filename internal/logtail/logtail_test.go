package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "zero", maxLines: 0, expected: nil},
		{name: "negative", maxLines: -1, expected: nil},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	line := `{"time":"2026-03-01T18:30:00.5Z","level":"ERROR","msg":"queue reload failed","error":"api GET /api/queue returned status 500","attempt":2,"ok":false}`
	rec := Parse(line)

	if rec.Level != "ERROR" || rec.Message != "queue reload failed" {
		t.Fatalf("Parse level/msg = %q/%q", rec.Level, rec.Message)
	}
	want := time.Date(2026, 3, 1, 18, 30, 0, 500_000_000, time.UTC)
	if !rec.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", rec.Time, want)
	}
	wantAttrs := []Attr{
		{Key: "attempt", Value: "2"},
		{Key: "error", Value: "api GET /api/queue returned status 500"},
		{Key: "ok", Value: "false"},
	}
	if !reflect.DeepEqual(rec.Attrs, wantAttrs) {
		t.Fatalf("Attrs = %+v, want %+v", rec.Attrs, wantAttrs)
	}
	if rec.Raw != line {
		t.Fatalf("Raw not preserved")
	}
}

func TestParse_PlainLine(t *testing.T) {
	rec := Parse("panic: something odd")
	if rec.Level != "" || rec.Message != "panic: something odd" || len(rec.Attrs) != 0 {
		t.Fatalf("Parse(plain) = %+v", rec)
	}
	if broken := Parse(`{"msg": `); broken.Message != `{"msg": ` {
		t.Fatalf("Parse(broken json) = %+v", broken)
	}
}

func TestReadRecordsAndAtLeast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maitre.log")
	body := strings.Join([]string{
		`{"time":"2026-03-01T18:30:00Z","level":"DEBUG","msg":"api request"}`,
		``,
		`{"time":"2026-03-01T18:30:01Z","level":"INFO","msg":"customer added"}`,
		`{"time":"2026-03-01T18:30:02Z","level":"WARN","msg":"wait prediction unavailable"}`,
		`stray`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	records, err := ReadRecords(path, 10)
	if err != nil {
		t.Fatalf("ReadRecords returned error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("ReadRecords returned %d records, want 4 (blank skipped)", len(records))
	}

	var kept []string
	for _, r := range records {
		if r.AtLeast("info") {
			kept = append(kept, r.Message)
		}
	}
	want := []string{"customer added", "wait prediction unavailable", "stray"}
	if !reflect.DeepEqual(kept, want) {
		t.Fatalf("AtLeast(info) kept %v, want %v", kept, want)
	}
}
