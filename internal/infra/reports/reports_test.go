package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeReport(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("# "+name+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(p, mod, mod); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNewestByModTime(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	writeReport(t, dir, "product_hunt_analysis_2024-01-03.md", base)
	want := writeReport(t, dir, "product_hunt_analysis_2024-01-01.md", base.Add(time.Hour))
	writeReport(t, dir, "unrelated.md", base.Add(2*time.Hour))

	info, ok, err := Newest(dir, DefaultPattern)
	if err != nil || !ok {
		t.Fatalf("Newest: ok=%v err=%v", ok, err)
	}
	if info.Path != want {
		t.Errorf("Newest = %s, want %s", info.Path, want)
	}
}

func TestNewestTieBreaksByName(t *testing.T) {
	dir := t.TempDir()
	same := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	writeReport(t, dir, "product_hunt_analysis_2024-01-01.md", same)
	writeReport(t, dir, "product_hunt_analysis_2024-01-02.md", same)

	for i := 0; i < 3; i++ {
		info, ok, err := Newest(dir, DefaultPattern)
		if err != nil || !ok {
			t.Fatalf("Newest: ok=%v err=%v", ok, err)
		}
		if info.Name != "product_hunt_analysis_2024-01-02.md" {
			t.Fatalf("tie-break picked %s", info.Name)
		}
	}
}

func TestNewestNoMatch(t *testing.T) {
	_, ok, err := Newest(t.TempDir(), DefaultPattern)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no report")
	}

	_, ok, err = Newest(filepath.Join(t.TempDir(), "missing"), DefaultPattern)
	if err != nil || ok {
		t.Fatalf("missing dir: ok=%v err=%v", ok, err)
	}
}

func TestListBadPattern(t *testing.T) {
	if _, err := List(t.TempDir(), "[unclosed"); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	p := filepath.Join(dir, "r.md")
	if err := os.WriteFile(p, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want int
	}{
		{20, 20},
		{5, 5},
		{100, 30},
	}
	for _, tt := range tests {
		lines, err := Preview(p, tt.n)
		if err != nil {
			t.Fatalf("Preview(%d): %v", tt.n, err)
		}
		if len(lines) != tt.want {
			t.Errorf("Preview(%d) returned %d lines, want %d", tt.n, len(lines), tt.want)
		}
		if lines[0] != "line 1" {
			t.Errorf("first line = %q", lines[0])
		}
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	path, err := Save(dir, date, []byte("# report\n"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "product_hunt_analysis_2024-01-01.md" {
		t.Errorf("path = %s", path)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
	info, ok, _ := Newest(dir, DefaultPattern)
	if !ok || info.Path != path {
		t.Errorf("saved report not found by Newest: %+v", info)
	}
}
