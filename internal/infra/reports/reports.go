// Package reports locates, previews and writes the markdown reports kept in
// the reports directory.
package reports

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FilePrefix and FileExt make up report names: product_hunt_analysis_YYYY-MM-DD.md
const (
	FilePrefix     = "product_hunt_analysis_"
	FileExt        = ".md"
	DefaultPattern = FilePrefix + "*" + FileExt
	EllipsisMarker = "..."
)

// Info describes one report file on disk.
type Info struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// List returns every file in dir matching pattern, newest first. Entries with
// the same modification time are ordered by name, greatest first. A missing
// directory yields an empty list.
func List(dir, pattern string) ([]Info, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad report pattern %q: %w", pattern, err)
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}

	out := make([]Info, 0, len(matches))
	for _, m := range matches {
		st, err := os.Stat(m)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue // removed between glob and stat
			}
			return nil, err
		}
		if st.IsDir() {
			continue
		}
		out = append(out, Info{Name: st.Name(), Path: m, Size: st.Size(), ModTime: st.ModTime()})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].ModTime.After(out[j].ModTime)
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

// Newest returns the most recently modified report. ok is false when no file
// matches.
func Newest(dir, pattern string) (info Info, ok bool, err error) {
	list, err := List(dir, pattern)
	if err != nil || len(list) == 0 {
		return Info{}, false, err
	}
	return list[0], true, nil
}

// Preview returns at most n leading lines of the file.
func Preview(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := make([]string, 0, n)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for len(lines) < n && sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// FileName returns the report file name for a date.
func FileName(date time.Time) string {
	return FilePrefix + date.Format("2006-01-02") + FileExt
}

// Save writes content to dir/FileName(date), creating dir when needed, and
// returns the written path.
func Save(dir string, date time.Time, content []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	path := filepath.Join(dir, FileName(date))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return path, nil
}
