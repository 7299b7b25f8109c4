// Package frontmatter reads and writes markdown documents that open with a
// YAML block between --- lines.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoOpening = errors.New("frontmatter: missing opening --- delimiter")
	ErrNoClosing = errors.New("frontmatter: missing closing --- delimiter")
)

const delim = "---\n"

// Parse splits data into the raw YAML block and the body that follows it.
// Windows line endings are normalised first.
func Parse(data []byte) (meta []byte, body []byte, err error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte(delim)) {
		return nil, nil, ErrNoOpening
	}
	rest := data[len(delim):]
	if bytes.HasPrefix(rest, []byte(delim)) {
		return nil, rest[len(delim):], nil
	}
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-4], nil, nil
		}
		return nil, nil, ErrNoClosing
	}
	return rest[:idx+1], rest[idx+1+len(delim):], nil
}

// Decode parses data and unmarshals the YAML block into v.
func Decode(data []byte, v any) (body []byte, err error) {
	meta, body, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(meta, v); err != nil {
		return nil, fmt.Errorf("frontmatter: unmarshal: %w", err)
	}
	return body, nil
}

// Write marshals v as the YAML block and appends body.
func Write(v any, body string) ([]byte, error) {
	meta, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: marshal: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(delim)
	buf.Write(meta)
	buf.WriteString(delim)
	buf.WriteString(body)
	return buf.Bytes(), nil
}
