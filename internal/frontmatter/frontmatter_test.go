package frontmatter

import (
	"errors"
	"testing"
)

type meta struct {
	Date     string `yaml:"date"`
	Products int    `yaml:"products"`
}

func TestWriteDecode(t *testing.T) {
	body := "# Product Hunt Daily\n\n---\n\nfooter\n"
	data, err := Write(meta{Date: "2024-01-01", Products: 3}, body)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got meta
	rest, err := Decode(data, &got)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Date != "2024-01-01" || got.Products != 3 {
		t.Errorf("meta = %+v", got)
	}
	if string(rest) != body {
		t.Errorf("body = %q, want %q", rest, body)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		meta    string
		body    string
		wantErr error
	}{
		{"crlf", "---\r\nx: 1\r\n---\r\nhello\r\n", "x: 1\n", "hello\n", nil},
		{"empty block", "---\n---\nbody", "", "body", nil},
		{"no body", "---\nx: 1\n---", "x: 1", "", nil},
		{"missing open", "# title", "", "", ErrNoOpening},
		{"missing close", "---\nx: 1\n", "", "", ErrNoClosing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, b, err := Parse([]byte(tt.in))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if string(m) != tt.meta || string(b) != tt.body {
				t.Errorf("got (%q, %q), want (%q, %q)", m, b, tt.meta, tt.body)
			}
		})
	}
}
