package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// sourceCharset is the encoding reports are expected in
type sourceCharset struct {
	name string
	enc  encoding.Encoding
}

// newSourceCharset resolves a charset label. An empty label means the
// report's own declaration is trusted.
func newSourceCharset(label string) (*sourceCharset, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported source charset %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return nil, fmt.Errorf("unsupported source charset %q: %w", label, err)
	}
	return &sourceCharset{name: name, enc: enc}, nil
}

// wrap decodes r from the configured charset into UTF-8
func (c *sourceCharset) wrap(r io.Reader) io.Reader {
	if c == nil || c.name == "utf-8" {
		return r
	}
	return c.enc.NewDecoder().Reader(r)
}

// overridesUTF8 reports whether a configured non-UTF-8 charset replaces a
// declared encoding of UTF-8. An empty declaration means UTF-8.
func (c *sourceCharset) overridesUTF8(declared string) bool {
	if c == nil || c.name == "utf-8" {
		return false
	}
	if declared == "" {
		return true
	}
	enc, err := htmlindex.Get(declared)
	if err != nil {
		return false
	}
	name, _ := htmlindex.Name(enc)
	return name == "utf-8"
}

// declaredEncoding extracts the encoding pseudo-attribute of an XML declaration
func declaredEncoding(inst []byte) string {
	s := string(inst)
	i := strings.Index(s, "encoding")
	if i < 0 {
		return ""
	}
	s = strings.TrimLeft(s[i+len("encoding"):], " \t\r\n")
	if !strings.HasPrefix(s, "=") {
		return ""
	}
	s = strings.TrimLeft(s[1:], " \t\r\n")
	if s == "" || (s[0] != '"' && s[0] != '\'') {
		return ""
	}
	quote := s[0]
	s = s[1:]
	end := strings.IndexByte(s, quote)
	if end < 0 {
		return ""
	}
	return s[:end]
}

// charsetReader is installed as xml.Decoder.CharsetReader. It is only
// consulted for documents declaring an encoding other than UTF-8.
func (c *sourceCharset) charsetReader(label string, input io.Reader) (io.Reader, error) {
	declared, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported report encoding %q: %w", label, err)
	}
	if c == nil {
		return declared.NewDecoder().Reader(input), nil
	}
	name, _ := htmlindex.Name(declared)
	if name != c.name {
		return nil, fmt.Errorf("report declares encoding %q but the source charset is %q", label, c.name)
	}
	// already decoded by wrap
	return input, nil
}
