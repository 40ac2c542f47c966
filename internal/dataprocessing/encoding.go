package dataprocessing

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LookupEncoding resolves a configured encoding name.
// An empty name selects Latin-1, the encoding of the PRF exports.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "utf-8", "utf8":
		return unicode.UTF8, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// decodingReader wraps r so that it yields UTF-8.
// A leading UTF-8 byte order mark overrides the configured encoding.
func decodingReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil {
		enc = charmap.ISO8859_1
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder()))
}
