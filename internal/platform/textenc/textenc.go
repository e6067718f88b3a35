// Package textenc converts generated trigger text to the code pages map
// editors read.
package textenc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
)

// Names accepted by Lookup.
const (
	UTF8        = "utf-8"
	Windows1252 = "windows-1252"
	Windows949  = "windows-949"
)

// Lookup resolves an encoding name. Empty means UTF-8.
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", UTF8, "utf8":
		return unicode.UTF8, nil
	case Windows1252, "cp1252":
		return charmap.Windows1252, nil
	case Windows949, "cp949", "euc-kr":
		return korean.EUCKR, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// NewWriter wraps w so text written to it is encoded with enc. Characters
// the code page cannot represent are an error rather than silently replaced,
// since a mangled location name breaks the trigger.
func NewWriter(w io.Writer, enc encoding.Encoding) io.Writer {
	if enc == unicode.UTF8 {
		return w
	}
	return enc.NewEncoder().Writer(w)
}

// Encode converts text with enc.
func Encode(text string, enc encoding.Encoding) ([]byte, error) {
	if enc == unicode.UTF8 {
		return []byte(text), nil
	}
	out, err := enc.NewEncoder().String(text)
	if err != nil {
		return nil, fmt.Errorf("encode text: %w", err)
	}
	return []byte(out), nil
}
