// Package reader streams .CAT files as bounded chunks of decoded lines.
package reader

import (
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/catflow/catflow/pkg/errors"
)

// Encoding identifies the character encoding of an input file.
type Encoding uint8

const (
	// EncodingWindows1252 is the default for cadastral exchange files.
	EncodingWindows1252 Encoding = iota
	EncodingLatin1
	EncodingUTF8
)

func (e Encoding) String() string {
	names := []string{"cp1252", "latin1", "utf-8"}
	if int(e) < len(names) {
		return names[e]
	}
	return "unknown"
}

// ParseEncoding parses an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "", "cp1252", "windows-1252", "windows1252":
		return EncodingWindows1252, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	default:
		return EncodingWindows1252, errors.New(errors.CodeEncodingError, "unknown encoding").
			WithContext("encoding", s)
	}
}

// NewReader wraps r so its content is decoded to UTF-8. Malformed byte
// sequences become U+FFFD instead of aborting the read; source files are
// not guaranteed byte-clean.
func (e Encoding) NewReader(r io.Reader) io.Reader {
	switch e {
	case EncodingLatin1:
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case EncodingUTF8:
		return transform.NewReader(r, unicode.UTF8.NewDecoder())
	default:
		return transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}
}
