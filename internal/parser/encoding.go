package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func isUTF8Label(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8", "unicode-1-1-utf-8":
		return true
	}
	return false
}

// SupportedEncoding reports whether label names an encoding the parser can read.
func SupportedEncoding(label string) bool {
	if isUTF8Label(label) {
		return true
	}
	enc, _ := charset.Lookup(strings.TrimSpace(label))
	return enc != nil
}

// decodeText returns src as UTF-8 text, transcoding it from label when needed.
func decodeText(src []byte, label string) ([]byte, error) {
	if isUTF8Label(label) {
		src = bytes.TrimPrefix(src, utf8BOM)
		if !utf8.Valid(src) {
			return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrEncoding)
		}
		return src, nil
	}

	r, err := charset.NewReaderLabel(strings.TrimSpace(label), bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrEncoding, label, err)
	}
	return out, nil
}
