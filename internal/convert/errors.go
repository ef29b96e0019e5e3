package convert

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgallion1/resistconv/internal/parser"
	"github.com/dgallion1/resistconv/internal/render"
)

// Stable error codes, one per failure class.
const (
	CodeInputAccess       = "input_access"
	CodeEncoding          = "encoding"
	CodeMalformedDocument = "malformed_document"
	CodeMalformedRecord   = "malformed_record"
	CodeUnknownFormat     = "unknown_format"
	CodeOutput            = "output"
)

var (
	// ErrInputAccess means the input could not be opened or read.
	ErrInputAccess = errors.New("input not accessible")
	// ErrOutput means the converted text could not be written.
	ErrOutput = errors.New("output failed")

	ErrEncoding          = parser.ErrEncoding
	ErrMalformedDocument = parser.ErrMalformedDocument
	ErrMalformedRecord   = parser.ErrMalformedRecord
	ErrUnknownFormat     = render.ErrUnknownFormat
)

// Error is a conversion failure tagged with its code and input path.
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns the code of a conversion error, or "" if err is not one.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// classify tags an error from the parse stage with its failure class.
// Anything the parser did not name is a read failure.
func classify(path string, err error) *Error {
	switch {
	case errors.Is(err, ErrEncoding):
		return &Error{Code: CodeEncoding, Path: path, Err: err}
	case errors.Is(err, ErrMalformedRecord):
		return &Error{Code: CodeMalformedRecord, Path: path, Err: err}
	case errors.Is(err, ErrMalformedDocument):
		return &Error{Code: CodeMalformedDocument, Path: path, Err: err}
	default:
		return inputError(path, err)
	}
}

func inputError(path string, err error) *Error {
	var perr *os.PathError
	if errors.As(err, &perr) {
		// PathError already names the file.
		path = ""
	}
	return &Error{Code: CodeInputAccess, Path: path, Err: fmt.Errorf("%w: %w", ErrInputAccess, err)}
}
