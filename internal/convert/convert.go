package convert

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/resistconv/internal/dataset"
	"github.com/dgallion1/resistconv/internal/parser"
	"github.com/dgallion1/resistconv/internal/render"
)

// DefaultInput is where the input document lives relative to the working directory.
const DefaultInput = "../resistance.json"

// Options tune a conversion. The zero value converts UTF-8 input to CSV.
type Options struct {
	Encoding string // Input text encoding label
	Format   string // Output format, see render.ForFormat
}

// Result describes a completed conversion.
type Result struct {
	Rows        int    // Records written, header excluded
	Bytes       int64  // Bytes written to the destination
	Format      string // Canonical output format name
	ContentType string
	Digest      string // SHA-256 of the input bytes, hex
}

// File converts the document at path and writes it to w.
// On failure nothing is written to w and the error is an *Error.
func File(path string, w io.Writer, opts Options) (Result, error) {
	rend, err := renderer(opts)
	if err != nil {
		return Result{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{}, inputError(path, err)
	}
	defer f.Close()

	return convert(f, path, w, rend, opts)
}

// Reader converts a document read from r. name labels the source in errors.
func Reader(r io.Reader, name string, w io.Writer, opts Options) (Result, error) {
	rend, err := renderer(opts)
	if err != nil {
		return Result{}, err
	}
	return convert(r, name, w, rend, opts)
}

// Load reads and parses the document at path without rendering it.
func Load(path string, opts Options) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, inputError(path, err)
	}
	defer f.Close()

	src, err := io.ReadAll(f)
	if err != nil {
		return nil, inputError(path, err)
	}
	return parse(src, path, opts)
}

func renderer(opts Options) (render.Renderer, error) {
	rend, err := render.ForFormat(opts.Format)
	if err != nil {
		return nil, &Error{Code: CodeUnknownFormat, Err: err}
	}
	return rend, nil
}

func parse(src []byte, name string, opts Options) (*dataset.Dataset, error) {
	p := &parser.JSONParser{Encoding: opts.Encoding}
	ds, err := p.Parse(bytes.NewReader(src), name)
	if err != nil {
		return nil, classify(name, err)
	}
	return ds, nil
}

func convert(r io.Reader, name string, w io.Writer, rend render.Renderer, opts Options) (Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Result{}, inputError(name, err)
	}
	ds, err := parse(src, name, opts)
	if err != nil {
		return Result{}, err
	}

	// Render fully before touching w so a failure leaves it untouched.
	var out bytes.Buffer
	if err := rend.Render(&out, ds); err != nil {
		return Result{}, &Error{Code: CodeOutput, Path: name, Err: fmt.Errorf("%w: %w", ErrOutput, err)}
	}
	n, err := out.WriteTo(w)
	if err != nil {
		return Result{}, &Error{Code: CodeOutput, Path: name, Err: fmt.Errorf("%w: %w", ErrOutput, err)}
	}

	sum := sha256.Sum256(src)
	return Result{
		Rows:        ds.Len(),
		Bytes:       n,
		Format:      rend.Name(),
		ContentType: rend.ContentType(),
		Digest:      fmt.Sprintf("%x", sum[:]),
	}, nil
}
