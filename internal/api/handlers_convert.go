package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/resistconv/internal/convert"
)

// handleResistance converts the configured input file on every request.
func (s *Server) handleResistance(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	res, err := s.timed(func() (convert.Result, error) {
		return convert.File(s.cfg.InputPath, &buf, s.options(r))
	})
	if err != nil {
		s.conversionError(w, r, err)
		return
	}

	etag := `"` + res.Digest + `"`
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeResult(w, res, buf.Bytes())
}

// handleConvert converts the request body.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body exceeds max size", "too_large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read request body", "bad_request", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	res, err := s.timed(func() (convert.Result, error) {
		return convert.Reader(bytes.NewReader(data), "request body", &buf, s.options(r))
	})
	if err != nil {
		s.conversionError(w, r, err)
		return
	}
	writeResult(w, res, buf.Bytes())
}

func (s *Server) options(r *http.Request) convert.Options {
	return convert.Options{
		Encoding: s.cfg.InputEncoding,
		Format:   r.URL.Query().Get("format"),
	}
}

// timed runs one conversion and records it in the stats window.
func (s *Server) timed(fn func() (convert.Result, error)) (convert.Result, error) {
	start := time.Now()
	res, err := fn()
	s.stats.Record(time.Since(start).Milliseconds(), err == nil)
	return res, err
}

func (s *Server) conversionError(w http.ResponseWriter, r *http.Request, err error) {
	code := convert.Code(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.log.Error("conversion failed", "path", r.URL.Path, "code", code, "error", err)
	} else {
		s.log.Warn("conversion rejected", "path", r.URL.Path, "code", code, "error", err)
	}
	jsonError(w, err.Error(), code, status)
}

func statusFor(code string) int {
	switch code {
	case convert.CodeInputAccess:
		return http.StatusNotFound
	case convert.CodeEncoding, convert.CodeMalformedDocument, convert.CodeMalformedRecord:
		return http.StatusUnprocessableEntity
	case convert.CodeUnknownFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeResult(w http.ResponseWriter, res convert.Result, body []byte) {
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("X-Record-Count", strconv.Itoa(res.Rows))
	w.Write(body)
}

// etagMatches implements the weak comparison of If-None-Match.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

func jsonError(w http.ResponseWriter, msg, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}
