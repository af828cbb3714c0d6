// Package httpjson holds the JSON request/response helpers shared by the HTTP
// handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Write serializes v with the given status. Encoding failures after the
// header is written cannot be reported to the client; they are dropped.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode reads a single JSON value from the request body into dst, rejecting
// unknown fields, oversized bodies, and trailing data.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after JSON object")
	}
	return nil
}

// BadRequest writes a 400 with a short reason. Validation failures are the
// caller's mistake, not part of the typed error taxonomy.
func BadRequest(w http.ResponseWriter, msg string) {
	Write(w, http.StatusBadRequest, map[string]string{
		"message":    msg,
		"error_code": "BAD_REQUEST",
	})
}
