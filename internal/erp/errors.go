package erp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sentinel errors mapped from backend responses.
var (
	ErrUnauthorized = errors.New("erp: unauthorized")
	ErrForbidden    = errors.New("erp: forbidden")
	ErrNotFound     = errors.New("erp: not found")
	ErrValidation   = errors.New("erp: validation failed")
	ErrUnavailable  = errors.New("erp: backend unavailable")
)

// Problem mirrors the RFC7807 body the backend emits on errors.
type Problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (p Problem) message() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// decodeError maps a non-2xx response to a sentinel-wrapped error. The body
// is read fully so the connection can be reused.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	var p Problem
	_ = json.Unmarshal(body, &p)

	sentinel := ErrUnavailable
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		sentinel = ErrValidation
	}
	if msg := p.message(); msg != "" {
		return fmt.Errorf("%w: %s", sentinel, msg)
	}
	return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
}
