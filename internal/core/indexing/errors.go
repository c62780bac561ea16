package indexing

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies terminal pipeline failures. Extraction and per-chunk
// embedding failures are recovered locally and never surface as a Kind on
// their own.
type Kind int

const (
	// KindUnauthorized: bad or missing credential. No side effects.
	KindUnauthorized Kind = iota
	// KindNotFound: unknown queue item.
	KindNotFound
	// KindStateConflict: document not in an indexable state; the caller
	// should wait for parsing or trigger a re-parse.
	KindStateConflict
	// KindNoContent: nothing to index after every content source failed.
	KindNoContent
	// KindEmbeddingFailed: every chunk failed to embed.
	KindEmbeddingFailed
	// KindPersistence: the index write failed; document status unchanged,
	// so a retry is safe.
	KindPersistence
	// KindInternal: unexpected failure outside the classes above, including
	// a document whose owning organization cannot be resolved.
	KindInternal
)

// HTTPStatus maps the failure class to its response code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindStateConflict:
		return http.StatusConflict
	case KindNoContent:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified pipeline failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// ClassifyHTTP returns the status code and caller-safe message for err.
// Unclassified errors are reported as a generic 500.
func ClassifyHTTP(err error) (int, string) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.HTTPStatus(), e.Msg
	}
	return http.StatusInternalServerError, "internal error"
}
