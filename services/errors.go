package services

import "fmt"

// ValidationError marks bad or missing input detected before any remote side
// effect: empty query, no files, a non-PDF upload.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a reference to a session that does not exist.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// UpstreamError wraps a failure of one of the external collaborators, tagged
// by which service failed.
type UpstreamError struct {
	Service string // "parser", "embedder", "index", "generator", "storage"
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service error: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstreamError(service string, err error) *UpstreamError {
	return &UpstreamError{Service: service, Err: err}
}

// IngestionError marks a mid-pipeline failure that triggered rollback of the
// session's partial side effects.
type IngestionError struct {
	Stage string
	Err   error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion failed at %s: %v", e.Stage, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }
