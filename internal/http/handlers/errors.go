// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are mapped to HTTP responses via the fail() helper
// and give clients a stable, machine-readable taxonomy alongside the
// human-readable message.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless noted.
//   - Generic codes (bad_request, not_found, conflict, ...) mirror common
//     HTTP status semantics.
//   - Domain-specific codes cover business failures status alone cannot
//     convey (invalid_range, duplicate_record, terminal_status).
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeInvalidRange     = "invalid_range"
	ErrCodeDuplicateRecord  = "duplicate_record"
	ErrCodeTerminalStatus   = "terminal_status"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
