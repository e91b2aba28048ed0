// Package handlers defines the error codes returned in the ErrorResponse
// envelope. Codes are stable snake_case strings; clients branch on them
// rather than on message text.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "unknown_category",
//	  "message": "unknown kudo category"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeUnknownCategory   = "unknown_category"
	ErrCodeSubmitFailed      = "submit_failed"
	ErrCodeListFailed        = "list_failed"
	ErrCodeIdempotencyReused = "idempotency_key_reused"
)
