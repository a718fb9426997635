// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package api

// Error codes returned in the "code" member of error responses.
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeStore          = "STORE_ERROR"
	ErrCodeUpload         = "UPLOAD_ERROR"
	ErrCodeTooLarge       = "PAYLOAD_TOO_LARGE"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeUnavailable    = "SERVICE_UNAVAILABLE"
)
