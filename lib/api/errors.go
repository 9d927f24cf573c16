// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
)

// Error is a structured error response from the gateway. Callers can use
// errors.As to extract it:
//
//	var apiErr *api.Error
//	if errors.As(err, &apiErr) {
//	    if apiErr.StatusCode == http.StatusUnauthorized { ... }
//	}
type Error struct {
	// Message is the human-readable description from the server's
	// "error" response field.
	Message string `json:"error"`
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether err is a gateway rejection of the caller's
// credential (401/403). Auth errors force a logout; everything else is
// recoverable by retrying the triggering action.
func IsAuthError(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}
