// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package errs provides the shared BatchError type used across bulk
// operations (indexing, incremental cache apply) that must keep going after
// an individual item fails and report every failure together.
package errs

import "fmt"

// BatchError aggregates the errors collected from a batch operation where
// partial failure does not abort the whole batch.
type BatchError struct {
	Errors []error
}

// Error summarizes the batch: the lone error verbatim for a single failure,
// or a count-plus-first-error summary for multiple.
func (e *BatchError) Error() string {
	if len(e.Errors) == 0 {
		return "batch error with no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v (and %d more)", len(e.Errors), e.Errors[0], len(e.Errors)-1)
}

// Unwrap returns the underlying errors for errors.Is/errors.As (Go 1.20+
// multi-error unwrapping).
func (e *BatchError) Unwrap() []error {
	return e.Errors
}

// ErrOrNil returns nil if Errors is empty, else e.
func (e *BatchError) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}
