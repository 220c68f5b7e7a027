// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldProcessID = "process_id"

	// Pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldStage     = "stage"
	FieldLanguage  = "language"

	// Path fields
	FieldPath     = "path"
	FieldFilename = "filename"
)
