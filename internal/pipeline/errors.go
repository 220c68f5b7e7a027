// SPDX-License-Identifier: MIT

package pipeline

// ValidationError reports a malformed processing request. Handlers map it
// to a 400 response; anything else is a pipeline failure.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
