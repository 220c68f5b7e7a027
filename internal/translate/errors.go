// SPDX-License-Identifier: MIT

package translate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedLanguage is the sentinel for errors.Is checks; callers use
// it to tell a bad request apart from an upstream failure.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// UnsupportedLanguageError reports a language outside the supported set.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %s. Supported languages are: %s",
		e.Language, strings.Join(Supported(), ", "))
}

func (e *UnsupportedLanguageError) Unwrap() error {
	return ErrUnsupportedLanguage
}

// SRTTranslationError wraps any non-validation failure during file
// translation (I/O, parse, upstream).
type SRTTranslationError struct {
	Language string
	Err      error
}

func (e *SRTTranslationError) Error() string {
	return fmt.Sprintf("srt translation error (%s): %v", e.Language, e.Err)
}

func (e *SRTTranslationError) Unwrap() error {
	return e.Err
}
