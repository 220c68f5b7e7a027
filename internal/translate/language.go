// SPDX-License-Identifier: MIT

package translate

import (
	"sort"
	"strings"
)

// languageCodes maps supported language names and codes to ISO 639-1 codes.
// The set is closed: requests are validated against it before any network
// call is made.
var languageCodes = map[string]string{
	"french":  "fr",
	"spanish": "es",
	"german":  "de",
	"fr":      "fr",
	"es":      "es",
	"de":      "de",
}

// Code resolves a language name or code to its ISO 639-1 code. Matching is
// case-insensitive and whitespace-tolerant.
func Code(language string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(language))
	code, ok := languageCodes[normalized]
	if !ok {
		return "", &UnsupportedLanguageError{Language: language}
	}
	return code, nil
}

// Supported returns the sorted set of accepted language tokens.
func Supported() []string {
	out := make([]string, 0, len(languageCodes))
	for name := range languageCodes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
