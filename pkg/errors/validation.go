package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates a file path supplied by a user for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// attributeKeyRegex matches attribute keys such as "@temperature" or "@allocatedTask".
var attributeKeyRegex = regexp.MustCompile(`^@[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateAttributeKey validates a configuration attribute key.
// Keys mirror the architecture attribute names and always start with '@'.
func ValidateAttributeKey(key string) error {
	if key == "" {
		return New(ErrCodeConfiguration, "attribute key cannot be empty")
	}
	if len(key) > 64 {
		return New(ErrCodeConfiguration, "attribute key too long (max 64 characters): %q", key)
	}
	if !attributeKeyRegex.MatchString(key) {
		return New(ErrCodeConfiguration, "invalid attribute key: %q", key)
	}
	return nil
}

// ValidateColour validates a colour value that will be spliced into CSS.
// Any CSS colour syntax is accepted as long as it cannot terminate the rule
// or the surrounding markup.
func ValidateColour(colour string) error {
	if strings.TrimSpace(colour) == "" {
		return New(ErrCodeConfiguration, "colour cannot be empty")
	}
	if len(colour) > 64 {
		return New(ErrCodeConfiguration, "colour too long (max 64 characters): %q", colour)
	}
	if strings.ContainsAny(colour, ";{}<>&\"'\\") {
		return New(ErrCodeConfiguration, "colour contains invalid characters: %q", colour)
	}
	for _, r := range colour {
		if unicode.IsControl(r) {
			return New(ErrCodeConfiguration, "colour contains control characters: %q", colour)
		}
	}
	return nil
}

// algorithmRegex matches routing algorithm names such as "RowFirst".
var algorithmRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,63}$`)

// ValidateAlgorithm validates a routing algorithm name.
func ValidateAlgorithm(name string) error {
	if name == "" {
		return New(ErrCodeConfiguration, "routing algorithm cannot be empty")
	}
	if !algorithmRegex.MatchString(name) {
		return New(ErrCodeConfiguration, "invalid routing algorithm name: %q", name)
	}
	return nil
}
