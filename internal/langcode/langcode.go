// Package langcode provides the shared language-code type used across
// TradocFlow's content, translation-memory, and editing subsystems.
package langcode

import (
	"errors"
	"strings"
)

// Code identifies a language by its BCP-47-ish tag (e.g. "en", "es", "pt-BR").
// TradocFlow does not validate against the full IANA subtag registry; it
// only enforces the shape a project config can reasonably declare.
type Code string

// ErrUnsupportedLanguage is returned when a Code is not among a project's
// declared set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ErrInvalidCode is returned when a Code is malformed (empty, or containing
// characters outside ASCII letters/digits/hyphen).
var ErrInvalidCode = errors.New("invalid language code")

// Valid reports whether c is syntactically well formed. It does not check
// membership in any project's supported set — use a Set for that.
func (c Code) Valid() bool {
	if c == "" {
		return false
	}
	for _, r := range string(c) {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

// Normalize lower-cases the code for use as a map key or index, while
// preserving the original case in any user-facing field.
func (c Code) Normalize() Code {
	return Code(strings.ToLower(string(c)))
}

// Set is a declared collection of supported languages for a project.
type Set map[Code]bool

// NewSet builds a Set from a slice, normalizing each entry.
func NewSet(codes ...Code) Set {
	s := make(Set, len(codes))
	for _, c := range codes {
		s[c.Normalize()] = true
	}
	return s
}

// Contains reports whether c (after normalization) is a member of the set.
func (s Set) Contains(c Code) bool {
	return s[c.Normalize()]
}

// Require returns ErrUnsupportedLanguage wrapped with the offending code if
// c is not a member of s, and ErrInvalidCode if c is malformed.
func (s Set) Require(c Code) error {
	if !c.Valid() {
		return ErrInvalidCode
	}
	if !s.Contains(c) {
		return ErrUnsupportedLanguage
	}
	return nil
}
