package content

import "errors"

// Errors returned by Validate, the Builder, and the TOML read/write path.
// Checked with errors.Is by callers; §7 classifies these as Input errors.
var (
	ErrInvalidSchema        = errors.New("content: invalid schema")
	ErrMissingSourceLanguage = errors.New("content: missing source language title")
	ErrPositionConflict     = errors.New("content: position conflict")
	ErrDuplicateSlug        = errors.New("content: duplicate slug")
	ErrUndeclaredLanguage   = errors.New("content: translation language not declared")
)
