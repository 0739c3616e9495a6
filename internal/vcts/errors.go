package vcts

import (
	"errors"
	"fmt"
)

// Sentinel errors for the Git{...} taxonomy of spec.md §7. git.go wraps
// subprocess failures in *GitError (matching ErrInvalidOperation) and merge
// conflicts in *MergeConflictError (matching ErrMergeConflict); session.go
// returns those to callers unchanged.
var (
	ErrInvalidOperation = errors.New("vcts: invalid git operation")
	ErrMergeConflict    = errors.New("vcts: merge conflict")
	ErrLockTimeout      = errors.New("vcts: lock timeout")
	ErrSessionNotFound  = errors.New("vcts: session not found")
	ErrReviewNotFound   = errors.New("vcts: review not found")
)

// MergeConflictError carries the paths that conflicted, per spec.md §4.B's
// "approve" contract: merge conflicts are never silently resolved.
type MergeConflictError struct {
	Files []string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("%v: %d file(s): %v", ErrMergeConflict, len(e.Files), e.Files)
}

func (e *MergeConflictError) Unwrap() error { return ErrMergeConflict }

// GitError wraps a failure from the underlying git subprocess with the
// operation that triggered it.
type GitError struct {
	Op  string
	Err error
}

func (e *GitError) Error() string { return fmt.Sprintf("vcts: git %s: %v", e.Op, e.Err) }
func (e *GitError) Unwrap() error { return e.Err }

func wrapGit(op string, err error) error {
	if err == nil {
		return nil
	}
	return &GitError{Op: op, Err: fmt.Errorf("%w: %v", ErrInvalidOperation, err)}
}
