// Package vcts is the version-controlled translation store: Git used as a
// content-addressed append-only log, with every operation expressed in
// domain vocabulary (sessions, auto-save, review). Branch names and commit
// hashes still reach callers as opaque values (Session.Branch,
// ReviewRequest.Branch, HistoryEntry.CommitHash, the refs passed to Diff).
// Git failures are returned as errors matching ErrInvalidOperation (mostly
// *GitError) or as *MergeConflictError; errors from reading or writing the
// chapter and mirror files are returned as the file layer reports them.
package vcts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tradocflow/tradocflow/internal/content"
	"github.com/tradocflow/tradocflow/internal/langcode"
)

// Store is the VCTS entry point, bound to one project's Git working tree.
type Store struct {
	root string
	repo *repo
}

// Open wraps an existing Git repository at root as a Store. The repository
// must already exist (vcts does not provision a project from scratch).
func Open(root string) (*Store, error) {
	r := newRepo(root)
	if !r.isRepo() {
		return nil, fmt.Errorf("%w: %s is not a git repository", ErrInvalidOperation, root)
	}
	return &Store{root: root, repo: r}, nil
}

// ReviewStatus is the lifecycle state of a ReviewRequest.
type ReviewStatus string

const (
	ReviewPending         ReviewStatus = "pending"
	ReviewChangesRequested ReviewStatus = "changes_requested"
	ReviewApproved        ReviewStatus = "approved"
)

// Session is a time-bounded branch of work by one translator on one
// (chapter, language) pair (GLOSSARY).
type Session struct {
	ID           string
	Branch       string
	Chapter      string
	Language     langcode.Code
	User         string
	MarkdownPath string
	StartedAt    time.Time
}

// ReviewRequest tracks a session's submission for review.
type ReviewRequest struct {
	ID          string
	Branch      string
	Chapter     string
	Language    langcode.Code
	Translator  string
	Status      ReviewStatus
	Description string
}

// BranchInfo is one entry from ListActiveSessions: a session branch parsed
// back into its (chapter, language, session id) components.
type BranchInfo struct {
	Branch    string
	Chapter   string
	Language  langcode.Code
	SessionID string
}

var branchPattern = regexp.MustCompile(`^translate/([^/]+)/([^/]+)/([0-9a-fA-F-]+)$`)

func sessionBranch(chapter string, lang langcode.Code, sessionID string) string {
	return fmt.Sprintf("translate/%s/%s/%s", chapter, lang, sessionID)
}

func chapterPath(root, slug string) string {
	return filepath.Join(root, "content", "chapters", slug+".toml")
}

func markdownPath(root string, lang langcode.Code, slug string) string {
	return filepath.Join(root, "generated", "markdown", string(lang), slug+".md")
}

// commitMessage renders the stable commit-message grammar of spec.md §6.1.
func commitMessage(typ, scope, subject, body, chapter string, lang langcode.Code, sessionID, user string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s): %s\n\n", typ, scope, subject)
	if body != "" {
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Chapter: %s\nLanguage: %s\nSession: %s\nUser: %s\n", chapter, lang, sessionID, user)
	return b.String()
}

// StartSession creates a branch named translate/<chapter>/<language>/<session-uuid>
// from the current default-branch head, and records a session-start commit.
func (s *Store) StartSession(chapter string, lang langcode.Code, user string) (*Session, error) {
	base, err := s.repo.currentBranch()
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	branch := sessionBranch(chapter, lang, id)
	if err := s.repo.createBranch(branch, base); err != nil {
		return nil, err
	}
	if err := s.repo.checkout(branch); err != nil {
		return nil, err
	}

	msg := commitMessage("session", chapter, fmt.Sprintf("start %s session", lang), "", chapter, lang, id, user)
	if _, err := s.repo.commit(msg, user); err != nil {
		return nil, err
	}

	return &Session{
		ID:           id,
		Branch:       branch,
		Chapter:      chapter,
		Language:     lang,
		User:         user,
		MarkdownPath: markdownPath(s.root, lang, chapter),
		StartedAt:    time.Now().UTC(),
	}, nil
}

// AutoSave parses markdown into units (§4.B.1), writes the chapter TOML,
// mirrors the markdown file, and commits. If markdown has the same content
// hash as the mirror committed at the session branch head, AutoSave writes
// and commits nothing (idempotent).
func (s *Store) AutoSave(sess *Session, markdown string) error {
	if err := s.repo.checkout(sess.Branch); err != nil {
		return err
	}
	mirror := "generated/markdown/" + string(sess.Language) + "/" + sess.Chapter + ".md"
	if prev, ok, err := s.repo.showFile("HEAD", mirror); err == nil && ok && contentHash(prev) == contentHash(markdown) {
		return nil
	}

	cpath := chapterPath(s.root, sess.Chapter)
	chapter, err := content.ReadChapter(cpath)
	if err != nil {
		return err
	}

	ApplyMarkdown(chapter, sess.Language, markdown)
	chapter.UpdatedAt = time.Now().UTC()

	if err := content.WriteChapter(cpath, chapter); err != nil {
		return err
	}
	mpath := markdownPath(s.root, sess.Language, sess.Chapter)
	if err := writeMirror(mpath, markdown); err != nil {
		return err
	}

	hash := contentHash(markdown)
	msg := commitMessage("autosave", sess.Chapter,
		fmt.Sprintf("auto-save %s (%s)", sess.Chapter, hash[:8]),
		"", sess.Chapter, sess.Language, sess.ID, sess.User)
	_, err = s.repo.commit(msg, sess.User)
	return err
}

func contentHash(markdown string) string {
	sum := sha256.Sum256([]byte(markdown))
	return hex.EncodeToString(sum[:])
}

// SubmitForReview creates a completion commit on the session branch and
// returns a pending ReviewRequest. It does not itself merge anything.
func (s *Store) SubmitForReview(sess *Session, description string) (*ReviewRequest, error) {
	if err := s.repo.checkout(sess.Branch); err != nil {
		return nil, err
	}
	msg := commitMessage("submit", sess.Chapter, "submit for review", description,
		sess.Chapter, sess.Language, sess.ID, sess.User)
	if _, err := s.repo.commit(msg, sess.User); err != nil {
		return nil, err
	}
	return &ReviewRequest{
		ID:          sess.ID,
		Branch:      sess.Branch,
		Chapter:     sess.Chapter,
		Language:    sess.Language,
		Translator:  sess.User,
		Status:      ReviewPending,
		Description: description,
	}, nil
}

// Approve merges the review's session branch into base, always recording a
// merge commit with the approval message (never a fast-forward), and
// deletes the session branch. It
// returns a *MergeConflictError without mutating base if the merge would
// conflict — never attempting silent auto-resolution.
func (s *Store) Approve(review *ReviewRequest, base, reviewer string) error {
	if err := s.repo.checkout(base); err != nil {
		return err
	}
	msg := commitMessage("approve", review.Chapter,
		fmt.Sprintf("approve %s/%s", review.Chapter, review.Language), "",
		review.Chapter, review.Language, review.ID, reviewer)
	if err := s.repo.merge(review.Branch, msg, reviewer); err != nil {
		return err
	}
	review.Status = ReviewApproved
	return s.repo.deleteBranch(review.Branch)
}

// RequestChanges appends a feedback commit on the session branch without
// merging or deleting it.
func (s *Store) RequestChanges(review *ReviewRequest, reviewer, feedback string) error {
	if err := s.repo.checkout(review.Branch); err != nil {
		return err
	}
	msg := commitMessage("feedback", review.Chapter, "request changes", feedback,
		review.Chapter, review.Language, review.ID, reviewer)
	if _, err := s.repo.commit(msg, reviewer); err != nil {
		return err
	}
	review.Status = ReviewChangesRequested
	return nil
}

// ListActiveSessions enumerates branches matching the session naming
// scheme and parses each back into (chapter, language, session id).
func (s *Store) ListActiveSessions() ([]BranchInfo, error) {
	branches, err := s.repo.listBranches()
	if err != nil {
		return nil, err
	}
	var infos []BranchInfo
	for _, b := range branches {
		m := branchPattern.FindStringSubmatch(b)
		if m == nil {
			continue
		}
		infos = append(infos, BranchInfo{
			Branch:    b,
			Chapter:   m[1],
			Language:  langcode.Code(m[2]),
			SessionID: m[3],
		})
	}
	return infos, nil
}
