package vcts

import (
	"regexp"

	"github.com/tradocflow/tradocflow/internal/content"
	"github.com/tradocflow/tradocflow/internal/langcode"
)

// WorkflowStatus is the review lifecycle state of one (chapter, language)
// pair, derived on demand from session branches and committed content
// rather than stored redundantly alongside Session/ReviewRequest.
type WorkflowStatus string

const (
	WorkflowNotStarted     WorkflowStatus = "not_started"
	WorkflowInProgress     WorkflowStatus = "in_progress"
	WorkflowReadyForReview WorkflowStatus = "ready_for_review"
	WorkflowInReview       WorkflowStatus = "in_review"
	WorkflowApproved       WorkflowStatus = "approved"
	WorkflowRejected       WorkflowStatus = "rejected"
)

var commitTypePattern = regexp.MustCompile(`^(\w+)\(`)

// WorkflowStatus computes the status of chapter/lang. With an active
// session branch, the branch's own commit trail decides the answer: a
// "feedback" commit (RequestChanges) means Rejected, a "submit" commit
// (SubmitForReview) means InReview, otherwise the branch's committed
// content decides between InProgress and ReadyForReview. With no active
// session, status comes from whatever was last merged to the checked-out
// branch: Approved if the highest status any unit reached for lang (see
// latestStatus) is content.StatusApproved, NotStarted if lang was never
// translated at all,
// InProgress otherwise.
func (s *Store) WorkflowStatus(chapter string, lang langcode.Code) (WorkflowStatus, error) {
	sessions, err := s.ListActiveSessions()
	if err != nil {
		return "", err
	}

	var branch string
	for _, si := range sessions {
		if si.Chapter == chapter && si.Language.Normalize() == lang.Normalize() {
			branch = si.Branch
		}
	}

	if branch != "" {
		return s.branchWorkflowStatus(branch, chapter, lang)
	}

	head, err := s.repo.currentBranch()
	if err != nil {
		return "", err
	}
	chapterData, ok, err := s.loadChapter(head, chapter)
	if err != nil {
		return "", err
	}
	if !ok {
		return WorkflowNotStarted, nil
	}
	status, found := latestStatus(chapterData, lang)
	if !found {
		return WorkflowNotStarted, nil
	}
	if status == content.StatusApproved {
		return WorkflowApproved, nil
	}
	return WorkflowInProgress, nil
}

func (s *Store) branchWorkflowStatus(branch, chapter string, lang langcode.Code) (WorkflowStatus, error) {
	entries, err := s.repo.log(branch, "", 0)
	if err != nil {
		return "", err
	}
	switch latestCommitType(entries) {
	case "feedback":
		return WorkflowRejected, nil
	case "submit":
		return WorkflowInReview, nil
	}

	chapterData, ok, err := s.loadChapter(branch, chapter)
	if err != nil {
		return "", err
	}
	if !ok {
		return WorkflowInProgress, nil
	}
	status, found := latestStatus(chapterData, lang)
	if found && status.Rank() >= content.StatusCompleted.Rank() {
		return WorkflowReadyForReview, nil
	}
	return WorkflowInProgress, nil
}

func (s *Store) loadChapter(ref, chapter string) (*content.ChapterData, bool, error) {
	data, ok, err := s.repo.showFile(ref, "content/chapters/"+chapter+".toml")
	if err != nil || !ok {
		return nil, ok, err
	}
	chapterData, err := content.Decode([]byte(data))
	if err != nil {
		return nil, false, err
	}
	return chapterData, true, nil
}

// latestStatus reduces lang's per-unit statuses to a single chapter-level
// value (the highest rank reached by any unit), since workflow status is
// tracked per chapter/language rather than per unit.
func latestStatus(c *content.ChapterData, lang langcode.Code) (content.Status, bool) {
	var best content.Status
	found := false
	for _, u := range c.Units {
		for l, v := range u.Translations {
			if l.Normalize() != lang.Normalize() {
				continue
			}
			if !found || v.Status.Rank() > best.Rank() {
				best = v.Status
				found = true
			}
		}
	}
	return best, found
}

func latestCommitType(entries []logEntry) string {
	if len(entries) == 0 {
		return ""
	}
	m := commitTypePattern.FindStringSubmatch(entries[0].Subject)
	if m == nil {
		return ""
	}
	return m[1]
}
