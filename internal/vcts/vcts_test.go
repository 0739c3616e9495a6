package vcts

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/tradocflow/tradocflow/internal/content"
)

func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-b", "main")
	run("config", "user.email", "test@test.com")
	run("config", "user.name", "Test User")

	b := content.NewBuilder(1, "intro", "en", "Introduction", "es")
	_, err := b.AddUnit("Hello world.", content.ComplexityLow)
	if err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	path := filepath.Join(dir, "content", "chapters", "intro.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := content.WriteChapter(path, c); err != nil {
		t.Fatalf("WriteChapter: %v", err)
	}
	run("add", ".")
	run("commit", "-m", "initial: intro chapter")
	return dir
}

func TestSessionLifecycle(t *testing.T) {
	dir := initTestRepo(t)
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	sess, err := store.StartSession("intro", "es", "alice")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if sess.Branch != "translate/intro/es/"+sess.ID {
		t.Fatalf("unexpected branch name %q", sess.Branch)
	}

	if err := store.AutoSave(sess, "Hola mundo."); err != nil {
		t.Fatalf("AutoSave: %v", err)
	}
	// idempotent re-save with identical content
	if err := store.AutoSave(sess, "Hola mundo."); err != nil {
		t.Fatalf("AutoSave (idempotent): %v", err)
	}

	sessions, err := store.ListActiveSessions()
	if err != nil {
		t.Fatalf("ListActiveSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Chapter != "intro" || sessions[0].Language != "es" {
		t.Fatalf("unexpected active sessions: %+v", sessions)
	}

	review, err := store.SubmitForReview(sess, "ready for review")
	if err != nil {
		t.Fatalf("SubmitForReview: %v", err)
	}
	if review.Status != ReviewPending {
		t.Fatalf("expected pending review, got %v", review.Status)
	}

	if err := store.Approve(review, "main", "bob"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if review.Status != ReviewApproved {
		t.Fatalf("expected approved, got %v", review.Status)
	}

	remaining, err := store.ListActiveSessions()
	if err != nil {
		t.Fatalf("ListActiveSessions after approve: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no active sessions after approve, got %+v", remaining)
	}
}

func TestApproveMergeConflict(t *testing.T) {
	dir := initTestRepo(t)
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	sess, err := store.StartSession("intro", "es", "alice")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := store.AutoSave(sess, "Hola mundo."); err != nil {
		t.Fatalf("AutoSave: %v", err)
	}
	review, err := store.SubmitForReview(sess, "")
	if err != nil {
		t.Fatalf("SubmitForReview: %v", err)
	}

	// Conflicting change on main to the same chapter file.
	if err := store.repo.checkout("main"); err != nil {
		t.Fatalf("checkout main: %v", err)
	}
	path := filepath.Join(dir, "content", "chapters", "intro.toml")
	c, err := content.ReadChapter(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Units[0].Translations["es"] = content.TranslationVersion{Text: "Conflicto.", Status: content.StatusDraft, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := content.WriteChapter(path, c); err != nil {
		t.Fatal(err)
	}
	cmd := exec.Command("git", "commit", "-am", "main: conflicting edit")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("commit: %v\n%s", err, out)
	}

	err = store.Approve(review, "main", "bob")
	var mc *MergeConflictError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MergeConflictError, got %v", err)
	}
	if len(mc.Files) == 0 {
		t.Fatal("expected at least one conflicting file")
	}
}

func TestDiffBigramSimilarity(t *testing.T) {
	old := "Hello world, this is a test."
	new_ := "Hello universe, this is a great test."
	td := computeTextDiff(old, new_)
	if td.WordChanges < 2 {
		t.Fatalf("WordChanges = %d, want >= 2", td.WordChanges)
	}
	if td.CharacterChanges <= 0 {
		t.Fatalf("CharacterChanges = %d, want > 0", td.CharacterChanges)
	}
	if !(td.SimilarityScore > 0 && td.SimilarityScore < 1) {
		t.Fatalf("SimilarityScore = %v, want strictly between 0 and 1", td.SimilarityScore)
	}
}

func TestBigramJaccardEdgeCases(t *testing.T) {
	if s := bigramJaccard("same", "same"); s != 1.0 {
		t.Fatalf("equal strings similarity = %v, want 1.0", s)
	}
	if s := bigramJaccard("", ""); s != 1.0 {
		t.Fatalf("empty strings similarity = %v, want 1.0", s)
	}
	if s := bigramJaccard("abc", ""); s != 0.0 {
		t.Fatalf("one empty similarity = %v, want 0.0", s)
	}
}

func TestStatusPromotion(t *testing.T) {
	if !content.IsPromotion(content.StatusInProgress, content.StatusCompleted) {
		t.Fatal("expected promotion InProgress -> Completed")
	}
	if content.IsPromotion(content.StatusUnderReview, content.StatusDraft) {
		t.Fatal("expected no promotion UnderReview -> Draft")
	}
}

func TestSurvivingLinesSkipsHeadingsAndComments(t *testing.T) {
	// headings, blank lines and HTML comments are dropped; other lines survive in order.
	lines := survivingLines("# Title\n\nHello.\n<!-- note -->\nWorld.\n")
	if len(lines) != 2 || lines[0] != "Hello." || lines[1] != "World." {
		t.Fatalf("survivingLines = %v", lines)
	}
}
