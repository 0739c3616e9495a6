package vcts

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// repo wraps a single on-disk Git repository, running every operation as a
// subprocess. VCTS callers never see this type or any Git vocabulary; it is
// an implementation detail of session.go, diff.go, and history.go.
type repo struct {
	dir string
}

func newRepo(dir string) *repo { return &repo{dir: dir} }

func (r *repo) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}

func (r *repo) isRepo() bool {
	_, err := r.run("rev-parse", "--git-dir")
	return err == nil
}

func (r *repo) init() error {
	_, err := r.run("init")
	return wrapGit("init", err)
}

func (r *repo) currentBranch() (string, error) {
	out, err := r.run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", wrapGit("current-branch", err)
	}
	return strings.TrimSpace(out), nil
}

func (r *repo) createBranch(name, from string) error {
	args := []string{"branch", name}
	if from != "" {
		args = append(args, from)
	}
	_, err := r.run(args...)
	return wrapGit("create-branch", err)
}

func (r *repo) checkout(ref string) error {
	_, err := r.run("checkout", ref)
	return wrapGit("checkout", err)
}

func (r *repo) addAll() error {
	_, err := r.run("add", "-A")
	return wrapGit("add", err)
}

// commit stages every change in the working tree and creates a commit with
// message, returning its hash. The commit is created even when nothing
// changed, so session-start, submit and feedback markers always reach the
// log; auto-save idempotency is handled by AutoSave itself.
func (r *repo) commit(message, author string) (string, error) {
	if err := r.addAll(); err != nil {
		return "", err
	}
	args := []string{"commit", "--allow-empty", "-m", message}
	if author != "" {
		args = append([]string{"-c", "user.name=" + author}, args...)
	}
	if _, err := r.run(args...); err != nil {
		return "", wrapGit("commit", err)
	}
	return r.rev("HEAD")
}

func (r *repo) isClean() (bool, error) {
	out, err := r.run("status", "--porcelain")
	if err != nil {
		return false, wrapGit("status", err)
	}
	return strings.TrimSpace(out) == "", nil
}

func (r *repo) rev(ref string) (string, error) {
	out, err := r.run("rev-parse", ref)
	if err != nil {
		return "", wrapGit("rev-parse", err)
	}
	return strings.TrimSpace(out), nil
}

// showFile returns the content of path as of ref, or ("", false, nil) if
// the path did not exist at that ref.
func (r *repo) showFile(ref, path string) (string, bool, error) {
	out, err := r.run("show", ref+":"+path)
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") || strings.Contains(err.Error(), "exists on disk, but not in") {
			return "", false, nil
		}
		return "", false, wrapGit("show", err)
	}
	return out, true, nil
}

// checkConflicts reports which files would conflict if branch were merged
// into into. It performs a real --no-commit merge attempt on into, reads
// the unmerged paths, then aborts — so it never mutates into's history and
// restores whatever branch was checked out before the call.
func (r *repo) checkConflicts(branch, into string) ([]string, error) {
	cur, err := r.currentBranch()
	if err != nil {
		return nil, err
	}
	if err := r.checkout(into); err != nil {
		return nil, err
	}
	defer r.checkout(cur)

	var conflicts []string
	if _, mergeErr := r.run("merge", "--no-commit", "--no-ff", branch); mergeErr != nil {
		unmerged, _ := r.run("diff", "--name-only", "--diff-filter=U")
		for _, f := range strings.Split(strings.TrimSpace(unmerged), "\n") {
			if f != "" {
				conflicts = append(conflicts, f)
			}
		}
	}
	r.run("merge", "--abort")
	return conflicts, nil
}

// merge merges branch into the current branch with --no-ff, so a merge
// commit carrying message is created even when a fast-forward would be
// possible. Returns a *MergeConflictError (never a silent
// resolution) if the merge leaves unmerged paths.
func (r *repo) merge(branch, message, author string) error {
	args := []string{"merge", "--no-ff", "-m", message, branch}
	if author != "" {
		args = append([]string{"-c", "user.name=" + author}, args...)
	}
	_, err := r.run(args...)
	if err == nil {
		return nil
	}
	unmerged, _ := r.run("diff", "--name-only", "--diff-filter=U")
	var files []string
	for _, f := range strings.Split(strings.TrimSpace(unmerged), "\n") {
		if f != "" {
			files = append(files, f)
		}
	}
	if len(files) > 0 {
		r.run("merge", "--abort")
		return &MergeConflictError{Files: files}
	}
	return wrapGit("merge", err)
}

func (r *repo) deleteBranch(name string) error {
	_, err := r.run("branch", "-D", name)
	return wrapGit("delete-branch", err)
}

func (r *repo) listBranches() ([]string, error) {
	out, err := r.run("for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, wrapGit("list-branches", err)
	}
	var branches []string
	for _, l := range strings.Split(strings.TrimSpace(out), "\n") {
		if l != "" {
			branches = append(branches, l)
		}
	}
	return branches, nil
}

func (r *repo) push(remote, branch string) error {
	_, err := r.run("push", remote, branch)
	return wrapGit("push", err)
}

// logEntry is one commit in git-log order (newest first).
type logEntry struct {
	Hash      string
	Author    string
	Timestamp int64
	Subject   string
	Body      string
}

const logFormat = "%H%x1f%an%x1f%at%x1f%s%x1f%b%x1e"

func (r *repo) log(ref, path string, limit int) ([]logEntry, error) {
	args := []string{"log", "--format=" + logFormat}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	args = append(args, ref)
	if path != "" {
		args = append(args, "--", path)
	}
	out, err := r.run(args...)
	if err != nil {
		return nil, wrapGit("log", err)
	}
	var entries []logEntry
	for _, rec := range strings.Split(out, "\x1e") {
		rec = strings.Trim(rec, "\n")
		if rec == "" {
			continue
		}
		fields := strings.Split(rec, "\x1f")
		if len(fields) < 5 {
			continue
		}
		ts, _ := strconv.ParseInt(fields[2], 10, 64)
		entries = append(entries, logEntry{
			Hash:      fields[0],
			Author:    fields[1],
			Timestamp: ts,
			Subject:   fields[3],
			Body:      fields[4],
		})
	}
	return entries, nil
}
