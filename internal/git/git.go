// Package git provides git repository operations using go-git.
// It reads the working tree status, staged diffs, the current branch and
// recent history, and creates and pushes commits without shelling out to the
// git command-line tool.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	godiffpatch "github.com/sourcegraph/go-diff-patch"
)

// Sentinel errors for common git operations.
var (
	// ErrNoStagedChanges is returned when attempting to get a diff but no files are staged.
	ErrNoStagedChanges = errors.New("no staged changes found")
	// ErrNotAGitRepo is returned when the path is not a valid git repository.
	ErrNotAGitRepo = errors.New("not a git repository")
	// ErrDetachedHead is returned by CurrentBranch when HEAD does not point at a branch.
	ErrDetachedHead = errors.New("HEAD is detached")
)

// FileStatus is the staged and unstaged state of one path, using git's
// short status codes (' ', 'M', 'A', 'D', 'R', 'C', 'U', '?').
type FileStatus struct {
	Path     string
	Staging  byte
	Worktree byte
}

// IsStaged reports whether the path has changes in the index.
func (f FileStatus) IsStaged() bool {
	return isStaged(git.StatusCode(f.Staging))
}

// Repository wraps a go-git repository and provides high-level operations
// for reading staged changes and creating commits.
type Repository struct {
	repo *git.Repository
}

// Open opens the git repository at the given path, searching parent
// directories for the .git folder.
// Returns ErrNotAGitRepo if the path is not inside a git repository.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotAGitRepo
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return &Repository{repo: repo}, nil
}

// OpenCurrent opens the git repository in the current working directory.
// This is a convenience wrapper around Open(".").
func OpenCurrent() (*Repository, error) {
	return Open(".")
}

func isStaged(code git.StatusCode) bool {
	return code != git.Unmodified && code != git.Untracked
}

func (r *Repository) status() (git.Status, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return status, nil
}

// Status returns every changed path, sorted by path.
func (r *Repository) Status() ([]FileStatus, error) {
	status, err := r.status()
	if err != nil {
		return nil, err
	}
	out := make([]FileStatus, 0, len(status))
	for path, s := range status {
		if s.Staging == git.Unmodified && s.Worktree == git.Unmodified {
			continue
		}
		out = append(out, FileStatus{Path: path, Staging: byte(s.Staging), Worktree: byte(s.Worktree)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// GetStagedDiff returns a unified diff of all staged changes, one file after
// another in path order. Returns ErrNoStagedChanges if no files are staged.
// For new repositories without commits, every staged file is shown as an addition.
func (r *Repository) GetStagedDiff() (string, error) {
	status, err := r.status()
	if err != nil {
		return "", err
	}

	paths := stagedPaths(status)
	if len(paths) == 0 {
		return "", ErrNoStagedChanges
	}

	// Get the index (staging area)
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return "", fmt.Errorf("failed to get index: %w", err)
	}

	// Get HEAD commit tree; a repository without commits has none
	var headTree *object.Tree
	if head, err := r.repo.Head(); err == nil {
		headCommit, err := r.repo.CommitObject(head.Hash())
		if err != nil {
			return "", fmt.Errorf("failed to get head commit: %w", err)
		}
		headTree, err = headCommit.Tree()
		if err != nil {
			return "", fmt.Errorf("failed to get head tree: %w", err)
		}
	}

	var diffBuilder strings.Builder
	for _, path := range paths {
		staging := status.File(path).Staging
		if headTree == nil {
			staging = git.Added
		}

		if err := r.writeFileDiff(&diffBuilder, idx, headTree, path, staging); err != nil {
			return "", err
		}
		diffBuilder.WriteString("\n")
	}

	return diffBuilder.String(), nil
}

func (r *Repository) writeFileDiff(b *strings.Builder, idx *index.Index, headTree *object.Tree, path string, staging git.StatusCode) error {
	fmt.Fprintf(b, "diff --git a/%s b/%s\n", path, path)

	switch staging {
	case git.Deleted:
		b.WriteString("deleted file mode 100644\n")
		content, err := r.getTreeFileContent(headTree, path)
		if err != nil {
			return fmt.Errorf("failed to get content for deleted file %s: %w", path, err)
		}
		fmt.Fprintf(b, "--- a/%s\n+++ /dev/null\n", path)
		writePrefixed(b, "-", content)

	case git.Added:
		b.WriteString("new file mode 100644\n")
		content, err := r.getIndexFileContent(idx, path)
		if err != nil {
			return fmt.Errorf("failed to get content for added file %s: %w", path, err)
		}
		fmt.Fprintf(b, "--- /dev/null\n+++ b/%s\n", path)
		writePrefixed(b, "+", content)

	default:
		oldContent, err := r.getTreeFileContent(headTree, path)
		if err != nil {
			return fmt.Errorf("failed to get old content for modified file %s: %w", path, err)
		}
		newContent, err := r.getIndexFileContent(idx, path)
		if err != nil {
			return fmt.Errorf("failed to get new content for modified file %s: %w", path, err)
		}
		// Use go-diff-patch library for proper unified diff generation
		b.WriteString(godiffpatch.GeneratePatch(path, oldContent, newContent))
	}
	return nil
}

func writePrefixed(b *strings.Builder, prefix, content string) {
	for _, line := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
		b.WriteString(prefix + line + "\n")
	}
}

// getIndexFileContent gets the staged content of path
func (r *Repository) getIndexFileContent(idx *index.Index, path string) (content string, err error) {
	entry, err := idx.Entry(path)
	if err != nil {
		return "", err
	}

	blob, err := r.repo.BlobObject(entry.Hash)
	if err != nil {
		return "", err
	}

	reader, err := blob.Reader()
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// getTreeFileContent gets file content from a tree
func (r *Repository) getTreeFileContent(tree *object.Tree, path string) (string, error) {
	if tree == nil {
		return "", nil
	}
	file, err := tree.File(path)
	if err != nil {
		return "", err
	}
	return file.Contents()
}

func stagedPaths(status git.Status) []string {
	var files []string
	for path, s := range status {
		if isStaged(s.Staging) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files
}

// GetStagedFiles returns the sorted paths that have staged changes.
// The list includes added, modified, and deleted files.
func (r *Repository) GetStagedFiles() ([]string, error) {
	status, err := r.status()
	if err != nil {
		return nil, err
	}
	return stagedPaths(status), nil
}

// HasStagedChanges returns true if there are any staged changes in the repository.
// This is useful for validating before attempting to create a commit.
func (r *Repository) HasStagedChanges() (bool, error) {
	status, err := r.status()
	if err != nil {
		return false, err
	}

	for _, s := range status {
		if isStaged(s.Staging) {
			return true, nil
		}
	}

	return false, nil
}

// CurrentBranch returns the short name of the checked-out branch. It works in
// a repository without commits. Returns ErrDetachedHead when HEAD points at a
// commit rather than a branch.
func (r *Repository) CurrentBranch() (string, error) {
	ref, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", ErrDetachedHead
	}
	target := ref.Target()
	if !target.IsBranch() {
		return "", ErrDetachedHead
	}
	return target.Short(), nil
}

// RecentSubjects returns the first line of up to n most recent commit
// messages reachable from HEAD, newest first. An empty repository yields an
// empty list.
func (r *Repository) RecentSubjects(n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	subjects := make([]string, 0, n)
	err = iter.ForEach(func(c *object.Commit) error {
		subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
		subjects = append(subjects, strings.TrimSpace(subject))
		if len(subjects) >= n {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk log: %w", err)
	}
	return subjects, nil
}

// Commit creates a new commit with the given message from staged changes.
// The author is taken from the repository or global git config.
// Returns the commit hash as a hex string on success.
func (r *Repository) Commit(message string) (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to create commit: %w", err)
	}

	return hash.String(), nil
}

// Push pushes the current branch to remote ("origin" when empty). An
// up-to-date remote is not an error.
func (r *Repository) Push(ctx context.Context, remote string) error {
	if remote == "" {
		remote = git.DefaultRemoteName
	}
	err := r.repo.PushContext(ctx, &git.PushOptions{RemoteName: remote})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push to %s: %w", remote, err)
	}
	return nil
}

// Root returns the absolute path to the repository root directory.
// This is the top-level directory containing the .git folder, which serves
// as the base for resolving relative file paths within the repository.
func (r *Repository) Root() (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get repository root directory (worktree unavailable): %w", err)
	}
	return worktree.Filesystem.Root(), nil
}
