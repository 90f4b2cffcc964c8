// Package repo defines the repository access boundary used by the graph
// builder. The default implementation is backed by go-git; tests supply
// hand-written fakes.
package repo

import "fmt"

// Commit is the minimal commit metadata the graph builder needs.
type Commit struct {
	ID          string
	ParentIDs   []string
	UnixTime    int64 // committer timestamp, seconds since epoch
	Description string
}

// Bookmark is a named pointer to one commit, or to several when the
// underlying reference is in a conflicted state.
type Bookmark struct {
	Name       string
	TargetIDs  []string
	Tracked    bool
	NeedsPush  bool
	Conflicted bool
}

// Target returns the single resolved commit id, or "" when the bookmark
// is conflicted or unresolved.
func (b Bookmark) Target() string {
	if b.Conflicted || len(b.TargetIDs) != 1 {
		return ""
	}
	return b.TargetIDs[0]
}

// Accessor abstracts read access to repository data.
//
// The default implementation wraps go-git, but the interface allows
// alternative implementations (e.g. a jj CLI wrapper) without changing
// the graph builder.
type Accessor interface {
	Root() string

	// WorkingCopyCommitID resolves the currently checked-out commit.
	WorkingCopyCommitID() (string, error)

	// Commit looks up one commit by id, failing with a *NotFoundError
	// for unknown ids.
	Commit(id string) (Commit, error)

	LocalBookmarks() ([]Bookmark, error)
	Remotes() ([]string, error)
	RemoteBookmarks(remote string) ([]Bookmark, error)

	// ActiveBookmarkName returns the checked-out bookmark name, or ""
	// when the working copy is detached.
	ActiveBookmarkName() (string, error)
}

// NotFoundError reports a commit id that does not resolve.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("commit %s not found", e.ID)
}
