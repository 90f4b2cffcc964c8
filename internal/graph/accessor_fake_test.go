package graph

import (
	"fmt"

	"github.com/hunk-scm/hunk-go/internal/repo"
)

// fakeAccessor serves repository data from in-memory maps. Tests build
// it up with addCommit/addBookmark and hand it to BuildSnapshot.
type fakeAccessor struct {
	root            string
	workingCopyID   string
	commits         map[string]repo.Commit
	locals          []repo.Bookmark
	remotes         []string
	remoteBookmarks map[string][]repo.Bookmark
	active          string

	workingCopyErr error
}

func newFakeAccessor() *fakeAccessor {
	return &fakeAccessor{
		root:            "/tmp/fake-repo",
		commits:         map[string]repo.Commit{},
		remoteBookmarks: map[string][]repo.Bookmark{},
	}
}

func (f *fakeAccessor) addCommit(id string, unixTime int64, description string, parentIDs ...string) {
	f.commits[id] = repo.Commit{
		ID:          id,
		ParentIDs:   parentIDs,
		UnixTime:    unixTime,
		Description: description,
	}
}

func (f *fakeAccessor) addLocalBookmark(name string, targetIDs ...string) {
	f.locals = append(f.locals, repo.Bookmark{
		Name:       name,
		TargetIDs:  targetIDs,
		Conflicted: len(targetIDs) > 1,
	})
}

func (f *fakeAccessor) addRemoteBookmark(remote, name string, targetIDs ...string) {
	if _, ok := f.remoteBookmarks[remote]; !ok {
		f.remotes = append(f.remotes, remote)
	}
	f.remoteBookmarks[remote] = append(f.remoteBookmarks[remote], repo.Bookmark{
		Name:       name,
		TargetIDs:  targetIDs,
		Tracked:    true,
		Conflicted: len(targetIDs) > 1,
	})
}

func (f *fakeAccessor) Root() string { return f.root }

func (f *fakeAccessor) WorkingCopyCommitID() (string, error) {
	if f.workingCopyErr != nil {
		return "", f.workingCopyErr
	}
	if f.workingCopyID == "" {
		return "", fmt.Errorf("no working copy configured")
	}
	return f.workingCopyID, nil
}

func (f *fakeAccessor) Commit(id string) (repo.Commit, error) {
	commit, ok := f.commits[id]
	if !ok {
		return repo.Commit{}, &repo.NotFoundError{ID: id}
	}
	return commit, nil
}

func (f *fakeAccessor) LocalBookmarks() ([]repo.Bookmark, error) {
	return f.locals, nil
}

func (f *fakeAccessor) Remotes() ([]string, error) {
	return f.remotes, nil
}

func (f *fakeAccessor) RemoteBookmarks(remote string) ([]repo.Bookmark, error) {
	return f.remoteBookmarks[remote], nil
}

func (f *fakeAccessor) ActiveBookmarkName() (string, error) {
	return f.active, nil
}
