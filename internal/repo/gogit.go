package repo

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitAccessor reads repository data through go-git. Local branches are
// exposed as local bookmarks, remote-tracking refs as remote bookmarks.
type GitAccessor struct {
	repo *gitlib.Repository
	root string
}

func Open(repoPath string) (*GitAccessor, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &GitAccessor{repo: repo, root: abs}, nil
}

func (a *GitAccessor) Root() string { return a.root }

func (a *GitAccessor) WorkingCopyCommitID() (string, error) {
	ref, err := a.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

func (a *GitAccessor) Commit(id string) (Commit, error) {
	commit, err := a.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return Commit{}, &NotFoundError{ID: id}
		}
		return Commit{}, fmt.Errorf("load commit %s: %w", id, err)
	}
	parents := make([]string, 0, len(commit.ParentHashes))
	for _, hash := range commit.ParentHashes {
		parents = append(parents, hash.String())
	}
	return Commit{
		ID:          commit.Hash.String(),
		ParentIDs:   parents,
		UnixTime:    commit.Committer.When.Unix(),
		Description: commit.Message,
	}, nil
}

func (a *GitAccessor) LocalBookmarks() ([]Bookmark, error) {
	branches, err := a.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer branches.Close()

	cfg, err := a.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var bookmarks []Bookmark
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if name == "" {
			return nil
		}
		tracked := false
		needsPush := false
		if branchCfg, ok := cfg.Branches[name]; ok && branchCfg.Remote != "" {
			tracked = true
			upstream, upErr := a.repo.Reference(plumbing.NewRemoteReferenceName(branchCfg.Remote, name), true)
			// A tracked branch with no upstream ref has never been pushed.
			needsPush = upErr != nil || upstream.Hash() != ref.Hash()
		}
		bookmarks = append(bookmarks, Bookmark{
			Name:      name,
			TargetIDs: []string{ref.Hash().String()},
			Tracked:   tracked,
			NeedsPush: needsPush,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(bookmarks, func(left, right Bookmark) int {
		return strings.Compare(left.Name, right.Name)
	})
	return bookmarks, nil
}

func (a *GitAccessor) Remotes() ([]string, error) {
	remotes, err := a.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}
	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Config().Name)
	}
	slices.Sort(names)
	return names, nil
}

func (a *GitAccessor) RemoteBookmarks(remote string) ([]Bookmark, error) {
	refs, err := a.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer refs.Close()

	prefix := "refs/remotes/" + remote + "/"
	var bookmarks []Bookmark
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		full := ref.Name().String()
		if !strings.HasPrefix(full, prefix) {
			return nil
		}
		name := strings.TrimPrefix(full, prefix)
		if name == "" || name == "HEAD" {
			return nil
		}
		tracked := false
		needsPush := false
		if local, localErr := a.repo.Reference(plumbing.NewBranchReferenceName(name), true); localErr == nil {
			tracked = true
			needsPush = local.Hash() != ref.Hash()
		}
		bookmarks = append(bookmarks, Bookmark{
			Name:      name,
			TargetIDs: []string{ref.Hash().String()},
			Tracked:   tracked,
			NeedsPush: needsPush,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(bookmarks, func(left, right Bookmark) int {
		return strings.Compare(left.Name, right.Name)
	})
	return bookmarks, nil
}

func (a *GitAccessor) ActiveBookmarkName() (string, error) {
	ref, err := a.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if !ref.Name().IsBranch() {
		return "", nil
	}
	return ref.Name().Short(), nil
}
