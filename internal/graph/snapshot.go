package graph

import (
	"cmp"
	"container/heap"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/hunk-scm/hunk-go/internal/repo"
)

// localMirrorRemote is the pseudo-remote some backends use to mirror
// the local repository; its bookmarks duplicate the local ones and are
// never shown.
const localMirrorRemote = "git"

const noDescriptionSubject = "(no description)"

// BuildSnapshot computes one windowed page of the repository's revision
// graph. The traversal is seeded from bookmark tips and the working
// copy's parent, ordered by recency, and cut off at
// options.Offset+options.MaxNodes entries. Each call is independent:
// two sequential calls with offset=0 then offset=NextOffset enumerate
// disjoint commit sets over an unchanged repository.
func BuildSnapshot(accessor repo.Accessor, options Options) (*Snapshot, error) {
	options = options.normalized()

	wcID, err := accessor.WorkingCopyCommitID()
	if err != nil {
		return nil, fmt.Errorf("resolve working copy: %w", err)
	}
	wcCommit, err := accessor.Commit(wcID)
	if err != nil {
		return nil, fmt.Errorf("load working-copy commit: %w", err)
	}
	wcParentID := ""
	if len(wcCommit.ParentIDs) > 0 {
		wcParentID = wcCommit.ParentIDs[0]
	}

	locals, err := accessor.LocalBookmarks()
	if err != nil {
		return nil, fmt.Errorf("list local bookmarks: %w", err)
	}

	type remoteView struct {
		name      string
		bookmarks []repo.Bookmark
	}
	var remoteViews []remoteView
	if options.IncludeRemoteBookmarks {
		remotes, err := accessor.Remotes()
		if err != nil {
			return nil, fmt.Errorf("list remotes: %w", err)
		}
		for _, remote := range remotes {
			if remote == localMirrorRemote {
				continue
			}
			bookmarks, err := accessor.RemoteBookmarks(remote)
			if err != nil {
				return nil, fmt.Errorf("list bookmarks for remote %s: %w", remote, err)
			}
			remoteViews = append(remoteViews, remoteView{name: remote, bookmarks: bookmarks})
		}
	}

	activeBookmark, err := accessor.ActiveBookmarkName()
	if err != nil {
		return nil, fmt.Errorf("resolve active bookmark: %w", err)
	}
	activeTargetID := ""
	for _, bookmark := range locals {
		if bookmark.Name == activeBookmark {
			activeTargetID = bookmark.Target()
			break
		}
	}

	seedIDs := make([]string, 0, len(locals)+1)
	seen := make(map[string]struct{})
	addSeed := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		seedIDs = append(seedIDs, id)
	}
	for _, bookmark := range locals {
		addSeed(bookmark.Target())
	}
	for _, view := range remoteViews {
		for _, bookmark := range view.bookmarks {
			addSeed(bookmark.Target())
		}
	}
	addSeed(wcParentID)
	if len(seedIDs) == 0 {
		addSeed(wcID)
	}

	win, err := loadWindowCommits(accessor, seedIDs, options)
	if err != nil {
		return nil, err
	}

	refsByCommit := make(map[string][]BookmarkRef)
	attach := func(bookmark repo.Bookmark, remote string, scope BookmarkScope) {
		for _, targetID := range bookmark.TargetIDs {
			refsByCommit[targetID] = append(refsByCommit[targetID], BookmarkRef{
				Name:       bookmark.Name,
				Remote:     remote,
				Scope:      scope,
				IsActive:   bookmark.Name == activeBookmark && activeBookmark != "",
				Tracked:    bookmark.Tracked,
				NeedsPush:  bookmark.NeedsPush,
				Conflicted: bookmark.Conflicted,
			})
		}
	}
	for _, bookmark := range locals {
		attach(bookmark, "", ScopeLocal)
	}
	for _, view := range remoteViews {
		for _, bookmark := range view.bookmarks {
			attach(bookmark, view.name, ScopeRemote)
		}
	}

	nodeIDs := make(map[string]struct{}, len(win.commits))
	for _, commit := range win.commits {
		nodeIDs[commit.ID] = struct{}{}
	}

	nodes := make([]Node, 0, len(win.commits))
	for _, commit := range win.commits {
		bookmarks := slices.Clone(refsByCommit[commit.ID])
		sortBookmarkRefs(bookmarks)
		nodes = append(nodes, Node{
			ID:                     commit.ID,
			Subject:                commitSubject(commit.Description),
			UnixTime:               commit.UnixTime,
			Bookmarks:              bookmarks,
			IsWorkingCopyParent:    commit.ID == wcParentID && wcParentID != "",
			IsActiveBookmarkTarget: commit.ID == activeTargetID && activeTargetID != "",
		})
	}
	slices.SortFunc(nodes, func(left, right Node) int {
		if c := cmp.Compare(right.UnixTime, left.UnixTime); c != 0 {
			return c
		}
		return strings.Compare(left.ID, right.ID)
	})

	var edges []Edge
	for _, commit := range win.commits {
		for _, parentID := range commit.ParentIDs {
			if _, ok := nodeIDs[parentID]; !ok {
				continue
			}
			edges = append(edges, Edge{From: commit.ID, To: parentID})
		}
	}
	slices.SortFunc(edges, func(left, right Edge) int {
		if c := strings.Compare(left.From, right.From); c != 0 {
			return c
		}
		return strings.Compare(left.To, right.To)
	})

	nextOffset := 0
	if win.hasMore {
		nextOffset = options.Offset + len(nodes)
	}
	slog.Debug("graph snapshot built",
		slog.Int("nodes", len(nodes)),
		slog.Int("edges", len(edges)),
		slog.Int("offset", options.Offset),
		slog.Bool("has_more", win.hasMore),
	)
	return &Snapshot{
		Root:                      accessor.Root(),
		ActiveBookmark:            activeBookmark,
		WorkingCopyCommitID:       wcID,
		WorkingCopyParentCommitID: wcParentID,
		Nodes:                     nodes,
		Edges:                     edges,
		HasMore:                   win.hasMore,
		NextOffset:                nextOffset,
	}, nil
}

type commitWindow struct {
	commits []repo.Commit
	hasMore bool
}

// loadWindowCommits walks the frontier from the seeds, always expanding
// the most recent pending commit first. The enqueued set keeps commits
// reachable via multiple paths (merge bases) from entering the heap
// twice.
func loadWindowCommits(accessor repo.Accessor, seedIDs []string, options Options) (commitWindow, error) {
	targetLen := options.Offset + options.MaxNodes + 1

	var queue pendingQueue
	enqueued := make(map[string]struct{})
	visited := make(map[string]struct{})

	enqueue := func(id string) error {
		if _, ok := enqueued[id]; ok {
			return nil
		}
		enqueued[id] = struct{}{}
		commit, err := accessor.Commit(id)
		if err != nil {
			return fmt.Errorf("load commit %s: %w", id, err)
		}
		heap.Push(&queue, commit)
		return nil
	}

	for _, id := range seedIDs {
		if err := enqueue(id); err != nil {
			return commitWindow{}, err
		}
	}

	var commits []repo.Commit
	for queue.Len() > 0 {
		commit := heap.Pop(&queue).(repo.Commit)
		if _, ok := visited[commit.ID]; ok {
			continue
		}
		visited[commit.ID] = struct{}{}
		for _, parentID := range commit.ParentIDs {
			if err := enqueue(parentID); err != nil {
				return commitWindow{}, err
			}
		}
		commits = append(commits, commit)
		if len(commits) >= targetLen {
			break
		}
	}

	hasMore := len(commits) > options.Offset+options.MaxNodes
	start := min(options.Offset, len(commits))
	end := min(start+options.MaxNodes, len(commits))
	return commitWindow{commits: commits[start:end], hasMore: hasMore}, nil
}

// pendingQueue is a max-heap over (unix_time, id). The id tie-break is
// arbitrary but keeps the traversal deterministic.
type pendingQueue []repo.Commit

func (q pendingQueue) Len() int { return len(q) }

func (q pendingQueue) Less(i, j int) bool {
	if q[i].UnixTime != q[j].UnixTime {
		return q[i].UnixTime > q[j].UnixTime
	}
	return q[i].ID > q[j].ID
}

func (q pendingQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pendingQueue) Push(x any) { *q = append(*q, x.(repo.Commit)) }

func (q *pendingQueue) Pop() any {
	old := *q
	last := old[len(old)-1]
	*q = old[:len(old)-1]
	return last
}

func commitSubject(description string) string {
	for _, line := range strings.Split(description, "\n") {
		if subject := strings.TrimSpace(line); subject != "" {
			return subject
		}
	}
	return noDescriptionSubject
}

func sortBookmarkRefs(bookmarks []BookmarkRef) {
	slices.SortFunc(bookmarks, func(left, right BookmarkRef) int {
		if c := cmp.Compare(left.Scope.rank(), right.Scope.rank()); c != 0 {
			return c
		}
		if c := strings.Compare(left.Name, right.Name); c != 0 {
			return c
		}
		return strings.Compare(left.Remote, right.Remote)
	})
}
