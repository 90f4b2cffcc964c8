// Package graph builds windowed snapshots of a repository's revision
// history and lays the resulting DAG out into drawable lanes.
package graph

// BookmarkScope says whether a bookmark ref is the local pointer or a
// remote-tracked mirror of it.
type BookmarkScope uint8

const (
	ScopeLocal BookmarkScope = iota
	ScopeRemote
)

func (s BookmarkScope) String() string {
	if s == ScopeRemote {
		return "remote"
	}
	return "local"
}

func (s BookmarkScope) rank() int {
	if s == ScopeRemote {
		return 1
	}
	return 0
}

// BookmarkRef is one bookmark annotation attached to a graph node. A
// commit may carry several: the local pointer plus mirrors on multiple
// remotes, or multiple conflicted targets. Remote is non-empty exactly
// when Scope is ScopeRemote.
type BookmarkRef struct {
	Name       string        `json:"name"`
	Remote     string        `json:"remote,omitempty"`
	Scope      BookmarkScope `json:"scope"`
	IsActive   bool          `json:"is_active"`
	Tracked    bool          `json:"tracked"`
	NeedsPush  bool          `json:"needs_push"`
	Conflicted bool          `json:"conflicted"`
}

// Node is one commit included in a snapshot page.
type Node struct {
	ID                     string        `json:"id"`
	Subject                string        `json:"subject"`
	UnixTime               int64         `json:"unix_time"`
	Bookmarks              []BookmarkRef `json:"bookmarks,omitempty"`
	IsWorkingCopyParent    bool          `json:"is_working_copy_parent"`
	IsActiveBookmarkTarget bool          `json:"is_active_bookmark_target"`
}

// Edge means From is a child of To. Edges are only retained when both
// endpoints are inside the same page, so parent lines stop at the
// window boundary.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Snapshot is one windowed page of the reachable commit graph.
// Nodes are sorted by (unix_time desc, id asc); NextOffset is
// meaningful only when HasMore is true.
type Snapshot struct {
	Root                      string `json:"root"`
	ActiveBookmark            string `json:"active_bookmark,omitempty"`
	WorkingCopyCommitID       string `json:"working_copy_commit_id"`
	WorkingCopyParentCommitID string `json:"working_copy_parent_commit_id,omitempty"`
	Nodes                     []Node `json:"nodes"`
	Edges                     []Edge `json:"edges"`
	HasMore                   bool   `json:"has_more"`
	NextOffset                int    `json:"next_offset,omitempty"`
}

// Options control how much of the graph one BuildSnapshot call returns.
type Options struct {
	MaxNodes               int
	Offset                 int
	IncludeRemoteBookmarks bool
}

func (o Options) normalized() Options {
	if o.MaxNodes < 1 {
		o.MaxNodes = 1
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// LaneRow is the lane assignment and connector bitmaps for one node.
// All three bitmaps have length LaneCount; SecondaryParentLanes is
// sorted ascending and deduplicated.
type LaneRow struct {
	NodeID               string `json:"node_id"`
	NodeLane             int    `json:"node_lane"`
	LaneCount            int    `json:"lane_count"`
	TopVertical          []bool `json:"top_vertical"`
	BottomVertical       []bool `json:"bottom_vertical"`
	Horizontal           []bool `json:"horizontal"`
	SecondaryParentLanes []int  `json:"secondary_parent_lanes,omitempty"`
}
