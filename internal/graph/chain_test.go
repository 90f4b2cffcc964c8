package graph

import (
	"slices"
	"strings"
	"testing"
)

func localRef(name string) BookmarkRef {
	return BookmarkRef{Name: name, Scope: ScopeLocal}
}

func remoteRef(name, remote string) BookmarkRef {
	return BookmarkRef{Name: name, Remote: remote, Scope: ScopeRemote, Tracked: true}
}

func chainNode(id string, unixTime int64, bookmarks ...BookmarkRef) Node {
	return Node{ID: id, Subject: "subject-" + id, UnixTime: unixTime, Bookmarks: bookmarks}
}

func TestBookmarkRevisionChainLinear(t *testing.T) {
	nodes := []Node{
		chainNode("a", 5, localRef("main")),
		chainNode("b", 4),
		chainNode("c", 3),
		chainNode("d", 2, localRef("feature")),
	}
	edges := []Edge{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
		{From: "d", To: "c"},
	}

	chain := BookmarkRevisionChain(nodes, edges, "main", "", ScopeLocal)
	if !slices.Equal(chain, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected chain: %v", chain)
	}
}

func TestBookmarkRevisionChainScopeAndRemoteIdentity(t *testing.T) {
	nodes := []Node{
		chainNode("local-tip", 10, localRef("main")),
		chainNode("remote-tip", 12, remoteRef("main", "origin")),
		chainNode("shared-parent", 9),
	}
	edges := []Edge{
		{From: "remote-tip", To: "shared-parent"},
		{From: "local-tip", To: "shared-parent"},
	}

	remoteChain := BookmarkRevisionChain(nodes, edges, "main", "origin", ScopeRemote)
	if !slices.Equal(remoteChain, []string{"remote-tip", "shared-parent"}) {
		t.Fatalf("unexpected remote chain: %v", remoteChain)
	}
	localChain := BookmarkRevisionChain(nodes, edges, "main", "", ScopeLocal)
	if !slices.Equal(localChain, []string{"local-tip", "shared-parent"}) {
		t.Fatalf("unexpected local chain: %v", localChain)
	}
	if chain := BookmarkRevisionChain(nodes, edges, "main", "upstream", ScopeRemote); chain != nil {
		t.Fatalf("wrong remote should not match: %v", chain)
	}
}

func TestBookmarkRevisionChainUnknownBookmark(t *testing.T) {
	nodes := []Node{chainNode("a", 5, localRef("main"))}
	if chain := BookmarkRevisionChain(nodes, nil, "does-not-exist", "", ScopeLocal); len(chain) != 0 {
		t.Fatalf("unknown bookmark should yield an empty chain: %v", chain)
	}
}

func TestBookmarkRevisionChainMergeDiamond(t *testing.T) {
	nodes := []Node{
		chainNode("tip", 15, localRef("merge-bookmark")),
		chainNode("left", 14),
		chainNode("right", 13),
		chainNode("root", 12),
	}
	edges := []Edge{
		{From: "tip", To: "left"},
		{From: "tip", To: "right"},
		{From: "left", To: "root"},
		{From: "right", To: "root"},
	}

	chain := BookmarkRevisionChain(nodes, edges, "merge-bookmark", "", ScopeLocal)
	if !slices.Equal(chain, []string{"tip", "left", "right", "root"}) {
		t.Fatalf("shared ancestor should appear once, after both branches: %v", chain)
	}
}

func TestBookmarkRevisionChainIgnoresDanglingEdges(t *testing.T) {
	nodes := []Node{chainNode("tip", 5, localRef("main"))}
	edges := []Edge{{From: "tip", To: "outside-window"}}

	chain := BookmarkRevisionChain(nodes, edges, "main", "", ScopeLocal)
	if !slices.Equal(chain, []string{"tip"}) {
		t.Fatalf("edges out of the window should be ignored: %v", chain)
	}
}

func TestValidateBookmarkDrop(t *testing.T) {
	nodes := []Node{
		chainNode("tip", 100, localRef("feature")),
		chainNode("target", 90),
	}

	t.Run("accepts local drop on another node", func(t *testing.T) {
		if err := ValidateBookmarkDrop(nodes, "feature", "", ScopeLocal, "target"); err != nil {
			t.Fatalf("expected drop to validate, got %v", err)
		}
	})
	t.Run("rejects remote bookmark", func(t *testing.T) {
		err := ValidateBookmarkDrop(nodes, "feature", "origin", ScopeRemote, "target")
		if err == nil || !strings.Contains(err.Error(), "local") {
			t.Fatalf("expected local-only rejection, got %v", err)
		}
	})
	t.Run("rejects current target", func(t *testing.T) {
		err := ValidateBookmarkDrop(nodes, "feature", "", ScopeLocal, "tip")
		if err == nil || !strings.Contains(err.Error(), "already targeting") {
			t.Fatalf("expected same-target rejection, got %v", err)
		}
	})
	t.Run("rejects target outside window", func(t *testing.T) {
		err := ValidateBookmarkDrop(nodes, "feature", "", ScopeLocal, "missing")
		if err == nil || !strings.Contains(err.Error(), "graph window") {
			t.Fatalf("expected graph-window rejection, got %v", err)
		}
	})
}
