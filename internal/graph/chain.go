package graph

import "errors"

// BookmarkRevisionChain returns the ids reachable from the node whose
// bookmark list matches (name, scope) — remote is compared only for
// remote-scoped bookmarks — walking child-to-parent edges restricted to
// the supplied nodes. Ids appear once, in breadth-first discovery
// order, so an ancestor shared by two branches of a merge comes after
// both branches. An unknown bookmark yields an empty chain.
func BookmarkRevisionChain(nodes []Node, edges []Edge, name, remote string, scope BookmarkScope) []string {
	startID, ok := findBookmarkNode(nodes, name, remote, scope)
	if !ok {
		return nil
	}

	known := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		known[node.ID] = struct{}{}
	}
	parentIDsByNode := make(map[string][]string)
	for _, edge := range edges {
		if _, ok := known[edge.From]; !ok {
			continue
		}
		if _, ok := known[edge.To]; !ok {
			continue
		}
		parentIDsByNode[edge.From] = append(parentIDsByNode[edge.From], edge.To)
	}

	seen := map[string]struct{}{startID: {}}
	queue := []string{startID}
	var chain []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		chain = append(chain, id)
		for _, parentID := range parentIDsByNode[id] {
			if _, ok := seen[parentID]; ok {
				continue
			}
			seen[parentID] = struct{}{}
			queue = append(queue, parentID)
		}
	}
	return chain
}

// ValidateBookmarkDrop checks whether a bookmark may be reassigned to
// targetNodeID by a drag-and-drop. It is a pure precondition check and
// performs no mutation.
func ValidateBookmarkDrop(nodes []Node, name, remote string, scope BookmarkScope, targetNodeID string) error {
	if scope != ScopeLocal {
		return errors.New("only local bookmarks can be dragged to a new target")
	}
	if currentID, ok := findBookmarkNode(nodes, name, remote, scope); ok && currentID == targetNodeID {
		return errors.New("bookmark is already targeting this revision")
	}
	for _, node := range nodes {
		if node.ID == targetNodeID {
			return nil
		}
	}
	return errors.New("drop target must be in the current graph window")
}

func findBookmarkNode(nodes []Node, name, remote string, scope BookmarkScope) (string, bool) {
	for _, node := range nodes {
		for _, bookmark := range node.Bookmarks {
			if bookmark.Name != name || bookmark.Scope != scope {
				continue
			}
			if scope == ScopeRemote && bookmark.Remote != remote {
				continue
			}
			return node.ID, true
		}
	}
	return "", false
}
