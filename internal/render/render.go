// Package render turns lane rows into plain text lines, one per node.
// It draws the same glyph grid a graph-log pager would: '*' for nodes,
// '@' for the working-copy parent, '|' for lanes passing through, '-'
// for merge/fork connectors.
package render

import (
	"fmt"
	"strings"

	"github.com/hunk-scm/hunk-go/internal/graph"
)

const shortIDLen = 8

// Rows renders one line per node. nodes and rows must be parallel, as
// produced by graph.BuildSnapshot and graph.BuildLaneRows.
func Rows(nodes []graph.Node, rows []graph.LaneRow) []string {
	maxLanes := 0
	for _, row := range rows {
		if row.LaneCount > maxLanes {
			maxLanes = row.LaneCount
		}
	}

	lines := make([]string, 0, len(rows))
	for ix, row := range rows {
		if ix >= len(nodes) {
			break
		}
		node := nodes[ix]
		var b strings.Builder
		b.WriteString(gridCells(node, row, maxLanes))
		b.WriteString("  ")
		b.WriteString(shortID(node.ID))
		b.WriteString("  ")
		b.WriteString(node.Subject)
		if chips := bookmarkChips(node.Bookmarks); chips != "" {
			b.WriteString("  ")
			b.WriteString(chips)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return lines
}

func gridCells(node graph.Node, row graph.LaneRow, maxLanes int) string {
	var b strings.Builder
	for lane := 0; lane < maxLanes; lane++ {
		b.WriteByte(laneGlyph(node, row, lane))
		if lane == maxLanes-1 {
			continue
		}
		// Extend the connector through the gap when it covers both
		// neighbouring lanes.
		if lane+1 < row.LaneCount && horizontalAt(row, lane) && horizontalAt(row, lane+1) {
			b.WriteByte('-')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func laneGlyph(node graph.Node, row graph.LaneRow, lane int) byte {
	if lane >= row.LaneCount {
		return ' '
	}
	if lane == row.NodeLane {
		if node.IsWorkingCopyParent {
			return '@'
		}
		return '*'
	}
	if horizontalAt(row, lane) {
		return '-'
	}
	if row.TopVertical[lane] || row.BottomVertical[lane] {
		return '|'
	}
	return ' '
}

func horizontalAt(row graph.LaneRow, lane int) bool {
	return lane < len(row.Horizontal) && row.Horizontal[lane]
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func bookmarkChips(bookmarks []graph.BookmarkRef) string {
	if len(bookmarks) == 0 {
		return ""
	}
	chips := make([]string, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		chip := bookmark.Name
		if bookmark.Scope == graph.ScopeRemote {
			chip = fmt.Sprintf("%s@%s", bookmark.Name, bookmark.Remote)
		}
		if bookmark.Conflicted {
			chip += "??"
		} else if bookmark.NeedsPush {
			chip += "+"
		}
		chips = append(chips, chip)
	}
	return "[" + strings.Join(chips, ", ") + "]"
}
