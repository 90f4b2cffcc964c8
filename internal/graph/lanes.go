package graph

import (
	"cmp"
	"slices"
	"strings"
)

// BuildLaneRows assigns each node a horizontal lane and computes the
// vertical/horizontal connector bitmaps needed to draw the DAG as a
// grid. It is a pure function over the node order: each lane slot holds
// the id of the commit expected to appear later in that lane, the state
// is folded top to bottom, and merges borrow or allocate extra lanes.
//
// Edges whose endpoints are not both in nodes are ignored; the window
// boundary produces such edges routinely.
func BuildLaneRows(nodes []Node, edges []Edge) []LaneRow {
	if len(nodes) == 0 {
		return nil
	}

	rowIndexByID := make(map[string]int, len(nodes))
	for ix, node := range nodes {
		rowIndexByID[node.ID] = ix
	}

	parentIDsByNode := make(map[string][]string)
	for _, edge := range edges {
		if _, ok := rowIndexByID[edge.From]; !ok {
			continue
		}
		if _, ok := rowIndexByID[edge.To]; !ok {
			continue
		}
		parentIDsByNode[edge.From] = append(parentIDsByNode[edge.From], edge.To)
	}
	for id, parentIDs := range parentIDsByNode {
		slices.SortFunc(parentIDs, func(left, right string) int {
			if c := cmp.Compare(rowIndexByID[left], rowIndexByID[right]); c != 0 {
				return c
			}
			return strings.Compare(left, right)
		})
		parentIDsByNode[id] = slices.Compact(parentIDs)
	}

	// A lane slot holds the id the lane is waiting to meet; "" is free.
	var lanes []string
	rows := make([]LaneRow, 0, len(nodes))

	for _, node := range nodes {
		nodeLane := laneIndexForNode(&lanes, node.ID)
		parentIDs := parentIDsByNode[node.ID]

		lanesAfter := slices.Clone(lanes)
		var secondaryParentLanes []int
		if len(parentIDs) == 0 {
			lanesAfter[nodeLane] = ""
		} else {
			lanesAfter[nodeLane] = parentIDs[0]
			for _, parentID := range parentIDs[1:] {
				laneIx := slices.Index(lanesAfter, parentID)
				if laneIx < 0 {
					laneIx = firstFreeLaneIndex(&lanesAfter)
				}
				lanesAfter[laneIx] = parentID
				if laneIx != nodeLane {
					secondaryParentLanes = append(secondaryParentLanes, laneIx)
				}
			}
		}

		for len(lanesAfter) > 0 && lanesAfter[len(lanesAfter)-1] == "" {
			lanesAfter = lanesAfter[:len(lanesAfter)-1]
		}
		slices.Sort(secondaryParentLanes)
		secondaryParentLanes = slices.Compact(secondaryParentLanes)

		laneCount := max(len(lanes), len(lanesAfter), nodeLane+1, 1)
		topVertical := make([]bool, laneCount)
		bottomVertical := make([]bool, laneCount)
		for ix, laneID := range lanes {
			topVertical[ix] = laneID != ""
		}
		for ix, laneID := range lanesAfter {
			bottomVertical[ix] = laneID != ""
		}

		horizontal := make([]bool, laneCount)
		for _, secondaryLane := range secondaryParentLanes {
			start := min(secondaryLane, nodeLane)
			end := max(secondaryLane, nodeLane)
			for ix := start; ix <= end; ix++ {
				horizontal[ix] = true
			}
		}

		rows = append(rows, LaneRow{
			NodeID:               node.ID,
			NodeLane:             nodeLane,
			LaneCount:            laneCount,
			TopVertical:          topVertical,
			BottomVertical:       bottomVertical,
			Horizontal:           horizontal,
			SecondaryParentLanes: secondaryParentLanes,
		})

		lanes = lanesAfter
	}

	return rows
}

// laneIndexForNode reuses the lane already waiting for this node, falls
// back to the first free slot, and appends a new lane otherwise.
func laneIndexForNode(lanes *[]string, nodeID string) int {
	if ix := slices.Index(*lanes, nodeID); ix >= 0 {
		return ix
	}
	return firstFreeLaneIndex(lanes)
}

func firstFreeLaneIndex(lanes *[]string) int {
	if ix := slices.Index(*lanes, ""); ix >= 0 {
		return ix
	}
	*lanes = append(*lanes, "")
	return len(*lanes) - 1
}
