// Package pathfind implements 6-connected voxel A* and steering helpers of
// spec.md §4.10, generalized from the teacher's raycast DDA stepping idiom
// (raycast.Cast in this repo) into frontier-priority grid search.
package pathfind

import (
	"container/heap"

	"github.com/fabricengine/fabric/voxel"
)

// Cell is an integer voxel coordinate.
type Cell struct{ X, Y, Z int }

var neighborOffsets = [6]Cell{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Result is the outcome of FindPath.
type Result struct {
	Found         bool
	Waypoints     []Cell
	NodesExpanded int
}

type frontierEntry struct {
	cell     Cell
	f        int
	g        int
	sequence int // insertion order, breaks ties
}

type openHeap []frontierEntry

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].sequence < h[j].sequence
}
func (h openHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any)        { *h = append(*h, x.(frontierEntry)) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func manhattan(a, b Cell) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y) + absInt(a.Z-b.Z)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func walkable(grid voxel.DensityField, c Cell, threshold float32) bool {
	return grid.Get(c.X, c.Y, c.Z) < threshold
}

// FindPath runs A* over the 6-connected voxel grid with Manhattan heuristic
// and unit step cost. Returns found=false if start/goal are not walkable or
// the maxNodes budget is exhausted before reaching goal. Reopening a closed
// node is permitted only when the new g-cost is strictly lower; frontier
// ties break by insertion order.
func FindPath(grid voxel.DensityField, start, goal Cell, threshold float32, maxNodes int) Result {
	if !walkable(grid, start, threshold) || !walkable(grid, goal, threshold) {
		return Result{Found: false}
	}

	open := &openHeap{}
	heap.Init(open)
	seq := 0
	heap.Push(open, frontierEntry{cell: start, f: manhattan(start, goal), g: 0, sequence: seq})
	seq++

	gScore := map[Cell]int{start: 0}
	cameFrom := map[Cell]Cell{}
	closed := map[Cell]bool{}
	expanded := 0

	for open.Len() > 0 {
		if expanded >= maxNodes {
			return Result{Found: false, NodesExpanded: expanded}
		}
		current := heap.Pop(open).(frontierEntry)
		if closed[current.cell] {
			continue
		}
		expanded++

		if current.cell == goal {
			return Result{Found: true, Waypoints: reconstructPath(cameFrom, current.cell), NodesExpanded: expanded}
		}
		closed[current.cell] = true

		for _, off := range neighborOffsets {
			next := Cell{current.cell.X + off.X, current.cell.Y + off.Y, current.cell.Z + off.Z}
			if !walkable(grid, next, threshold) {
				continue
			}
			tentativeG := current.g + 1
			if existingG, seen := gScore[next]; seen && tentativeG >= existingG {
				continue
			}
			if closed[next] && tentativeG >= gScore[next] {
				continue
			}
			delete(closed, next)
			gScore[next] = tentativeG
			cameFrom[next] = current.cell
			heap.Push(open, frontierEntry{cell: next, f: tentativeG + manhattan(next, goal), g: tentativeG, sequence: seq})
			seq++
		}
	}
	return Result{Found: false, NodesExpanded: expanded}
}

func reconstructPath(cameFrom map[Cell]Cell, end Cell) []Cell {
	path := []Cell{end}
	cur := end
	for {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append([]Cell{prev}, path...)
		cur = prev
	}
	return path
}
