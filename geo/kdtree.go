package geo

import (
	"sort"

	"github.com/jwhandley/railisochrone/model"
)

// kdNode is one node of a bulk-loaded, dimension-3 KD-tree.
type kdNode struct {
	point [3]float64
	stop  model.StopId
	axis  int
	left  *kdNode
	right *kdNode
}

// StopIndex is a 3-D KD-tree over unit-sphere points, mapping a query
// (lat, lon, radius) to the set of stops within that geodesic radius.
// Built once at network build time; read-only and safe for concurrent
// queries thereafter.
type StopIndex struct {
	root *kdNode
}

type kdEntry struct {
	point [3]float64
	stop  model.StopId
}

// NewStopIndex bulk-loads a KD-tree from (lat, lon, id) triples. The
// order of points does not affect query results, only tree shape.
func NewStopIndex(stops map[model.StopId]model.Stop) *StopIndex {
	entries := make([]kdEntry, 0, len(stops))
	for id, s := range stops {
		entries = append(entries, kdEntry{point: ToUnit(s.Lat, s.Lon), stop: id})
	}
	return &StopIndex{root: buildKD(entries, 0)}
}

func buildKD(entries []kdEntry, depth int) *kdNode {
	if len(entries) == 0 {
		return nil
	}

	axis := depth % 3
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].point[axis] < entries[j].point[axis]
	})

	mid := len(entries) / 2
	node := &kdNode{
		point: entries[mid].point,
		stop:  entries[mid].stop,
		axis:  axis,
	}
	node.left = buildKD(entries[:mid], depth+1)
	node.right = buildKD(entries[mid+1:], depth+1)
	return node
}

// WithinRadius returns, as a range-over-func iterator, every
// (StopId, distanceMeters) pair within radiusM great-circle metres of
// (lat, lon). Order is unspecified.
func (idx *StopIndex) WithinRadius(lat, lon, radiusM float64) func(func(model.StopId, float64) bool) {
	target := ToUnit(lat, lon)
	maxChord2 := MetersToChord2(radiusM)

	return func(yield func(model.StopId, float64) bool) {
		searchKD(idx.root, target, maxChord2, yield)
	}
}

// searchKD reports false (via yield) to stop early; it returns false
// itself to propagate that upward through the recursion.
func searchKD(n *kdNode, target [3]float64, maxChord2 float64, yield func(model.StopId, float64) bool) bool {
	if n == nil {
		return true
	}

	d2 := sqDist(n.point, target)
	if d2 <= maxChord2 {
		if !yield(n.stop, Chord2ToMeters(d2)) {
			return false
		}
	}

	diff := target[n.axis] - n.point[n.axis]

	near, far := n.left, n.right
	if diff > 0 {
		near, far = n.right, n.left
	}

	if !searchKD(near, target, maxChord2, yield) {
		return false
	}

	// Only descend into the far side if the splitting plane itself
	// is within range: points in the far subtree cannot be closer
	// to target than |diff| along this axis.
	if diff*diff <= maxChord2 {
		if !searchKD(far, target, maxChord2, yield) {
			return false
		}
	}

	return true
}
