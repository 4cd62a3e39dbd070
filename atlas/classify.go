package atlas

import "math"

// Shape heuristics. Components are classified in priority order: floor strips,
// vertical walls, horizontal walls, object rows/columns, sparse regions,
// oversized splits, then the single-sprite default. Thresholds follow the
// tuning that held up across the hand-drawn tilesets this was built against.
const (
	floorWidthFactor    = 1.3
	wallVerticalAspect  = 1.5
	wallHorizontalRatio = 2.0
	wallDenseCutoff     = 0.6
	wallWidthStddev     = 0.30
	wallContinuity      = 0.70
	rowSizeFactor       = 1.5
	gapDensityFraction  = 0.30
	sparseDensity       = 0.4
	sparseAreaFactor    = 2.0
	oversizeFactor      = 1.8
	oversizeDensity     = 0.8
)

func (a *Analyzer) tileSize() (int, int) {
	tw, th := a.TileW, a.TileH
	if tw <= 0 {
		tw = 64
	}
	if th <= 0 {
		th = 32
	}
	return tw, th
}

func (a *Analyzer) classify(m *mask, c component) []Rect {
	tileW, tileH := a.tileSize()
	w, h := c.bounds.W, c.bounds.H
	density := float64(c.count) / float64(w*h)

	rows := rowCounts(m, c)
	cols := colCounts(m, c)

	// a. floor/ground pattern: wide, thin or diamond-silhouetted, repeats
	// horizontally at tile width
	if float64(w) > floorWidthFactor*float64(tileW) && (h <= tileH || diamondProfile(rows)) {
		return verticalStrips(m, c, tileW)
	}

	// b. vertical wall: tall, continuous, dense or evenly wide
	if float64(h) >= wallVerticalAspect*float64(w) &&
		continuity(rows, 10) >= wallContinuity &&
		(density >= wallDenseCutoff || consistentExtent(m, c, 5, false)) {
		return []Rect{c.bounds}
	}

	// c. horizontal wall: the symmetric test
	if float64(w) >= wallHorizontalRatio*float64(h) &&
		continuity(cols, 10) >= wallContinuity &&
		(density >= wallDenseCutoff || consistentExtent(m, c, 5, true)) {
		return []Rect{c.bounds}
	}

	// d. multiple objects arranged in a row or column, split on density gaps
	if float64(w) > rowSizeFactor*float64(tileW) && hasDensityGaps(cols, w/tileW+1) {
		return verticalStrips(m, c, tileW)
	}
	if float64(h) > rowSizeFactor*float64(tileH) && hasDensityGaps(rows, h/tileH+1) {
		return horizontalStrips(m, c, tileH)
	}

	// e. large sparse region: grid of small cells, content cells only
	if density < sparseDensity && float64(w*h) > sparseAreaFactor*float64(tileW*tileH) {
		return gridCells(m, c, min(tileW, tileH))
	}

	// f. oversized non-wall region: split along the longer axis
	if density < oversizeDensity {
		if float64(w) > oversizeFactor*float64(tileW) && w >= h {
			return verticalStrips(m, c, tileW)
		}
		if float64(h) > oversizeFactor*float64(tileH) {
			return horizontalStrips(m, c, tileH)
		}
	}

	// g. default: one sprite
	return []Rect{c.bounds}
}

// rowCounts returns per-row content pixel counts within the component bounds.
func rowCounts(m *mask, c component) []int {
	counts := make([]int, c.bounds.H)
	for y := 0; y < c.bounds.H; y++ {
		for x := 0; x < c.bounds.W; x++ {
			if m.labelAt(c.bounds.X+x, c.bounds.Y+y) == c.id {
				counts[y]++
			}
		}
	}
	return counts
}

func colCounts(m *mask, c component) []int {
	counts := make([]int, c.bounds.W)
	for x := 0; x < c.bounds.W; x++ {
		for y := 0; y < c.bounds.H; y++ {
			if m.labelAt(c.bounds.X+x, c.bounds.Y+y) == c.id {
				counts[x]++
			}
		}
	}
	return counts
}

// diamondProfile reports whether the per-row widths rise to a single peak
// near the middle and taper at both ends, the silhouette of an isometric
// ground diamond.
func diamondProfile(rows []int) bool {
	if len(rows) < 4 {
		return false
	}
	peak, peakAt := 0, 0
	for i, v := range rows {
		if v > peak {
			peak, peakAt = v, i
		}
	}
	if peak == 0 {
		return false
	}
	n := len(rows)
	if peakAt < n/4 || peakAt > 3*n/4 {
		return false
	}
	return float64(rows[0]) < 0.5*float64(peak) && float64(rows[n-1]) < 0.5*float64(peak)
}

// continuity splits counts into segments and returns the fraction of
// segments containing any content.
func continuity(counts []int, segments int) float64 {
	if len(counts) == 0 || segments <= 0 {
		return 0
	}
	if segments > len(counts) {
		segments = len(counts)
	}
	nonEmpty := 0
	for s := 0; s < segments; s++ {
		lo := s * len(counts) / segments
		hi := (s + 1) * len(counts) / segments
		for i := lo; i < hi; i++ {
			if counts[i] > 0 {
				nonEmpty++
				break
			}
		}
	}
	return float64(nonEmpty) / float64(segments)
}

// consistentExtent measures the cross-axis extent of the component in each of
// n segments along the main axis and reports whether the extents' standard
// deviation stays under 30% of their mean. horizontal selects the axis:
// true measures per-width-segment heights, false per-height-segment widths.
func consistentExtent(m *mask, c component, segments int, horizontal bool) bool {
	main := c.bounds.H
	if horizontal {
		main = c.bounds.W
	}
	if segments > main {
		segments = main
	}
	if segments < 2 {
		return true
	}
	extents := make([]float64, 0, segments)
	for s := 0; s < segments; s++ {
		lo := s * main / segments
		hi := (s + 1) * main / segments
		minCross, maxCross := math.MaxInt, -1
		for i := lo; i < hi; i++ {
			cross := c.bounds.W
			if horizontal {
				cross = c.bounds.H
			}
			for j := 0; j < cross; j++ {
				var px, py int
				if horizontal {
					px, py = c.bounds.X+i, c.bounds.Y+j
				} else {
					px, py = c.bounds.X+j, c.bounds.Y+i
				}
				if m.labelAt(px, py) != c.id {
					continue
				}
				if j < minCross {
					minCross = j
				}
				if j > maxCross {
					maxCross = j
				}
			}
		}
		if maxCross < 0 {
			extents = append(extents, 0)
			continue
		}
		extents = append(extents, float64(maxCross-minCross+1))
	}
	mean := 0.0
	for _, e := range extents {
		mean += e
	}
	mean /= float64(len(extents))
	if mean == 0 {
		return false
	}
	varsum := 0.0
	for _, e := range extents {
		varsum += (e - mean) * (e - mean)
	}
	stddev := math.Sqrt(varsum / float64(len(extents)))
	return stddev/mean < wallWidthStddev
}

// hasDensityGaps splits counts into segments and looks for at least one
// sparse segment (below 30% of the average density) sitting between two
// dense regions.
func hasDensityGaps(counts []int, segments int) bool {
	if segments < 3 {
		segments = 3
	}
	if segments > len(counts) {
		segments = len(counts)
	}
	if segments < 3 {
		return false
	}
	sums := make([]float64, segments)
	total := 0.0
	for s := 0; s < segments; s++ {
		lo := s * len(counts) / segments
		hi := (s + 1) * len(counts) / segments
		for i := lo; i < hi; i++ {
			sums[s] += float64(counts[i])
		}
		total += sums[s]
	}
	avg := total / float64(segments)
	if avg == 0 {
		return false
	}
	denseRegions := 0
	inDense := false
	sawGapBetween := false
	gapSinceLastDense := false
	for _, s := range sums {
		if s >= gapDensityFraction*avg {
			if !inDense {
				denseRegions++
				if denseRegions >= 2 && gapSinceLastDense {
					sawGapBetween = true
				}
				inDense = true
				gapSinceLastDense = false
			}
		} else {
			inDense = false
			if denseRegions > 0 {
				gapSinceLastDense = true
			}
		}
	}
	return denseRegions >= 2 && sawGapBetween
}

// verticalStrips splits the component into tile-width columns, recomputing
// each strip's bounds from its own content pixels.
func verticalStrips(m *mask, c component, stripW int) []Rect {
	var out []Rect
	for x0 := c.bounds.X; x0 < c.bounds.X+c.bounds.W; x0 += stripW {
		x1 := x0 + stripW
		if x1 > c.bounds.X+c.bounds.W {
			x1 = c.bounds.X + c.bounds.W
		}
		if r, ok := contentBounds(m, c, x0, c.bounds.Y, x1, c.bounds.Y+c.bounds.H); ok {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return []Rect{c.bounds}
	}
	return out
}

func horizontalStrips(m *mask, c component, stripH int) []Rect {
	var out []Rect
	for y0 := c.bounds.Y; y0 < c.bounds.Y+c.bounds.H; y0 += stripH {
		y1 := y0 + stripH
		if y1 > c.bounds.Y+c.bounds.H {
			y1 = c.bounds.Y + c.bounds.H
		}
		if r, ok := contentBounds(m, c, c.bounds.X, y0, c.bounds.X+c.bounds.W, y1); ok {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return []Rect{c.bounds}
	}
	return out
}

// gridCells splits the component into size x size cells, keeping only cells
// holding content, each clamped to its own content bounds.
func gridCells(m *mask, c component, size int) []Rect {
	var out []Rect
	for y0 := c.bounds.Y; y0 < c.bounds.Y+c.bounds.H; y0 += size {
		y1 := y0 + size
		if y1 > c.bounds.Y+c.bounds.H {
			y1 = c.bounds.Y + c.bounds.H
		}
		for x0 := c.bounds.X; x0 < c.bounds.X+c.bounds.W; x0 += size {
			x1 := x0 + size
			if x1 > c.bounds.X+c.bounds.W {
				x1 = c.bounds.X + c.bounds.W
			}
			if r, ok := contentBounds(m, c, x0, y0, x1, y1); ok {
				out = append(out, r)
			}
		}
	}
	if len(out) == 0 {
		return []Rect{c.bounds}
	}
	return out
}

// contentBounds computes the tight bounds of the component's pixels within
// the half-open window [x0,x1)x[y0,y1). ok is false for an empty window.
func contentBounds(m *mask, c component, x0, y0, x1, y1 int) (Rect, bool) {
	minX, minY := x1, y1
	maxX, maxY := x0-1, y0-1
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if m.labelAt(x, y) != c.id {
				continue
			}
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}, true
}
