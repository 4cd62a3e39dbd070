package atlas

import (
	"errors"
	"fmt"
	"image"
)

// ErrUnknownBrush is returned for operations naming a GID that does not exist.
var ErrUnknownBrush = errors.New("atlas: unknown brush gid")

// Brush is one detected sprite. Key is a stable identifier that survives
// brush-management edits; the GID is the brush's 1-based position in the set
// and is renumbered by every edit.
type Brush struct {
	Key  int  `json:"key"`
	Rect Rect `json:"rect"`
}

// BrushSet is the ordered GID-to-rectangle mapping for one layer type.
type BrushSet struct {
	brushes []Brush
	nextKey int
}

// NewBrushSet wraps detection output; GIDs are assigned 1..n in order.
func NewBrushSet(rects []Rect) *BrushSet {
	s := &BrushSet{nextKey: 1}
	for _, r := range rects {
		s.brushes = append(s.brushes, Brush{Key: s.nextKey, Rect: r})
		s.nextKey++
	}
	return s
}

func (s *BrushSet) Len() int { return len(s.brushes) }

// Rect returns the source rectangle for a GID.
func (s *BrushSet) Rect(gid int) (Rect, bool) {
	if gid < 1 || gid > len(s.brushes) {
		return Rect{}, false
	}
	return s.brushes[gid-1].Rect, true
}

// Key returns the stable key behind a GID.
func (s *BrushSet) Key(gid int) (int, bool) {
	if gid < 1 || gid > len(s.brushes) {
		return 0, false
	}
	return s.brushes[gid-1].Key, true
}

// GIDForKey returns the current GID of a stable key, 0 if gone.
func (s *BrushSet) GIDForKey(key int) int {
	for i, b := range s.brushes {
		if b.Key == key {
			return i + 1
		}
	}
	return 0
}

// Rects returns the rectangles in GID order.
func (s *BrushSet) Rects() []Rect {
	out := make([]Rect, len(s.brushes))
	for i, b := range s.brushes {
		out[i] = b.Rect
	}
	return out
}

func (s *BrushSet) check(gids ...int) error {
	for _, gid := range gids {
		if gid < 1 || gid > len(s.brushes) {
			return fmt.Errorf("%w: %d (have %d)", ErrUnknownBrush, gid, len(s.brushes))
		}
	}
	return nil
}

// Merge replaces the selected brushes with their bounding union, inserted at
// the first selected brush's position. GIDs are renumbered by compaction.
// The old-GID to new-GID mapping is returned so painted grids can be
// remapped; merged-away GIDs map to the union's new GID.
func (s *BrushSet) Merge(gids []int) (map[int]int, error) {
	if len(gids) < 2 {
		return nil, fmt.Errorf("atlas: merge needs at least 2 brushes, got %d", len(gids))
	}
	if err := s.check(gids...); err != nil {
		return nil, err
	}
	selected := make(map[int]bool, len(gids))
	for _, gid := range gids {
		selected[gid] = true
	}

	union := s.brushes[gids[0]-1].Rect
	for _, gid := range gids[1:] {
		union = unionRect(union, s.brushes[gid-1].Rect)
	}

	remap := make(map[int]int)
	var out []Brush
	mergedGID := 0
	for i, b := range s.brushes {
		gid := i + 1
		if selected[gid] {
			if gid == gids[0] {
				out = append(out, Brush{Key: s.nextKey, Rect: union})
				s.nextKey++
				mergedGID = len(out)
			}
			continue
		}
		out = append(out, b)
		remap[gid] = len(out)
	}
	for _, gid := range gids {
		remap[gid] = mergedGID
	}
	s.brushes = out
	return remap, nil
}

// Separate re-runs component detection inside one brush's rectangle. A clean
// vertical gap split is tried first; when none exists the flood fill decides.
// A result of one or zero pieces is a no-op. The returned remap moves the
// separated GID to the first resulting piece.
func (s *BrushSet) Separate(gid int, img image.Image, a *Analyzer) (map[int]int, error) {
	if err := s.check(gid); err != nil {
		return nil, err
	}
	r := s.brushes[gid-1].Rect
	sub := subImage(img, r)

	pieces := splitOnVerticalGaps(sub, a)
	if len(pieces) <= 1 {
		pieces = a.DetectComponents(sub)
	}
	if len(pieces) <= 1 {
		return nil, nil
	}

	remap := make(map[int]int)
	var out []Brush
	for i, b := range s.brushes {
		cur := i + 1
		if cur != gid {
			out = append(out, b)
			remap[cur] = len(out)
			continue
		}
		first := 0
		for _, p := range pieces {
			out = append(out, Brush{
				Key:  s.nextKey,
				Rect: Rect{X: r.X + p.X, Y: r.Y + p.Y, W: p.W, H: p.H},
			})
			s.nextKey++
			if first == 0 {
				first = len(out)
			}
		}
		remap[cur] = first
	}
	s.brushes = out
	return remap, nil
}

// Remove deletes a brush and compacts the numbering. The removed GID maps
// to 0 (empty) in the returned remap.
func (s *BrushSet) Remove(gid int) (map[int]int, error) {
	if err := s.check(gid); err != nil {
		return nil, err
	}
	remap := make(map[int]int)
	var out []Brush
	for i, b := range s.brushes {
		cur := i + 1
		if cur == gid {
			remap[cur] = 0
			continue
		}
		out = append(out, b)
		remap[cur] = len(out)
	}
	s.brushes = out
	return remap, nil
}

// Reorder moves a brush from one position to another and renumbers.
func (s *BrushSet) Reorder(fromGID, toGID int) (map[int]int, error) {
	if err := s.check(fromGID, toGID); err != nil {
		return nil, err
	}
	if fromGID == toGID {
		return map[int]int{}, nil
	}
	moved := s.brushes[fromGID-1]
	rest := append(append([]Brush{}, s.brushes[:fromGID-1]...), s.brushes[fromGID:]...)
	to := toGID - 1
	out := append(append([]Brush{}, rest[:to]...), moved)
	out = append(out, rest[to:]...)

	remap := make(map[int]int)
	for i, b := range s.brushes {
		for j, nb := range out {
			if nb.Key == b.Key {
				remap[i+1] = j + 1
				break
			}
		}
	}
	s.brushes = out
	return remap, nil
}

// ResetFrom replaces the whole set with fresh detection output.
func (s *BrushSet) ResetFrom(rects []Rect) {
	s.brushes = nil
	for _, r := range rects {
		s.brushes = append(s.brushes, Brush{Key: s.nextKey, Rect: r})
		s.nextKey++
	}
}

// PreserveOrder reorders fresh detection output so rectangles already present
// in the previous set keep their old positions; new rectangles append in
// detection order. Used by the tileset watcher on hot reload.
func PreserveOrder(prev, fresh []Rect) []Rect {
	freshSet := make(map[Rect]bool, len(fresh))
	for _, r := range fresh {
		freshSet[r] = true
	}
	var out []Rect
	used := make(map[Rect]bool)
	for _, r := range prev {
		if freshSet[r] && !used[r] {
			out = append(out, r)
			used[r] = true
		}
	}
	for _, r := range fresh {
		if !used[r] {
			out = append(out, r)
			used[r] = true
		}
	}
	return out
}

func unionRect(a, b Rect) Rect {
	x0, y0 := a.X, a.Y
	if b.X < x0 {
		x0 = b.X
	}
	if b.Y < y0 {
		y0 = b.Y
	}
	x1, y1 := a.X+a.W, a.Y+a.H
	if b.X+b.W > x1 {
		x1 = b.X + b.W
	}
	if b.Y+b.H > y1 {
		y1 = b.Y + b.H
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// subImage copies the window into a standalone RGBA image so detection
// coordinates start at (0,0).
func subImage(img image.Image, r Rect) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	b := img.Bounds()
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			out.Set(x, y, img.At(b.Min.X+r.X+x, b.Min.Y+r.Y+y))
		}
	}
	return out
}

// splitOnVerticalGaps splits the sub-image at fully transparent column runs.
func splitOnVerticalGaps(img image.Image, a *Analyzer) []Rect {
	m := a.buildMask(img)
	occupied := make([]bool, m.w)
	for x := 0; x < m.w; x++ {
		for y := 0; y < m.h; y++ {
			if m.at(x, y) {
				occupied[x] = true
				break
			}
		}
	}
	var out []Rect
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		minY, maxY := m.h, -1
		for y := 0; y < m.h; y++ {
			for x := start; x < end; x++ {
				if m.at(x, y) {
					if y < minY {
						minY = y
					}
					if y > maxY {
						maxY = y
					}
					break
				}
			}
		}
		if maxY >= minY {
			out = append(out, Rect{X: start, Y: minY, W: end - start, H: maxY - minY + 1})
		}
		start = -1
	}
	for x := 0; x < m.w; x++ {
		if occupied[x] {
			if start < 0 {
				start = x
			}
		} else {
			flush(x)
		}
	}
	flush(m.w)
	return out
}
