// Package atlas partitions a tileset image into discrete sprites ("brushes")
// and maintains the ordered GID-to-rectangle mapping the editor paints with.
package atlas

import "image"

const (
	// DefaultAlphaThreshold marks a pixel as content when its alpha exceeds it.
	DefaultAlphaThreshold = 10

	// components with a bounding box smaller than 8x8 pixels of area are noise
	minComponentArea = 64
)

// Rect is a sprite rectangle in tileset image coordinates.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Analyzer detects sprites in a tileset image. Thresholds are tuned around a
// nominal tile size; zero values fall back to sane defaults.
type Analyzer struct {
	AlphaThreshold int
	TileW, TileH   int
}

func NewAnalyzer(tileW, tileH int) *Analyzer {
	return &Analyzer{
		AlphaThreshold: DefaultAlphaThreshold,
		TileW:          tileW,
		TileH:          tileH,
	}
}

// mask is a bitmap of content pixels plus the component label per pixel.
type mask struct {
	w, h    int
	content []bool
	label   []int
}

func (m *mask) at(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.content[y*m.w+x]
}

func (m *mask) labelAt(x, y int) int {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return 0
	}
	return m.label[y*m.w+x]
}

// component is one 8-connected region of content pixels.
type component struct {
	id     int
	bounds Rect // tight content bounds, unpadded
	count  int
}

func (a *Analyzer) threshold() int {
	if a.AlphaThreshold <= 0 {
		return DefaultAlphaThreshold
	}
	return a.AlphaThreshold
}

func (a *Analyzer) buildMask(img image.Image) *mask {
	b := img.Bounds()
	m := &mask{
		w:       b.Dx(),
		h:       b.Dy(),
		content: make([]bool, b.Dx()*b.Dy()),
		label:   make([]int, b.Dx()*b.Dy()),
	}
	thr := uint32(a.threshold()) << 8
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			_, _, _, alpha := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if alpha > thr {
				m.content[y*m.w+x] = true
			}
		}
	}
	return m
}

// findComponents labels 8-connected regions in row-major discovery order.
// The flood fill is iterative; tileset images are large enough to blow the
// stack with recursion.
func findComponents(m *mask) []component {
	var comps []component
	next := 1
	stack := make([][2]int, 0, 256)
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if !m.content[y*m.w+x] || m.label[y*m.w+x] != 0 {
				continue
			}
			c := component{id: next, bounds: Rect{X: x, Y: y, W: 1, H: 1}}
			minX, minY, maxX, maxY := x, y, x, y
			stack = stack[:0]
			stack = append(stack, [2]int{x, y})
			m.label[y*m.w+x] = next
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				px, py := p[0], p[1]
				c.count++
				if px < minX {
					minX = px
				}
				if py < minY {
					minY = py
				}
				if px > maxX {
					maxX = px
				}
				if py > maxY {
					maxY = py
				}
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := px+dx, py+dy
						if m.at(nx, ny) && m.label[ny*m.w+nx] == 0 {
							m.label[ny*m.w+nx] = next
							stack = append(stack, [2]int{nx, ny})
						}
					}
				}
			}
			c.bounds = Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
			comps = append(comps, c)
			next++
		}
	}
	return comps
}

// pad grows a rect by 1px on each side, clamped to the image.
func pad(r Rect, w, h int) Rect {
	x0, y0 := r.X-1, r.Y-1
	x1, y1 := r.X+r.W+1, r.Y+r.H+1
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > w {
		x1 = w
	}
	if y1 > h {
		y1 = h
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Detect partitions the image's content pixels into sprite rectangles.
// Results are ordered by discovery (row-major scan) and are deterministic for
// a fixed image and threshold.
func (a *Analyzer) Detect(img image.Image) []Rect {
	m := a.buildMask(img)
	comps := findComponents(m)

	var out []Rect
	for _, c := range comps {
		if c.bounds.W*c.bounds.H < minComponentArea {
			continue
		}
		for _, r := range a.classify(m, c) {
			out = append(out, pad(r, m.w, m.h))
		}
	}
	return out
}

// DetectComponents runs only the threshold/flood-fill/min-area steps without
// any shape classification. Brush separation reuses it.
func (a *Analyzer) DetectComponents(img image.Image) []Rect {
	m := a.buildMask(img)
	comps := findComponents(m)
	var out []Rect
	for _, c := range comps {
		if c.bounds.W*c.bounds.H < minComponentArea {
			continue
		}
		out = append(out, pad(c.bounds, m.w, m.h))
	}
	return out
}
