package tilemap

import "sort"

// Map is the layered tile grid plus its overlay objects and the hero spawn
// marker. Layers stay sorted by type priority; the invariants (one layer per
// type, at least one layer) are enforced by the mutating methods.
type Map struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	TileW  int `json:"tileWidth"`
	TileH  int `json:"tileHeight"`

	Layers  []*Layer     `json:"layers"`
	Objects []*MapObject `json:"objects"`

	HeroX int `json:"heroX"`
	HeroY int `json:"heroY"`

	nextLayerID  int
	nextObjectID int
}

// defaultLayerNames name the six layers created for a fresh map.
var defaultLayerNames = map[LayerType]string{
	LayerNPC:        "NPCs",
	LayerEnemy:      "Enemies",
	LayerEvent:      "Events",
	LayerCollision:  "Collision",
	LayerObject:     "Objects",
	LayerBackground: "Background",
}

// New creates a map with one layer of every type and the hero at (0,0).
func New(width, height, tileW, tileH int) *Map {
	m := &Map{
		Width:        width,
		Height:       height,
		TileW:        tileW,
		TileH:        tileH,
		nextLayerID:  1,
		nextObjectID: 1,
	}
	for _, t := range AllLayerTypes {
		m.Layers = append(m.Layers, &Layer{
			ID:           m.nextLayerID,
			Name:         defaultLayerNames[t],
			Type:         t,
			Data:         make([]int, width*height),
			Visible:      true,
			Transparency: 1.0,
		})
		m.nextLayerID++
	}
	m.sortLayers()
	return m
}

func (m *Map) sortLayers() {
	sort.SliceStable(m.Layers, func(i, j int) bool {
		return m.Layers[i].Type.Priority() < m.Layers[j].Type.Priority()
	})
}

// InBounds reports whether (x, y) is a valid cell.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// LayerByID returns the layer with the given id, or nil.
func (m *Map) LayerByID(id int) *Layer {
	for _, l := range m.Layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// LayerByType returns the layer of the given type, or nil.
func (m *Map) LayerByType(t LayerType) *Layer {
	for _, l := range m.Layers {
		if l.Type == t {
			return l
		}
	}
	return nil
}

// AddLayer appends a layer of the given type. It fails when the type is
// invalid or a layer of that type already exists; nothing is mutated on
// failure.
func (m *Map) AddLayer(name string, t LayerType) bool {
	if !t.Valid() || m.LayerByType(t) != nil {
		return false
	}
	m.Layers = append(m.Layers, &Layer{
		ID:           m.nextLayerID,
		Name:         name,
		Type:         t,
		Data:         make([]int, m.Width*m.Height),
		Visible:      true,
		Transparency: 1.0,
	})
	m.nextLayerID++
	m.sortLayers()
	return true
}

// DeleteLayer removes the layer with the given id. Deleting the last
// remaining layer fails. Objects backed by the layer's cells are removed
// with it.
func (m *Map) DeleteLayer(id int) bool {
	if len(m.Layers) <= 1 {
		return false
	}
	for i, l := range m.Layers {
		if l.ID != id {
			continue
		}
		if l.Type.HoldsObjects() {
			for y := 0; y < m.Height; y++ {
				for x := 0; x < m.Width; x++ {
					if l.Data[y*m.Width+x] != 0 {
						m.removeObjectAt(l.Type, x, y)
					}
				}
			}
		}
		m.Layers = append(m.Layers[:i], m.Layers[i+1:]...)
		return true
	}
	return false
}

// SetLayerType retypes a layer in place and re-sorts. Fails when the target
// type is invalid or held by another layer.
func (m *Map) SetLayerType(id int, t LayerType) bool {
	l := m.LayerByID(id)
	if l == nil || !t.Valid() {
		return false
	}
	if other := m.LayerByType(t); other != nil && other.ID != id {
		return false
	}
	l.Type = t
	m.sortLayers()
	return true
}

// RenameLayer renames a layer in place.
func (m *Map) RenameLayer(id int, name string) bool {
	l := m.LayerByID(id)
	if l == nil {
		return false
	}
	l.Name = name
	return true
}

// Resize reallocates every layer, copying the overlapping top-left region and
// zero-filling the rest. Objects and the hero falling outside the new bounds
// are dropped or clamped.
func (m *Map) Resize(width, height int) {
	if width < 1 || height < 1 {
		return
	}
	for _, l := range m.Layers {
		data := make([]int, width*height)
		for y := 0; y < height && y < m.Height; y++ {
			for x := 0; x < width && x < m.Width; x++ {
				data[y*width+x] = l.Data[y*m.Width+x]
			}
		}
		l.Data = data
	}
	m.Width = width
	m.Height = height

	kept := m.Objects[:0]
	for _, o := range m.Objects {
		if o.X < width && o.Y < height {
			kept = append(kept, o)
		}
	}
	m.Objects = kept
	m.SetHero(m.HeroX, m.HeroY)
}

// GID returns the value at (x, y) on the given layer, 0 when out of bounds.
func (m *Map) GID(l *Layer, x, y int) int {
	if l == nil || !m.InBounds(x, y) {
		return 0
	}
	return l.Data[y*m.Width+x]
}

// SetGID writes a GID and keeps the object list in lock-step for the
// object-bearing layer types: a nonzero write creates the cell's object, a
// zero write removes it.
func (m *Map) SetGID(l *Layer, x, y, gid int) {
	if l == nil || !m.InBounds(x, y) {
		return
	}
	prev := l.Data[y*m.Width+x]
	l.Data[y*m.Width+x] = gid
	if !l.Type.HoldsObjects() {
		return
	}
	if gid == 0 {
		if prev != 0 {
			m.removeObjectAt(l.Type, x, y)
		}
		return
	}
	if prev != 0 {
		// occupied cell repainted: the object stays, one per cell
		return
	}
	m.Objects = append(m.Objects, &MapObject{
		ID:       m.nextObjectID,
		Type:     objectTypeForLayer(l.Type),
		Category: categoryForLayer(l.Type),
		X:        x,
		Y:        y,
		Width:    1,
		Height:   1,
	})
	m.nextObjectID++
}

func (m *Map) removeObjectAt(t LayerType, x, y int) {
	wantType := objectTypeForLayer(t)
	wantCat := categoryForLayer(t)
	for i, o := range m.Objects {
		if o.X == x && o.Y == y && o.Type == wantType && o.Category == wantCat {
			m.Objects = append(m.Objects[:i], m.Objects[i+1:]...)
			return
		}
	}
}

// ObjectAt returns the object occupying (x, y), or nil.
func (m *Map) ObjectAt(x, y int) *MapObject {
	for _, o := range m.Objects {
		if o.X == x && o.Y == y {
			return o
		}
	}
	return nil
}

// SetHero moves the hero marker, clamped to map bounds.
func (m *Map) SetHero(x, y int) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x >= m.Width {
		x = m.Width - 1
	}
	if y >= m.Height {
		y = m.Height - 1
	}
	m.HeroX = x
	m.HeroY = y
}

// Restore replaces layers and objects wholesale (project load, history
// restore). Counters are advanced past the restored ids.
func (m *Map) Restore(layers []*Layer, objects []*MapObject) {
	m.Layers = layers
	m.Objects = objects
	m.sortLayers()
	for _, l := range layers {
		if l.ID >= m.nextLayerID {
			m.nextLayerID = l.ID + 1
		}
	}
	for _, o := range objects {
		if o.ID >= m.nextObjectID {
			m.nextObjectID = o.ID + 1
		}
	}
}

// CloneLayers deep-copies a layer slice.
func CloneLayers(src []*Layer) []*Layer {
	if src == nil {
		return nil
	}
	res := make([]*Layer, len(src))
	for i, l := range src {
		res[i] = l.Clone()
	}
	return res
}

// CloneObjects deep-copies an object slice.
func CloneObjects(src []*MapObject) []*MapObject {
	if src == nil {
		return nil
	}
	res := make([]*MapObject, len(src))
	for i, o := range src {
		res[i] = o.Clone()
	}
	return res
}
