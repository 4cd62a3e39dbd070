package tilemap

// LayerType is one of the six fixed semantic layer categories. Each type has
// a fixed priority; at most one layer of each type exists in a map.
type LayerType string

const (
	LayerNPC        LayerType = "npc"
	LayerEnemy      LayerType = "enemy"
	LayerEvent      LayerType = "event"
	LayerCollision  LayerType = "collision"
	LayerObject     LayerType = "object"
	LayerBackground LayerType = "background"
)

// layerPriorities orders layers for storage; render order is the reverse
// (background drawn first, npc last).
var layerPriorities = map[LayerType]int{
	LayerNPC:        1,
	LayerEnemy:      2,
	LayerEvent:      3,
	LayerCollision:  4,
	LayerObject:     5,
	LayerBackground: 6,
}

// AllLayerTypes lists the types in priority order.
var AllLayerTypes = []LayerType{
	LayerNPC, LayerEnemy, LayerEvent, LayerCollision, LayerObject, LayerBackground,
}

func (t LayerType) Valid() bool {
	_, ok := layerPriorities[t]
	return ok
}

func (t LayerType) Priority() int {
	return layerPriorities[t]
}

// HoldsObjects reports whether painting on this layer type creates MapObjects.
func (t LayerType) HoldsObjects() bool {
	switch t {
	case LayerEvent, LayerEnemy, LayerNPC, LayerObject:
		return true
	}
	return false
}

// Layer is a single tile grid. Data is row-major, Data[y*width+x] holds a GID
// (0 = empty).
type Layer struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Type         LayerType `json:"type"`
	Data         []int     `json:"data"`
	Visible      bool      `json:"visible"`
	Transparency float64   `json:"transparency"`
}

// Clone returns a deep copy.
func (l *Layer) Clone() *Layer {
	cp := *l
	cp.Data = make([]int, len(l.Data))
	copy(cp.Data, l.Data)
	return &cp
}
