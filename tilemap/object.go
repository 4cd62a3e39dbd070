package tilemap

// ObjectType is the exported kind of a MapObject. Tiles painted on the npc
// and object layers are stored as enemy-typed objects with a distinguishing
// Category.
type ObjectType string

const (
	ObjectEvent ObjectType = "event"
	ObjectEnemy ObjectType = "enemy"
)

// MapObject is an overlay record kept in lock-step with the tiles of the
// object-bearing layers: exactly one object per occupied cell.
type MapObject struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Type   ObjectType `json:"type"`
	X      int        `json:"x"`
	Y      int        `json:"y"`
	Width  int        `json:"width"`
	Height int        `json:"height"`

	// Category distinguishes enemy-typed objects: "enemy", "npc" or "object".
	Category string `json:"category,omitempty"`
	// Level is meaningful for enemy-typed objects only.
	Level int `json:"level,omitempty"`
	// Activate is meaningful for event-typed objects only.
	Activate string `json:"activate,omitempty"`

	Properties map[string]string `json:"properties,omitempty"`
}

// Clone returns a deep copy.
func (o *MapObject) Clone() *MapObject {
	cp := *o
	if o.Properties != nil {
		cp.Properties = make(map[string]string, len(o.Properties))
		for k, v := range o.Properties {
			cp.Properties[k] = v
		}
	}
	return &cp
}

// categoryForLayer maps an object-bearing layer type to the category stored
// on the created object.
func categoryForLayer(t LayerType) string {
	switch t {
	case LayerNPC:
		return "npc"
	case LayerObject:
		return "object"
	case LayerEnemy:
		return "enemy"
	}
	return ""
}

// objectTypeForLayer maps an object-bearing layer type to the object type.
func objectTypeForLayer(t LayerType) ObjectType {
	if t == LayerEvent {
		return ObjectEvent
	}
	return ObjectEnemy
}
