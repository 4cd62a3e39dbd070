package editor

// StampTile is one cell of a stamp, in coordinates relative to the stamp's
// top-left corner. LayerID records the layer the tile was captured from.
type StampTile struct {
	TileID  int `json:"tileId"`
	LayerID int `json:"layerId"`
	X       int `json:"x"`
	Y       int `json:"y"`
}

// Stamp is a reusable multi-cell pattern.
type Stamp struct {
	ID     int         `json:"id"`
	Name   string      `json:"name"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Tiles  []StampTile `json:"tiles"`
}

// StampLibrary keeps the session's stamps.
type StampLibrary struct {
	stamps []*Stamp
	nextID int
}

func NewStampLibrary() *StampLibrary {
	return &StampLibrary{nextID: 1}
}

func (l *StampLibrary) Add(name string, width, height int, tiles []StampTile) *Stamp {
	s := &Stamp{
		ID:     l.nextID,
		Name:   name,
		Width:  width,
		Height: height,
		Tiles:  tiles,
	}
	l.nextID++
	l.stamps = append(l.stamps, s)
	return s
}

func (l *StampLibrary) Get(id int) *Stamp {
	for _, s := range l.stamps {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (l *StampLibrary) Remove(id int) bool {
	for i, s := range l.stamps {
		if s.ID == id {
			l.stamps = append(l.stamps[:i], l.stamps[i+1:]...)
			return true
		}
	}
	return false
}

func (l *StampLibrary) List() []*Stamp {
	out := make([]*Stamp, len(l.stamps))
	copy(out, l.stamps)
	return out
}
