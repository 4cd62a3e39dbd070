package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if s.Tile.Width != 64 || s.Tile.Height != 32 {
		t.Fatalf("tile size = %dx%d, want 64x32", s.Tile.Width, s.Tile.Height)
	}
	if s.Map.Width != 20 || s.Map.Height != 20 {
		t.Fatalf("map defaults = %dx%d, want 20x20", s.Map.Width, s.Map.Height)
	}
	if s.Detection.AlphaThreshold != 10 {
		t.Fatalf("alpha threshold = %d, want 10", s.Detection.AlphaThreshold)
	}
	if s.Autosave.Standard() != 8*time.Second || s.Autosave.Critical() != 2*time.Second || s.Autosave.Retry() != 15*time.Second {
		t.Fatalf("autosave intervals wrong: %+v", s.Autosave)
	}
}
