package project

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	backupFile   = "flaremap_backup.json"
	backupMaxAge = 24 * time.Hour
)

// backupBlob wraps the project document with its save time so stale backups
// can be ignored on load.
type backupBlob struct {
	SavedAt time.Time `json:"saved_at"`
	Data    *Data     `json:"data"`
}

// SaveBackup writes the fallback blob under a fixed name in dir.
func SaveBackup(dir string, d *Data) error {
	blob := backupBlob{SavedAt: time.Now(), Data: d}
	raw, err := json.Marshal(blob)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, backupFile), raw, 0o644)
}

// LoadBackup returns the fallback project if a fresh one exists. A missing,
// corrupted, or stale backup yields nil; none of those are fatal.
func LoadBackup(dir string) *Data {
	raw, err := os.ReadFile(filepath.Join(dir, backupFile))
	if err != nil {
		return nil
	}
	var blob backupBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		log.Printf("ignoring corrupted backup: %v", err)
		return nil
	}
	if blob.Data == nil || time.Since(blob.SavedAt) > backupMaxAge {
		return nil
	}
	return blob.Data
}
