package storage

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// FileMedium stores each key as a file under baseDir. Writes go through a
// temp file and rename so a crash mid-write never leaves a corrupt blob.
type FileMedium struct {
	baseDir string
}

func NewFileMedium(baseDir string) (*FileMedium, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &FileMedium{baseDir: baseDir}, nil
}

func (f *FileMedium) path(key string) string {
	// Keys are namespaced identifiers, not user input, but keep them
	// filesystem-safe anyway.
	safe := strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(f.baseDir, safe+".json")
}

func (f *FileMedium) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("storage: read %s failed: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

func (f *FileMedium) Set(key string, value []byte) error {
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(key))
}

func (f *FileMedium) Remove(key string) error {
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *FileMedium) Clear() error {
	entries, err := os.ReadDir(f.baseDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(f.baseDir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (f *FileMedium) Exists(key string) bool {
	_, err := os.Stat(f.path(key))
	return err == nil
}
