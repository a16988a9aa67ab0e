package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dola-guide/dola-events/internal/event"
)

// ArchiveFile is the archive's file name inside the data directory.
const ArchiveFile = "archive.json"

// Storage handles persistence of the event archive
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if dataDir == "~" || strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, strings.TrimPrefix(dataDir, "~"))
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Path returns the archive file location
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, ArchiveFile)
}

// Load reads the archive from disk. A missing file is an empty archive.
func (s *Storage) Load() (*event.Archive, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return event.NewArchive(), nil
		}
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	var archive event.Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("parsing archive: %w", err)
	}

	if archive.Events == nil {
		archive.Events = make(map[string]*event.Event)
	}
	if archive.StableIndex == nil {
		archive.StableIndex = make(map[string]string)
	}
	// A hand-edited file can hold null entries; drop them and any index
	// entry that points at them.
	for id, evt := range archive.Events {
		if evt == nil {
			delete(archive.Events, id)
			continue
		}
		if evt.Seq > archive.NextSeq {
			archive.NextSeq = evt.Seq
		}
		if evt.StableKey != "" {
			archive.StableIndex[evt.StableKey] = id
		}
	}
	for key, id := range archive.StableIndex {
		if _, ok := archive.Events[id]; !ok {
			delete(archive.StableIndex, key)
		}
	}

	return &archive, nil
}

// Save writes the archive to disk, replacing the previous file
func (s *Storage) Save(archive *event.Archive) error {
	archive.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}

	return nil
}
