package code_analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/meysamhadeli/depscope/code_analyzer/models"
	"github.com/zeebo/xxh3"
)

const (
	snapshotDirName  = ".depscope"
	snapshotFileName = "snapshot.json"
)

// SnapshotManager persists project snapshots so a later run can detect which
// files changed without any VCS involvement.
type SnapshotManager struct {
	rootDir string
}

// NewSnapshotManager creates a snapshot manager rooted at the project directory.
func NewSnapshotManager(rootDir string) *SnapshotManager {
	return &SnapshotManager{rootDir: rootDir}
}

// Build hashes the given files into a fresh snapshot. Files that cannot be
// read are skipped with their error ignored; a missing entry simply shows up
// as added/removed in a later diff.
func (sm *SnapshotManager) Build(files []string) (*models.ProjectSnapshot, error) {
	snapshot := &models.ProjectSnapshot{
		RootDir:   sm.rootDir,
		Timestamp: time.Now(),
		Files:     make(map[string]models.FileSnapshot, len(files)),
	}

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			continue
		}

		rel, err := filepath.Rel(sm.rootDir, file)
		if err != nil {
			rel = file
		}
		rel = strings.ReplaceAll(rel, "\\", "/")

		snapshot.Files[rel] = models.FileSnapshot{
			RelativePath: rel,
			ModTime:      info.ModTime(),
			Size:         info.Size(),
			Hash:         fmt.Sprintf("%016x", xxh3.Hash(content)),
		}
	}

	return snapshot, nil
}

// Save writes the snapshot under <root>/.depscope/snapshot.json.
func (sm *SnapshotManager) Save(snapshot *models.ProjectSnapshot) error {
	dir := filepath.Join(sm.rootDir, snapshotDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, snapshotFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}

// Load reads the stored snapshot. The second return value is false when no
// snapshot has been written yet.
func (sm *SnapshotManager) Load() (*models.ProjectSnapshot, bool, error) {
	path := filepath.Join(sm.rootDir, snapshotDirName, snapshotFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot models.ProjectSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &snapshot, true, nil
}

// Diff compares two snapshots by content hash and reports which relative
// paths were added, modified or removed.
func (sm *SnapshotManager) Diff(old, current *models.ProjectSnapshot) *models.SnapshotDiff {
	diff := &models.SnapshotDiff{}

	for rel, entry := range current.Files {
		previous, existed := old.Files[rel]
		if !existed {
			diff.Added = append(diff.Added, rel)
			continue
		}
		if previous.Hash != entry.Hash {
			diff.Modified = append(diff.Modified, rel)
		}
	}

	for rel := range old.Files {
		if _, exists := current.Files[rel]; !exists {
			diff.Removed = append(diff.Removed, rel)
		}
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Modified)
	sort.Strings(diff.Removed)

	return diff
}
