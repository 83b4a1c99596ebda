package models

import "time"

// ProjectSnapshot represents a snapshot of project file states for change detection
type ProjectSnapshot struct {
	RootDir   string                  `json:"root_dir"`
	Timestamp time.Time               `json:"timestamp"`
	Files     map[string]FileSnapshot `json:"files"`
}

// FileSnapshot represents the state of a single file
type FileSnapshot struct {
	RelativePath string    `json:"relative_path"`
	ModTime      time.Time `json:"mod_time"`
	Size         int64     `json:"size"`
	Hash         string    `json:"hash"`
}

// SnapshotDiff lists the files that changed between two snapshots.
type SnapshotDiff struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Removed  []string `json:"removed"`
}

// Changed returns every added or modified path. Removed files have no node
// in the current graph, so they cannot seed an impact traversal.
func (d *SnapshotDiff) Changed() []string {
	changed := make([]string, 0, len(d.Added)+len(d.Modified))
	changed = append(changed, d.Added...)
	changed = append(changed, d.Modified...)
	return changed
}

// Empty reports whether the diff contains no changes at all.
func (d *SnapshotDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Modified) == 0 && len(d.Removed) == 0
}
