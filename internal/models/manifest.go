package models

import "time"

// ManifestVersion is written into every backup.
const ManifestVersion = 1

// Manifest is the single snapshot object exchanged with the remote store.
// It is never persisted locally.
type Manifest struct {
	Ideas      []Idea `json:"ideas"`
	Todos      []Todo `json:"todos"`
	Version    int    `json:"version"`
	BackupTime int64  `json:"backupTime"`
}

// NewManifest builds a manifest stamped with now. Nil slices are replaced by
// empty ones so the JSON always carries arrays.
func NewManifest(ideas []Idea, todos []Todo, now time.Time) Manifest {
	if ideas == nil {
		ideas = []Idea{}
	}
	if todos == nil {
		todos = []Todo{}
	}
	return Manifest{Ideas: ideas, Todos: todos, Version: ManifestVersion, BackupTime: Millis(now)}
}
