package requirements

import (
	"encoding/json"
	"os"
	"sync"

	"advancetrack/internal/model"
)

// DebugEntry is one advancement's debug side-channel record: its extracted
// per-criterion subjects and, if present, the advancement's raw
// "requirements" OR-groups (json.requirements).
type DebugEntry struct {
	Requirements      map[string][]model.Subject `json:"requirements"`
	RequirementGroups [][]string                 `json:"requirementGroups,omitempty"`
}

// DebugSink accumulates one load run's debug entries. Per-run rather than
// process-global: the catalog loader owns one and threads it through
// Extract explicitly.
type DebugSink struct {
	mu      sync.Mutex
	entries map[string]*DebugEntry
}

// NewDebugSink returns an empty sink ready to accumulate one load run.
func NewDebugSink() *DebugSink {
	return &DebugSink{entries: map[string]*DebugEntry{}}
}

// Record stores an advancement's per-criterion extraction result.
func (d *DebugSink) Record(advancementID string, perCriterion map[string][]model.Subject) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.entries[advancementID]
	if !ok {
		entry = &DebugEntry{}
		d.entries[advancementID] = entry
	}
	entry.Requirements = perCriterion
}

// SetRequirementGroups attaches the advancement's raw requirement groups.
func (d *DebugSink) SetRequirementGroups(advancementID string, groups [][]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.entries[advancementID]
	if !ok {
		entry = &DebugEntry{}
		d.entries[advancementID] = entry
	}
	entry.RequirementGroups = groups
}

// WriteFile backs up any previous debug file at path to path+".bak", then
// writes the accumulated map as pretty JSON.
func (d *DebugSink) WriteFile(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := os.Stat(path); err == nil {
		_ = os.Rename(path, path+".bak")
	}

	data, err := json.MarshalIndent(d.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
