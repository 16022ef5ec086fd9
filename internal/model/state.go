package model

import "sync"

// World is the subset of C3's world metadata surfaced in the global state.
type World struct {
	Name             string   `json:"name"`
	Version          string   `json:"version"`
	IconPath         *string  `json:"iconPath,omitempty"`
	EnabledDatapacks []string `json:"-"`

	// ZippedDatapacks lists enabled datapack names stored as
	// datapacks/{name}.zip rather than a directory. Only consulted by
	// the archive-source builder when honor_zipped_datapacks is set.
	ZippedDatapacks []string `json:"-"`
}

// Catalog is the immutable, post-processed advancement set plus its derived
// category index and spreadsheet class list. Never mutated after startup.
type Catalog struct {
	Advancements map[string]*Advancement `json:"advancements"`
	Categories   map[string]Category     `json:"categories"`
	Classes      []string                `json:"classes"`
}

// Data is the full serializable snapshot handed to C9 for hashing and
// broadcast: the immutable catalog plus the live player/progress state.
type Data struct {
	World        World                                      `json:"world"`
	Advancements map[string]*Advancement                    `json:"advancements"`
	Categories   map[string]Category                        `json:"categories"`
	Classes      []string                                   `json:"classes"`
	Players      map[string]*Player                         `json:"players"`
	Progress     map[string]map[string]AdvancementProgress   `json:"progress"`
}

// State is the single top-level record described in §3's "Global state": an
// immutable catalog, a live players map, a transposed progress index, and
// a debounce set of in-flight player UUIDs. The serialized response body
// and its hash live in snapshot.Holder, and update events are fanned out
// by live.Broadcaster. A single coarse RWMutex guards everything but the
// catalog, which is read-only after startup and needs no lock.
type State struct {
	mu sync.RWMutex

	World   World
	Catalog *Catalog // read-only after construction

	Players  map[string]*Player
	Progress map[string]map[string]AdvancementProgress // advancementKey -> playerUUID -> progress

	processingUUIDs map[string]struct{}
}

// New builds a State around an already-loaded catalog and initial player
// snapshot.
func New(world World, catalog *Catalog, players map[string]*Player, progress map[string]map[string]AdvancementProgress) *State {
	if players == nil {
		players = map[string]*Player{}
	}
	if progress == nil {
		progress = map[string]map[string]AdvancementProgress{}
	}
	return &State{
		World:           world,
		Catalog:         catalog,
		Players:         players,
		Progress:        progress,
		processingUUIDs: map[string]struct{}{},
	}
}

// Lock/Unlock/RLock/RUnlock expose the coarse lock described in §5 directly;
// callers (the update pipeline, read-side handlers) take the narrowest one
// their operation needs.
func (s *State) Lock()    { s.mu.Lock() }
func (s *State) Unlock()  { s.mu.Unlock() }
func (s *State) RLock()   { s.mu.RLock() }
func (s *State) RUnlock() { s.mu.RUnlock() }

// TryBeginProcessing inserts uuid into the debounce set, reporting whether
// it was not already present (i.e. whether the caller should proceed).
// Caller must hold the write lock.
func (s *State) TryBeginProcessing(uuid string) bool {
	if _, exists := s.processingUUIDs[uuid]; exists {
		return false
	}
	s.processingUUIDs[uuid] = struct{}{}
	return true
}

// EndProcessing removes uuid from the debounce set. Caller must hold the
// write lock.
func (s *State) EndProcessing(uuid string) {
	delete(s.processingUUIDs, uuid)
}

// IsProcessing reports whether uuid currently has an in-flight update.
// Caller must hold at least the read lock.
func (s *State) IsProcessing(uuid string) bool {
	_, ok := s.processingUUIDs[uuid]
	return ok
}

// Snapshot builds the serializable Data view of the current state. Caller
// must hold at least the read lock.
func (s *State) Snapshot() Data {
	return Data{
		World:        s.World,
		Advancements: s.Catalog.Advancements,
		Categories:   s.Catalog.Categories,
		Classes:      s.Catalog.Classes,
		Players:      s.Players,
		Progress:     s.Progress,
	}
}
