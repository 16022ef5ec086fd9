// Package snapshot maintains the serialized response body and its
// content hash (C9), grounded on
// original_source/src-tauri/src/main.rs's build_response_bytes/AppState
// (data_bytes/etag, "skip that expensive cloning") and the SHA-256
// hashing idiom in the teacher's internal/world/fs.go (calculateHash).
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"advancetrack/internal/model"
)

// Snapshot holds a state's last-serialized JSON body and its hex-encoded
// SHA-256 hash, used as an HTTP ETag. It is rebuilt under the same write
// lock as the state mutation that invalidated it, so readers taking only
// the state's read lock always see a body/etag pair in sync with each
// other even if not with the very latest mutation in flight.
type Snapshot struct {
	body []byte
	etag string
}

// Build serializes data and computes its hash. Marshal errors are not
// expected here (Data contains no unsupported types) and are treated as
// a programming error via panic, matching serde_json::to_vec's unwrap()
// in the original.
func Build(data model.Data) Snapshot {
	body, err := json.Marshal(data)
	if err != nil {
		panic(model.Wrap(model.KindInvariant, "marshal snapshot data", err))
	}
	sum := sha256.Sum256(body)
	return Snapshot{body: body, etag: hex.EncodeToString(sum[:])}
}

// Body returns the serialized JSON bytes.
func (s Snapshot) Body() []byte { return s.body }

// ETag returns the hex-encoded SHA-256 hash of Body().
func (s Snapshot) ETag() string { return s.etag }

// Matches reports whether a client-supplied If-None-Match value equals
// this snapshot's ETag, i.e. whether a conditional read should answer
// 304 Not Modified instead of re-sending the body.
func (s Snapshot) Matches(ifNoneMatch string) bool {
	return ifNoneMatch != "" && ifNoneMatch == s.etag
}

// Holder is the mutable cell a state update pipeline rebuilds in place.
// It carries its own lock so HTTP read handlers can fetch body/etag
// without taking model.State's broader lock at all; internal/live's
// update pipeline calls Set once per mutation, right after rebuilding
// the snapshot from model.State.Snapshot() while still holding that
// state's write lock.
type Holder struct {
	mu      sync.RWMutex
	current Snapshot
}

// NewHolder builds a Holder already populated from an initial state.
func NewHolder(data model.Data) *Holder {
	return &Holder{current: Build(data)}
}

// Set replaces the held snapshot, typically with snapshot.Build(state.Snapshot())
// computed while the caller still holds model.State's write lock.
func (h *Holder) Set(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = snap
}

// Get returns the current snapshot.
func (h *Holder) Get() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}
