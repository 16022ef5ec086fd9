// Package live is the recursive-file-watch update pipeline (C8): an
// fsnotify watcher on a save's advancements/ folder feeds a bounded
// producer/consumer path queue, which debounces per player UUID and
// refreshes just that player's stats and progress, grounded on
// original_source/src-tauri/src/events/update.rs (handle_player_update)
// and shaped after the teacher's internal/core/mangle_watcher.go
// (Start/Stop lifecycle, stopCh/doneCh).
package live

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"advancetrack/internal/model"
	"advancetrack/internal/obslog"
	"advancetrack/internal/playersnap"
)

// Watcher watches worldPath/advancements for create/write events and
// drives the debounced per-player refresh pipeline.
type Watcher struct {
	mu      sync.RWMutex
	watcher *fsnotify.Watcher

	worldPath       string
	advancementsDir string

	state       *model.State
	broadcaster *Broadcaster
	onMutate    func()

	debounceDelay time.Duration
	paths         chan string

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New builds a Watcher rooted at worldPath/advancements. onMutate is
// called with the state's write lock still held, immediately after a
// player's records are updated, so it can rebuild a serialized snapshot
// and hash in the same critical section (see internal/snapshot).
func New(worldPath string, state *model.State, broadcaster *Broadcaster, debounceDelayMS, eventChannelDepth int, onMutate func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, model.Wrap(model.KindIO, "create filesystem watcher", err)
	}
	if debounceDelayMS <= 0 {
		debounceDelayMS = 150
	}
	if eventChannelDepth <= 0 {
		eventChannelDepth = 100
	}
	return &Watcher{
		watcher:         fw,
		worldPath:       worldPath,
		advancementsDir: filepath.Join(worldPath, "advancements"),
		state:           state,
		broadcaster:     broadcaster,
		onMutate:        onMutate,
		debounceDelay:   time.Duration(debounceDelayMS) * time.Millisecond,
		paths:           make(chan string, eventChannelDepth),
		stopCh:          make(chan struct{}),
		doneCh:          make(chan struct{}),
	}, nil
}

// Start begins watching. Idempotent; a second call is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.advancementsDir, 0755); err != nil {
		obslog.Get(obslog.CategoryLive).Warn("failed to create advancements dir %s: %v (continuing anyway)", w.advancementsDir, err)
	}
	if err := w.watcher.Add(w.advancementsDir); err != nil {
		obslog.Get(obslog.CategoryLive).Warn("initial watch failed (dir may not exist yet): %v", err)
	}

	go w.pump(ctx)
	go w.consume(ctx)

	return nil
}

// Stop halts both the filesystem event loop and the consumer.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		obslog.Get(obslog.CategoryLive).Error("error closing watcher: %v", err)
	}
}

// pump is the fsnotify producer: it turns create/write events under
// advancements/ into path sends on the bounded w.paths channel, dropping
// a path rather than blocking if the channel is full.
func (w *Watcher) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			select {
			case w.paths <- event.Name:
			default:
				obslog.Get(obslog.CategoryLive).Warn("event queue full, dropping %s", event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			obslog.Get(obslog.CategoryLive).Error("watcher error: %v", err)
		}
	}
}

// consume is the single debounce consumer: on every path it checks and
// inserts the derived UUID into state's processing set immediately
// (dropping the event if an update for that UUID is already in flight)
// and, on acceptance, spawns the settle-and-read goroutine. This mirrors
// handle_player_update's immediate processing_uuids.insert rather than
// waiting for the per-UUID event stream to go quiet.
func (w *Watcher) consume(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case path, ok := <-w.paths:
			if !ok {
				return
			}
			stem := strings.TrimSuffix(filepath.Base(path), ".json")
			if _, err := uuid.Parse(stem); err != nil {
				obslog.Get(obslog.CategoryLive).Warn("ignoring non-UUID file stem %q: %v", stem, err)
				continue
			}

			w.state.Lock()
			accepted := w.state.TryBeginProcessing(stem)
			w.state.Unlock()
			if !accepted {
				// An update for this UUID is already in flight; this event
				// is coalesced by dropping it, as the in-flight read will
				// pick up the file's eventual settled state.
				continue
			}
			go w.processUpdate(ctx, stem)
		}
	}
}

// processUpdate re-reads the one player's stats and advancement progress,
// merges them into state, rebuilds the snapshot, and broadcasts the
// update. Grounded directly on handle_player_update in
// original_source/src-tauri/src/events/update.rs, including its 150ms
// settle sleep before reading.
func (w *Watcher) processUpdate(ctx context.Context, playerUUID string) {
	defer func() {
		w.state.Lock()
		w.state.EndProcessing(playerUUID)
		w.state.Unlock()
	}()

	select {
	case <-ctx.Done():
		return
	case <-time.After(w.debounceDelay):
	}

	player, progress, err := playersnap.ReadOne(w.worldPath, playerUUID)
	if err != nil {
		obslog.Get(obslog.CategoryLive).Error("failed to re-read player %s: %v", playerUUID, err)
		return
	}

	w.state.Lock()

	if existing, ok := w.state.Players[playerUUID]; ok {
		existing.Stats = player.Stats
		player = existing
	} else {
		w.state.Players[playerUUID] = player
	}

	for _, byPlayer := range w.state.Progress {
		delete(byPlayer, playerUUID)
	}
	for advKey, details := range progress {
		byPlayer, ok := w.state.Progress[advKey]
		if !ok {
			byPlayer = map[string]model.AdvancementProgress{}
			w.state.Progress[advKey] = byPlayer
		}
		byPlayer[playerUUID] = details
	}

	if w.onMutate != nil {
		w.onMutate()
	}

	w.state.Unlock()

	if w.broadcaster != nil {
		w.broadcaster.Publish(UpdateEvent{
			Kind:            KindProgressUpdate,
			UUID:            playerUUID,
			Player:          player.Clone(),
			UpdatedProgress: progress,
		})
	}

	obslog.Get(obslog.CategoryLive).Info("processed update for player %s", playerUUID)
}
