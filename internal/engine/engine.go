// Package engine wires C1-C10 together into a running load+watch
// pipeline, grounded on original_source/src-tauri/src/load/mod.rs's
// load() orchestration (world read, players read, spawn profile-fetch
// task, load advancements, load spreadsheet, assign spreadsheet info,
// assign categories, apply cached profiles) and main.rs's axum_server
// (build initial response bytes, start the file watcher, start serving).
package engine

import (
	"context"
	"path/filepath"
	"time"

	"advancetrack/internal/archive"
	"advancetrack/internal/catalog"
	"advancetrack/internal/config"
	"advancetrack/internal/live"
	"advancetrack/internal/loadctx"
	"advancetrack/internal/model"
	"advancetrack/internal/obslog"
	"advancetrack/internal/playersnap"
	"advancetrack/internal/profile"
	"advancetrack/internal/requirements"
	"advancetrack/internal/snapshot"
	"advancetrack/internal/worldmeta"
)

// Engine owns the loaded state, its serialized snapshot, the live-update
// watcher, and the profile cache used to fill in player names/avatars.
type Engine struct {
	cfg       config.Config
	State     *model.State
	Snapshots *snapshot.Holder
	Broadcast *live.Broadcaster
	Profiles  *profile.Cache
	DebugSink *requirements.DebugSink

	watcher *live.Watcher
}

// Load runs the full synchronous load pipeline described in load::load():
// world metadata, player snapshot, the advancement catalog (game archive
// plus enabled datapacks), the spreadsheet overlay, and category
// assignment, then applies any already-cached player profiles.
func Load(cfg config.Config) (*Engine, error) {
	if err := obslog.Init(cfg.CacheDir, cfg.Logging.DebugMode); err != nil {
		return nil, model.Wrap(model.KindIO, "init logging", err)
	}

	world, err := worldmeta.Read(cfg.WorldPath, cfg.CacheDir, "/cached")
	if err != nil {
		return nil, err
	}

	players, progress, err := playersnap.Read(cfg.WorldPath)
	if err != nil {
		return nil, err
	}

	sources, err := buildSources(cfg, world)
	if err != nil {
		return nil, err
	}

	ctx, err := loadctx.Build(sources)
	if err != nil {
		return nil, err
	}

	debug := requirements.NewDebugSink()
	advancements := catalog.Load(sources, ctx, debug)
	categories := catalog.AssignCategories(advancements)
	overlay, classes := catalog.LoadSpreadsheet(cfg.SpreadsheetPath)
	catalog.AssignSpreadsheetInfo(advancements, overlay)

	cat := &model.Catalog{Advancements: advancements, Categories: categories, Classes: classes}
	state := model.New(world, cat, players, progress)

	profiles := profile.New(
		cfg.CacheDir,
		time.Duration(cfg.Profile.RequestTimeoutS)*time.Second,
		time.Duration(cfg.Profile.ConnectTimeoutS)*time.Second,
	)
	applyCachedProfiles(state, profiles)

	snapHolder := snapshot.NewHolder(state.Snapshot())

	return &Engine{
		cfg:       cfg,
		State:     state,
		Snapshots: snapHolder,
		Broadcast: live.NewBroadcaster(cfg.Live.BroadcastDepth),
		Profiles:  profiles,
		DebugSink: debug,
	}, nil
}

// buildSources returns the game archive as the first (lowest-priority)
// source followed by every enabled datapack, in listed order, so later
// entries win ties per the override law. Directory-backed datapacks are
// always opened; zip-backed ones (world.ZippedDatapacks) are only opened
// when cfg.HonorZippedDatapacks is set, resolving §9's open question
// about whether zipped datapacks are meant to be honored.
func buildSources(cfg config.Config, world model.World) ([]archive.Source, error) {
	gameSource, err := archive.Open(cfg.ArchivePath, "minecraft")
	if err != nil {
		return nil, model.Wrap(model.KindArchive, "open game archive", err)
	}
	sources := []archive.Source{gameSource}

	datapacksDir := filepath.Join(cfg.WorldPath, "datapacks")
	for _, name := range world.EnabledDatapacks {
		path := filepath.Join(datapacksDir, name)
		src, err := archive.Open(path, name)
		if err != nil {
			obslog.Get(obslog.CategoryLoadContext).Warn("skipping unreadable datapack %s: %v", name, err)
			continue
		}
		sources = append(sources, src)
	}

	if cfg.HonorZippedDatapacks {
		for _, name := range world.ZippedDatapacks {
			path := filepath.Join(datapacksDir, name+".zip")
			src, err := archive.Open(path, name)
			if err != nil {
				obslog.Get(obslog.CategoryLoadContext).Warn("skipping unreadable zipped datapack %s: %v", name, err)
				continue
			}
			sources = append(sources, src)
		}
	}
	return sources, nil
}

// applyCachedProfiles fills in name/avatar for any player already present
// in the profile cache, without making a network call — fresh misses are
// left for a caller-driven background refresh (see RefreshProfilesAsync).
func applyCachedProfiles(state *model.State, profiles *profile.Cache) {
	state.Lock()
	defer state.Unlock()
	for uuid, player := range state.Players {
		if entry, ok := profiles.Get(uuid); ok {
			name := entry.Name
			player.Name = &name
			avatar := "data:image/png;base64," + entry.Face
			player.AvatarURL = &avatar
		}
	}
}

// RefreshProfilesAsync looks up every current player's name/avatar in the
// background (served from the profile cache when present, fetched over
// the network otherwise), mirroring the original's decision to
// spawn the profile fetch concurrently with the rest of load() rather
// than block startup on outbound network calls.
func (e *Engine) RefreshProfilesAsync(ctx context.Context) {
	e.State.RLock()
	uuids := make([]string, 0, len(e.State.Players))
	for uuid := range e.State.Players {
		uuids = append(uuids, uuid)
	}
	e.State.RUnlock()

	for _, uuid := range uuids {
		go func(uuid string) {
			name, avatarURL, ok := e.Profiles.GetOrFetch(ctx, uuid)
			if !ok {
				return
			}
			e.State.Lock()
			if player, exists := e.State.Players[uuid]; exists {
				player.Name = &name
				player.AvatarURL = &avatarURL
				e.Snapshots.Set(snapshot.Build(e.State.Snapshot()))
			}
			e.State.Unlock()
		}(uuid)
	}
}

// StartWatching begins the live filesystem watcher over the save's
// advancements/ folder, rebuilding the snapshot on every player update.
func (e *Engine) StartWatching(ctx context.Context) error {
	w, err := live.New(
		e.cfg.WorldPath,
		e.State,
		e.Broadcast,
		e.cfg.Live.DebounceDelayMS,
		e.cfg.Live.EventChannelDepth,
		func() { e.Snapshots.Set(snapshot.Build(e.State.Snapshot())) },
	)
	if err != nil {
		return err
	}
	e.watcher = w
	return w.Start(ctx)
}

// StopWatching stops the live filesystem watcher, if running.
func (e *Engine) StopWatching() {
	if e.watcher != nil {
		e.watcher.Stop()
	}
}
