// Package playersnap reads a save's per-player stats and advancement
// progress files (C4), grounded on
// original_source/src-tauri/src/load/world.rs (read_players,
// read_player_stats, read_player_advancement_progress).
package playersnap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"advancetrack/internal/model"
	"advancetrack/internal/obslog"
)

// Read scans worldPath/stats and worldPath/advancements, keyed by player
// UUID (the stats filename stem), and returns both the player roster and
// the per-advancement, per-player progress index.
func Read(worldPath string) (map[string]*model.Player, map[string]map[string]model.AdvancementProgress, error) {
	players := map[string]*model.Player{}
	progress := map[string]map[string]model.AdvancementProgress{}

	statsDir := filepath.Join(worldPath, "stats")
	entries, err := os.ReadDir(statsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return players, progress, nil
		}
		return nil, nil, model.Wrap(model.KindIO, "read stats directory", err)
	}

	advancementsDir := filepath.Join(worldPath, "advancements")

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")
		if err := uuid.Validate(stem); err != nil {
			obslog.Get(obslog.CategoryPlayer).Warn("skipping non-UUID stats file %q: %v", entry.Name(), err)
			continue
		}

		stats, err := readPlayerStats(filepath.Join(statsDir, entry.Name()))
		if err != nil {
			return nil, nil, err
		}
		players[stem] = &model.Player{UUID: stem, Stats: stats}

		playerProgress, err := readPlayerAdvancementProgress(filepath.Join(advancementsDir, stem+".json"))
		if err != nil {
			return nil, nil, err
		}
		for advKey, details := range playerProgress {
			byPlayer, ok := progress[advKey]
			if !ok {
				byPlayer = map[string]model.AdvancementProgress{}
				progress[advKey] = byPlayer
			}
			byPlayer[stem] = details
		}
	}

	return players, progress, nil
}

// ReadOne re-reads a single player's stats and advancement progress files,
// for use by the live-update pipeline (C8) which only needs to refresh the
// one UUID that changed rather than rescan the whole save.
func ReadOne(worldPath, playerUUID string) (*model.Player, map[string]model.AdvancementProgress, error) {
	if err := uuid.Validate(playerUUID); err != nil {
		return nil, nil, model.Wrap(model.KindIO, "re-read player", err)
	}
	stats, err := readPlayerStats(filepath.Join(worldPath, "stats", playerUUID+".json"))
	if err != nil {
		return nil, nil, err
	}
	progress, err := readPlayerAdvancementProgress(filepath.Join(worldPath, "advancements", playerUUID+".json"))
	if err != nil {
		return nil, nil, err
	}
	return &model.Player{UUID: playerUUID, Stats: stats}, progress, nil
}

func readPlayerStats(path string) (map[string]map[string]int64, error) {
	raw, err := readJSONOrEmpty(path)
	if err != nil {
		return nil, err
	}
	stats := map[string]map[string]int64{}
	if raw == nil {
		return stats, nil
	}

	categories, _ := raw["stats"].(map[string]interface{})
	for category, v := range categories {
		statsMap, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		categoryStats := map[string]int64{}
		for statKey, statValue := range statsMap {
			var n int64
			if f, ok := statValue.(float64); ok {
				n = int64(f)
			}
			categoryStats[model.StripNamespace(statKey)] = n
		}
		stats[model.StripNamespace(category)] = categoryStats
	}
	return stats, nil
}

func readPlayerAdvancementProgress(path string) (map[string]model.AdvancementProgress, error) {
	raw, err := readJSONOrEmpty(path)
	if err != nil {
		return nil, err
	}
	out := map[string]model.AdvancementProgress{}
	if raw == nil {
		return out, nil
	}

	for key, v := range raw {
		if key == "DataVersion" || strings.Contains(key, "minecraft:recipes") {
			continue
		}
		entryBytes, err := json.Marshal(v)
		if err != nil {
			continue
		}
		var entry struct {
			Criteria            map[string]string `json:"criteria"`
			RequirementProgress map[string]string `json:"requirement_progress"`
			Done                bool              `json:"done"`
		}
		if err := json.Unmarshal(entryBytes, &entry); err != nil {
			continue
		}
		criteria := entry.Criteria
		if criteria == nil {
			criteria = entry.RequirementProgress
		}

		reqProgress := make(map[string]string, len(criteria))
		for reqKey, date := range criteria {
			reqProgress[model.StripNamespace(reqKey)] = date
		}

		out[model.StripNamespace(key)] = model.AdvancementProgress{
			RequirementProgress: reqProgress,
			Done:                entry.Done,
		}
	}
	return out, nil
}

// readJSONOrEmpty returns nil, nil if path does not exist or is not valid
// JSON, matching the original's "treat unreadable player file as absent"
// behavior rather than failing the whole load.
func readJSONOrEmpty(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil
	}
	return raw, nil
}
