// Package worldmeta reads a save's level.dat (C3), extracting the world
// name, version, enabled file datapacks, and caching its icon, grounded on
// original_source/src-tauri/src/load/world.rs and src-tauri/src/cache.rs.
package worldmeta

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"advancetrack/internal/model"
	"advancetrack/internal/nbt"
)

const (
	defaultName    = "World"
	defaultVersion = "Unknown"
)

// Read parses worldPath/level.dat into a model.World. cacheDir is used to
// cache the world icon (icon.png) if present; iconURLPrefix is the URL
// prefix under which the cache directory is served (e.g. "/cached"). A
// missing level.dat yields the default name and version and no datapacks.
func Read(worldPath, cacheDir, iconURLPrefix string) (model.World, error) {
	levelPath := filepath.Join(worldPath, "level.dat")
	raw, err := os.ReadFile(levelPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return model.World{}, model.Wrap(model.KindIO, "read level.dat", err)
		}
		iconPath, err := cacheWorldIcon(worldPath, cacheDir, iconURLPrefix)
		if err != nil {
			return model.World{}, err
		}
		return model.World{Name: defaultName, Version: defaultVersion, IconPath: iconPath}, nil
	}

	decompressed, err := maybeGunzip(raw)
	if err != nil {
		return model.World{}, model.Wrap(model.KindIO, "decompress level.dat", err)
	}

	root, err := nbt.Read(bytes.NewReader(decompressed))
	if err != nil {
		return model.World{}, model.Wrap(model.KindSchema, "parse level.dat NBT", err)
	}

	data, ok := root.GetCompound("Data")
	if !ok {
		return model.World{}, model.Wrap(model.KindSchema, "parse level.dat NBT", fmt.Errorf("missing Data compound"))
	}

	name, ok := data.GetString("LevelName")
	if !ok {
		name = defaultName
	}

	version := defaultVersion
	if verComp, ok := data.GetCompound("Version"); ok {
		if v, ok := verComp.GetString("Name"); ok {
			version = v
		}
	}

	enabled, zipped := extractEnabledDatapacks(data)

	iconPath, err := cacheWorldIcon(worldPath, cacheDir, iconURLPrefix)
	if err != nil {
		return model.World{}, err
	}

	return model.World{
		Name:             name,
		Version:          version,
		IconPath:         iconPath,
		EnabledDatapacks: enabled,
		ZippedDatapacks:  zipped,
	}, nil
}

func maybeGunzip(buf []byte) ([]byte, error) {
	if len(buf) >= 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		gr, err := gzip.NewReader(bytes.NewReader(buf))
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		return io.ReadAll(gr)
	}
	return buf, nil
}

// extractEnabledDatapacks pulls Data.DataPacks.Enabled, keeping only
// "file/"-prefixed (custom) entries, deduplicating by name with the
// latest occurrence winning, while preserving original relative order.
// It returns directory-backed entries and zip-backed entries (those
// whose raw NBT string ends in ".zip") separately: the former always
// drive C1's archive sources, the latter only when the config's
// honor_zipped_datapacks flag asks buildSources to open them too.
func extractEnabledDatapacks(data nbt.Compound) (dirDatapacks, zipDatapacks []string) {
	datapacks, ok := data.GetCompound("DataPacks")
	if !ok {
		return nil, nil
	}
	list, ok := datapacks.GetList("Enabled")
	if !ok {
		return nil, nil
	}

	var dirEntries, zipEntries []string
	for _, v := range list {
		s, ok := v.(string)
		if !ok || !strings.HasPrefix(s, "file/") {
			continue
		}
		if strings.HasSuffix(s, ".zip") {
			zipEntries = append(zipEntries, s)
		} else {
			dirEntries = append(dirEntries, s)
		}
	}

	return dedupLatestWins(dirEntries, ""), dedupLatestWins(zipEntries, ".zip")
}

// dedupLatestWins strips the "file/" prefix and the given suffix from
// each entry, keeps the latest occurrence of each resulting name, and
// preserves original relative order.
func dedupLatestWins(entries []string, suffix string) []string {
	seen := map[string]struct{}{}
	var filteredRev []string
	for i := len(entries) - 1; i >= 0; i-- {
		trimmed := strings.TrimPrefix(entries[i], "file/")
		dedupKey := strings.TrimSuffix(trimmed, suffix)
		if _, ok := seen[dedupKey]; ok {
			continue
		}
		seen[dedupKey] = struct{}{}
		filteredRev = append(filteredRev, dedupKey)
	}

	out := make([]string, len(filteredRev))
	for i, v := range filteredRev {
		out[len(filteredRev)-1-i] = v
	}
	return out
}

func cacheWorldIcon(worldPath, cacheDir, iconURLPrefix string) (*string, error) {
	srcIcon := filepath.Join(worldPath, "icon.png")
	if _, err := os.Stat(srcIcon); err != nil {
		return nil, nil
	}

	destDir := filepath.Join(cacheDir, "world")
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, model.Wrap(model.KindIO, "create world icon cache dir", err)
	}
	destIcon := filepath.Join(destDir, "icon.png")

	srcBytes, err := os.ReadFile(srcIcon)
	if err != nil {
		return nil, model.Wrap(model.KindIO, "read world icon", err)
	}
	if err := os.WriteFile(destIcon, srcBytes, 0644); err != nil {
		return nil, model.Wrap(model.KindIO, "write cached world icon", err)
	}

	url := strings.TrimSuffix(iconURLPrefix, "/") + "/world/icon.png"
	return &url, nil
}
