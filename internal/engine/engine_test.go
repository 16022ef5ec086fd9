package engine

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"advancetrack/internal/config"
	"advancetrack/internal/model"
)

func writeZipDatapack(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("data/mypack/advancement/root.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadBuildsStateFromArchiveAndWorld(t *testing.T) {
	archiveDir := t.TempDir()
	writeFile(t, archiveDir, "data/minecraft/advancement/story/root.json", `{
		"display": {"title": "Minecraft", "description": "The story begins", "icon": {"id": "minecraft:grass_block"}},
		"criteria": {"crafting_table": {"trigger": "minecraft:inventory_changed", "conditions": {"items": [{"items": "minecraft:crafting_table"}]}}}
	}`)

	world := t.TempDir()
	if err := os.MkdirAll(filepath.Join(world, "stats"), 0755); err != nil {
		t.Fatal(err)
	}
	const playerUUID = "11111111-1111-1111-1111-111111111111"
	writeFile(t, world, "stats/"+playerUUID+".json", `{"stats": {"minecraft:custom": {"minecraft:jump": 3}}}`)

	cfg := config.Default()
	cfg.ArchivePath = archiveDir
	cfg.WorldPath = world
	cfg.CacheDir = t.TempDir()
	cfg.SpreadsheetPath = filepath.Join(t.TempDir(), "nope.csv")

	e, err := Load(cfg)
	if err != nil {
		t.Fatal(err)
	}

	e.State.RLock()
	defer e.State.RUnlock()

	if _, ok := e.State.Catalog.Advancements["story/root"]; !ok {
		t.Error("expected story/root to be loaded")
	}
	if _, ok := e.State.Players[playerUUID]; !ok {
		t.Error("expected player to be loaded from stats")
	}
	if len(e.Snapshots.Get().Body()) == 0 {
		t.Error("expected a non-empty initial snapshot body")
	}
}

func TestBuildSourcesHonorsZippedDatapacksFlag(t *testing.T) {
	archiveDir := t.TempDir()
	writeFile(t, archiveDir, "data/minecraft/advancement/story/root.json", `{}`)

	world := t.TempDir()
	writeZipDatapack(t, filepath.Join(world, "datapacks", "mypack.zip"))

	cfg := config.Default()
	cfg.ArchivePath = archiveDir
	cfg.WorldPath = world

	w := model.World{ZippedDatapacks: []string{"mypack"}}

	cfg.HonorZippedDatapacks = false
	sources, err := buildSources(cfg, w)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected zipped datapack to be skipped when flag is off, got %d sources", len(sources))
	}

	cfg.HonorZippedDatapacks = true
	sources, err = buildSources(cfg, w)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected zipped datapack to be opened when flag is on, got %d sources", len(sources))
	}
}
