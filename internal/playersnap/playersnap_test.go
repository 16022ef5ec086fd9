package playersnap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadPlayersStatsAndProgress(t *testing.T) {
	world := t.TempDir()
	statsDir := filepath.Join(world, "stats")
	advDir := filepath.Join(world, "advancements")
	if err := os.MkdirAll(statsDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(advDir, 0755); err != nil {
		t.Fatal(err)
	}

	uuid := "11111111-1111-1111-1111-111111111111"
	statsJSON := `{
		"stats": {
			"minecraft:used": { "minecraft:diamond_pickaxe": 3 },
			"minecraft:custom": { "minecraft:jump": 42 }
		},
		"DataVersion": 3700
	}`
	if err := os.WriteFile(filepath.Join(statsDir, uuid+".json"), []byte(statsJSON), 0644); err != nil {
		t.Fatal(err)
	}

	advJSON := `{
		"minecraft:story/mine_diamond": {
			"criteria": { "minecraft:diamond_pickaxe": "2025-06-19 23:36:15 +0200" },
			"done": true
		},
		"minecraft:recipes/stone_sword": {
			"criteria": {},
			"done": true
		},
		"DataVersion": 3700
	}`
	if err := os.WriteFile(filepath.Join(advDir, uuid+".json"), []byte(advJSON), 0644); err != nil {
		t.Fatal(err)
	}

	players, progress, err := Read(world)
	if err != nil {
		t.Fatal(err)
	}

	player, ok := players[uuid]
	if !ok {
		t.Fatal("expected player entry")
	}
	if player.Stats["used"]["diamond_pickaxe"] != 3 {
		t.Errorf("got %v", player.Stats)
	}

	byPlayer, ok := progress["story/mine_diamond"]
	if !ok {
		t.Fatal("expected progress entry for story/mine_diamond")
	}
	entry, ok := byPlayer[uuid]
	if !ok || !entry.Done {
		t.Errorf("got %+v, %v", entry, ok)
	}
	if entry.RequirementProgress["diamond_pickaxe"] != "2025-06-19 23:36:15 +0200" {
		t.Errorf("got %v", entry.RequirementProgress)
	}

	if _, ok := progress["recipes/stone_sword"]; ok {
		t.Errorf("expected minecraft:recipes/* advancement entries to be skipped")
	}
}

func TestReadSkipsNonUUIDStatsFiles(t *testing.T) {
	world := t.TempDir()
	statsDir := filepath.Join(world, "stats")
	if err := os.MkdirAll(statsDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(statsDir, "not-a-uuid.json"), []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	players, progress, err := Read(world)
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 0 || len(progress) != 0 {
		t.Errorf("expected non-UUID stats file to be skipped, got %v %v", players, progress)
	}
}

func TestReadOneRejectsNonUUID(t *testing.T) {
	if _, _, err := ReadOne(t.TempDir(), "not-a-uuid"); err == nil {
		t.Fatal("expected error for non-UUID player identifier")
	}
}

func TestReadPlayersMissingStatsDir(t *testing.T) {
	world := t.TempDir()
	players, progress, err := Read(world)
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 0 || len(progress) != 0 {
		t.Errorf("expected empty results, got %v %v", players, progress)
	}
}
