package loadctx

import (
	"os"
	"path/filepath"
	"testing"

	"advancetrack/internal/archive"
)

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

func TestParseLangKey(t *testing.T) {
	cases := []struct {
		key      string
		wantType LangType
		wantID   string
		wantOK   bool
	}{
		{"item.minecraft.diamond", LangItem, "diamond", true},
		{"block.mypack.custom_block", LangBlock, "mypack:custom_block", true},
		{"advancements.story.root.title", LangAdvancement, "advancements.story.root.title", true},
		{"gui.done", "", "", false},
	}
	for _, c := range cases {
		gotType, gotID, gotOK := parseLangKey(c.key)
		if gotType != c.wantType || gotID != c.wantID || gotOK != c.wantOK {
			t.Errorf("parseLangKey(%q) = (%v, %q, %v), want (%v, %q, %v)",
				c.key, gotType, gotID, gotOK, c.wantType, c.wantID, c.wantOK)
		}
	}
}

func TestSharedBlockItemMerge(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "assets/minecraft/lang/en_us.json",
		`{"item.minecraft.oak_log": "Oak Log", "block.minecraft.oak_log": "Oak Log"}`)

	src := archive.NewDirSource(root, "minecraft")
	ctx, err := Build([]archive.Source{src})
	if err != nil {
		t.Fatal(err)
	}

	entry, ok := ctx.lang["oak_log"]
	if !ok {
		t.Fatal("expected oak_log entry")
	}
	if !entry.SharedBlockItemFlag {
		t.Errorf("expected shared block/item flag set")
	}
}

func TestOverrideLaw(t *testing.T) {
	root1 := t.TempDir()
	writeFile(t, root1, "assets/minecraft/lang/en_us.json", `{"item.minecraft.diamond": "Diamond"}`)
	root2 := t.TempDir()
	writeFile(t, root2, "assets/minecraft/lang/en_us.json", `{"item.minecraft.diamond": "Diamant"}`)

	ctx, err := Build([]archive.Source{
		archive.NewDirSource(root1, "minecraft"),
		archive.NewDirSource(root2, "override"),
	})
	if err != nil {
		t.Fatal(err)
	}

	name, ok := ctx.Translate("diamond")
	if !ok || name != "Diamant" {
		t.Errorf("got %q, %v, want %q", name, ok, "Diamant")
	}
}

func TestExpandTagTerminatesOnCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data/minecraft/tags/items/a.json", `{"values": ["#minecraft:b", "minecraft:gold_ingot"]}`)
	writeFile(t, root, "data/minecraft/tags/items/b.json", `{"values": ["#minecraft:a", "minecraft:iron_ingot"]}`)

	src := archive.NewDirSource(root, "minecraft")
	ctx, err := Build([]archive.Source{src})
	if err != nil {
		t.Fatal(err)
	}

	out := ctx.ExpandTag("#minecraft:a")
	want := map[string]bool{"gold_ingot": true, "iron_ingot": true}
	if len(out) != len(want) {
		t.Fatalf("got %v", out)
	}
	for _, v := range out {
		if !want[v] {
			t.Errorf("unexpected value %q", v)
		}
	}
}

func TestRecipeResult(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data/minecraft/recipe/stone_pickaxe.json",
		`{"type": "minecraft:crafting_shaped", "result": {"id": "minecraft:stone_pickaxe", "count": 1}}`)

	src := archive.NewDirSource(root, "minecraft")
	ctx, err := Build([]archive.Source{src})
	if err != nil {
		t.Fatal(err)
	}

	item, ok := ctx.Recipe("minecraft:stone_pickaxe")
	if !ok || item != "stone_pickaxe" {
		t.Errorf("got %q, %v", item, ok)
	}
}
