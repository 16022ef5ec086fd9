package model

import "testing"

func TestStripNamespace(t *testing.T) {
	if got := StripNamespace("minecraft:oak_log"); got != "oak_log" {
		t.Errorf("got %q", got)
	}
	if got := StripNamespace("mypack:foo"); got != "mypack:foo" {
		t.Errorf("got %q", got)
	}
	if got := StripNamespace(StripNamespace("minecraft:oak_log")); got != "oak_log" {
		t.Errorf("expected idempotent, got %q", got)
	}
}

func TestNamespace(t *testing.T) {
	if got := Namespace("mypack:foo"); got != "mypack" {
		t.Errorf("got %q", got)
	}
	if got := Namespace("oak_log"); got != DefaultNamespace {
		t.Errorf("got %q", got)
	}
}

func TestTagReference(t *testing.T) {
	if !IsTagReference("#minecraft:logs") {
		t.Error("expected tag reference")
	}
	if IsTagReference("minecraft:logs") {
		t.Error("expected non-tag")
	}
	if got := StripTagMarker("#minecraft:logs"); got != "minecraft:logs" {
		t.Errorf("got %q", got)
	}
}

func TestSubjectValidDropLaw(t *testing.T) {
	item := Subject{Base: BaseItem}
	if item.Valid() {
		t.Error("expected empty-id item to be invalid")
	}
	item.IDs = []string{"stick"}
	if !item.Valid() {
		t.Error("expected item with ids to be valid")
	}

	stat := Subject{Base: BaseStat}
	if stat.Valid() {
		t.Error("expected valueless stat to be invalid")
	}
	v := 3
	stat.Value = &v
	if !stat.Valid() {
		t.Error("expected stat with value to be valid")
	}

	entity := Subject{Base: BaseEntity}
	if !entity.Valid() {
		t.Error("expected entity with no ids to still be valid")
	}
}

func TestSupplementHelpers(t *testing.T) {
	var s Subject
	if !s.Supplements.IsEmpty() {
		t.Error("expected nil supplements to be empty")
	}

	level := 3
	s.AddEnchantment(Enchantment{ID: "sharpness", Level: &level})
	s.AddEffectSupplement(EffectSupplement{ID: "speed"})
	s.AddEntitySupplement(EntitySupplement{ID: "zombie"})
	s.SetBiomeSupplement("plains")

	if s.Supplements.IsEmpty() {
		t.Fatal("expected populated supplements")
	}
	if len(s.Supplements.Enchantments) != 1 || s.Supplements.Enchantments[0].ID != "sharpness" {
		t.Errorf("got %+v", s.Supplements.Enchantments)
	}
	if len(s.Supplements.Effects) != 1 || s.Supplements.Effects[0].ID != "speed" {
		t.Errorf("got %+v", s.Supplements.Effects)
	}
	if len(s.Supplements.Entities) != 1 || s.Supplements.Entities[0].ID != "zombie" {
		t.Errorf("got %+v", s.Supplements.Entities)
	}
	if s.Supplements.Biome != "plains" {
		t.Errorf("got %q", s.Supplements.Biome)
	}
}

func TestOrderedRequirementsStableOrderAndEquality(t *testing.T) {
	a := NewOrderedRequirements(map[string][]Subject{
		"zeta":  {{Base: BaseItem, IDs: []string{"stick"}}},
		"alpha": {{Base: BaseBlock, IDs: []string{"oak_log"}}},
	})
	keys := a.Keys()
	if len(keys) != 2 || keys[0] != "alpha" || keys[1] != "zeta" {
		t.Fatalf("got %v", keys)
	}

	b := NewOrderedRequirements(map[string][]Subject{
		"alpha": {{Base: BaseBlock, IDs: []string{"oak_log"}}},
		"zeta":  {{Base: BaseItem, IDs: []string{"stick"}}},
	})
	if !a.Equal(b) {
		t.Error("expected equal regardless of insertion order")
	}

	aBytes, err := a.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	bBytes, err := b.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(aBytes) != string(bBytes) {
		t.Errorf("expected byte-identical serialization, got %s vs %s", aBytes, bBytes)
	}
}

func TestStateProcessingDebounceSet(t *testing.T) {
	s := New(World{}, &Catalog{Advancements: map[string]*Advancement{}, Categories: map[string]Category{}}, nil, nil)

	s.Lock()
	if !s.TryBeginProcessing("u1") {
		t.Fatal("expected first begin to succeed")
	}
	if s.TryBeginProcessing("u1") {
		t.Fatal("expected second begin for same uuid to fail")
	}
	if !s.IsProcessing("u1") {
		t.Fatal("expected u1 to be marked processing")
	}
	s.EndProcessing("u1")
	if s.IsProcessing("u1") {
		t.Fatal("expected u1 to no longer be processing")
	}
	s.Unlock()
}
