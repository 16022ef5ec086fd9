package requirements

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"advancetrack/internal/archive"
	"advancetrack/internal/loadctx"
	"advancetrack/internal/model"
)

func buildCtx(t *testing.T, files map[string]string) *loadctx.Context {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	ctx, err := loadctx.Build([]archive.Source{archive.NewDirSource(root, "minecraft")})
	require.NoError(t, err)
	return ctx
}

func TestInvertedEntityConditionIgnored(t *testing.T) {
	ctx := buildCtx(t, nil)
	criteria := map[string]RawCriterion{
		"x": {
			Trigger: "minecraft:x",
			Conditions: map[string]interface{}{
				"entity": []interface{}{
					map[string]interface{}{"condition": "minecraft:inverted", "type": "minecraft:zombie"},
				},
			},
		},
	}
	reqs, _ := Extract(criteria, ctx, nil, "test:adv")
	subs, _ := reqs.Get("x")
	require.Empty(t, subs)
}

func TestTagExpansionOrderPreserved(t *testing.T) {
	ctx := buildCtx(t, map[string]string{
		"data/mypack/tags/items/logs.json": `{"values": ["minecraft:oak_log", "#mypack:dark"]}`,
		"data/mypack/tags/items/dark.json": `{"values": ["minecraft:dark_oak_log"]}`,
	})
	criteria := map[string]RawCriterion{
		"c": {
			Trigger: "minecraft:inventory_changed",
			Conditions: map[string]interface{}{
				"items": []interface{}{
					map[string]interface{}{"items": "#mypack:logs"},
				},
			},
		},
	}
	reqs, _ := Extract(criteria, ctx, nil, "test:adv")
	subs, ok := reqs.Get("c")
	require.True(t, ok)
	require.Len(t, subs, 1)
	require.Equal(t, []string{"oak_log", "dark_oak_log"}, subs[0].IDs)
}

func TestEnchantedBookCoercion(t *testing.T) {
	ctx := buildCtx(t, nil)
	criteria := map[string]RawCriterion{
		"c": {
			Trigger: "minecraft:enchanted_item",
			Conditions: map[string]interface{}{
				"items": []interface{}{
					map[string]interface{}{
						"predicates": map[string]interface{}{
							"enchantments": []interface{}{
								map[string]interface{}{
									"enchantments": "minecraft:sharpness",
									"levels":       map[string]interface{}{"min": float64(3)},
								},
							},
						},
					},
				},
			},
		},
	}
	reqs, _ := Extract(criteria, ctx, nil, "test:adv")
	subs, ok := reqs.Get("c")
	require.True(t, ok)
	require.Len(t, subs, 1)

	subj := subs[0]
	require.Equal(t, []string{"enchanted_book"}, subj.IDs)
	require.NotNil(t, subj.Supplements)
	require.Len(t, subj.Supplements.Enchantments, 1)

	ench := subj.Supplements.Enchantments[0]
	require.Equal(t, "sharpness", ench.ID)
	require.NotNil(t, ench.Level)
	require.Equal(t, 3, *ench.Level)
}

func TestCuredVillagerSyntheticEntity(t *testing.T) {
	ctx := buildCtx(t, nil)
	criteria := map[string]RawCriterion{
		"c": {Trigger: "minecraft:cured_zombie_villager", Conditions: map[string]interface{}{}},
	}
	reqs, _ := Extract(criteria, ctx, nil, "test:adv")
	subs, ok := reqs.Get("c")
	require.True(t, ok)
	require.Len(t, subs, 1)
	require.Equal(t, model.BaseEntity, subs[0].Base)
	require.Equal(t, "zombie_villager", subs[0].ID)
}

func TestCriteriaOrderingLexicographic(t *testing.T) {
	ctx := buildCtx(t, nil)
	criteria := map[string]RawCriterion{
		"zeta":  {Trigger: "minecraft:x", Conditions: map[string]interface{}{}},
		"alpha": {Trigger: "minecraft:x", Conditions: map[string]interface{}{}},
	}
	reqs, _ := Extract(criteria, ctx, nil, "test:adv")
	require.Equal(t, []string{"alpha", "zeta"}, reqs.Keys())
}

func TestSubjectDropLaw(t *testing.T) {
	ctx := buildCtx(t, nil)
	tests := []struct {
		name       string
		conditions map[string]interface{}
	}{
		{
			name: "item with no ids and no enchantments is dropped",
			conditions: map[string]interface{}{
				"items": []interface{}{
					map[string]interface{}{},
				},
			},
		},
		{
			name: "stat with no value is dropped",
			conditions: map[string]interface{}{
				"player": []interface{}{
					map[string]interface{}{
						"predicate": map[string]interface{}{
							"type_specific": map[string]interface{}{
								"stats": []interface{}{
									map[string]interface{}{"type": "minecraft:custom", "stat": "minecraft:jump"},
								},
							},
						},
					},
				},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			criteria := map[string]RawCriterion{
				"c": {Trigger: "minecraft:inventory_changed", Conditions: tc.conditions},
			}
			reqs, _ := Extract(criteria, ctx, nil, "test:adv")
			subs, _ := reqs.Get("c")
			require.Empty(t, subs, "expected dropped subject, got %v", subs)
		})
	}
}
