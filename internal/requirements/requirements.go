// Package requirements implements the criteria-to-subjects extractor (C6):
// a recursive dispatch over each criterion's conditions object that
// normalizes wildly varying vanilla/datapack JSON shapes into a small,
// uniform Subject vocabulary. Grounded in shape on
// original_source/src/criteria.rs's recursive dispatch idiom, generalized
// to the much larger field table this system's spec calls for.
package requirements

import (
	"sort"
	"strings"

	"advancetrack/internal/loadctx"
	"advancetrack/internal/model"
)

// RawCriterion is one entry of an advancement's "criteria" object.
type RawCriterion struct {
	Trigger    string
	Conditions map[string]interface{}
}

// Extract builds the ordered per-criterion subject map and the subjects
// common to every criterion (emitted on the advancement as CommonSubjects).
func Extract(criteria map[string]RawCriterion, ctx *loadctx.Context, debug *DebugSink, advancementID string) (*model.OrderedRequirements, []model.Subject) {
	perCriterion := map[string][]model.Subject{}

	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		c := criteria[key]
		subjects := extractCriterion(c.Trigger, c.Conditions, ctx)
		strippedKey := model.StripNamespace(key)
		perCriterion[strippedKey] = subjects
	}

	if debug != nil {
		debug.Record(advancementID, perCriterion)
	}

	return model.NewOrderedRequirements(perCriterion), commonSubjects(perCriterion)
}

// commonSubjects returns the subjects present, by value equality, in every
// non-empty criterion's subject list; an advancement with a single
// criterion, or none at all, has no common subjects.
func commonSubjects(perCriterion map[string][]model.Subject) []model.Subject {
	var lists [][]model.Subject
	for _, subs := range perCriterion {
		if len(subs) > 0 {
			lists = append(lists, subs)
		}
	}
	if len(lists) < 2 {
		return nil
	}

	var out []model.Subject
	for _, candidate := range lists[0] {
		inAll := true
		for _, other := range lists[1:] {
			if !containsSubject(other, candidate) {
				inAll = false
				break
			}
		}
		if inAll && !containsSubject(out, candidate) {
			out = append(out, candidate)
		}
	}
	return out
}

func containsSubject(list []model.Subject, target model.Subject) bool {
	for _, s := range list {
		if subjectsEqual(s, target) {
			return true
		}
	}
	return false
}

func subjectsEqual(a, b model.Subject) bool {
	return a.Base == b.Base && strings.Join(a.IDs, ",") == strings.Join(b.IDs, ",") &&
		a.ID == b.ID && a.Variant == b.Variant && a.CustomName == b.CustomName &&
		a.LootTable == b.LootTable && a.Dimension == b.Dimension
}

// extractCriterion runs one criterion's algorithm: trigger-synthetic
// prepend, then dispatch over the conditions object by field name.
func extractCriterion(trigger string, conditions map[string]interface{}, ctx *loadctx.Context) []model.Subject {
	var subjects []model.Subject

	switch model.StripNamespace(trigger) {
	case "fishing_rod_hooked":
		subjects = append(subjects, model.Subject{Base: model.BaseItem, IDs: []string{"fishing_rod"}})
	case "cured_zombie_villager":
		subjects = append(subjects, model.Subject{Base: model.BaseEntity, ID: "zombie_villager"})
	}

	for _, key := range orderedConditionKeys(conditions) {
		value := conditions[key]
		subjects = append(subjects, dispatchField(key, value, ctx)...)
	}

	return subjects
}

// orderedConditionKeys walks fields in the dispatch table's documented
// order (so ordering is stable across differently-keyed JSON objects).
// Keys outside the table are left out, since dispatchField ignores them.
func orderedConditionKeys(conditions map[string]interface{}) []string {
	priority := []string{
		"items", "item", "fired_from_weapon",
		"blocks", "block",
		"entity", "source", "cause", "bystander", "lightning", "victims", "parent", "partner", "child", "projectile",
		"villager",
		"player",
		"damage", "killing_blow",
		"effects",
		"potion",
		"location",
		"recipe_id",
		"loot_table",
		"advancement",
		"projectile_count",
	}
	seen := map[string]struct{}{}
	var out []string
	for _, k := range priority {
		if _, ok := conditions[k]; ok {
			out = append(out, k)
			seen[k] = struct{}{}
		}
	}
	return out
}

func dispatchField(key string, value interface{}, ctx *loadctx.Context) []model.Subject {
	switch key {
	case "items", "item", "fired_from_weapon":
		return extractItems(value, ctx)
	case "blocks", "block":
		return extractBlocks(value, ctx)
	case "entity", "source", "cause", "bystander", "lightning", "victims", "parent", "partner", "child", "projectile":
		return extractEntities(value, ctx, "")
	case "villager":
		return extractEntities(value, ctx, "villager")
	case "player":
		return extractPlayer(value, ctx)
	case "damage", "killing_blow":
		return extractDamage(value, ctx)
	case "effects":
		return extractEffectsAsSubjects(value)
	case "potion":
		return extractStoredPotion(value)
	case "location":
		return extractLocation(value, ctx)
	case "recipe_id":
		return extractRecipeID(value, ctx)
	case "loot_table":
		return extractLootTable(value)
	case "advancement":
		return extractAdvancementRefs(value)
	case "projectile_count":
		return []model.Subject{{Base: model.BaseItem, IDs: []string{"crossbow"}}}
	default:
		return nil
	}
}

// ensureArray wraps any non-array value into a one-element array; a JSON
// array passes through; nil yields an empty array.
func ensureArray(v interface{}) []interface{} {
	if v == nil {
		return nil
	}
	if arr, ok := v.([]interface{}); ok {
		return arr
	}
	return []interface{}{v}
}

func asObject(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asFloat(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func intPtr(f float64) *int {
	n := int(f)
	return &n
}

// extractCount pulls an integer count from a plain number or a {min,max}
// range (taking min).
func extractCount(v interface{}) *int {
	if f, ok := asFloat(v); ok {
		return intPtr(f)
	}
	if obj := asObject(v); obj != nil {
		if f, ok := asFloat(obj["min"]); ok {
			return intPtr(f)
		}
	}
	return nil
}

// expandIDOrTag resolves a single identifier field value (string, string
// array, or #tag) into a flat list of bare ids.
func expandIDOrTag(v interface{}, ctx *loadctx.Context) []string {
	switch val := v.(type) {
	case string:
		return ctx.ExpandIDOrTag(val)
	case []interface{}:
		var out []string
		for _, e := range val {
			if s, ok := asString(e); ok {
				out = append(out, ctx.ExpandIDOrTag(s)...)
			}
		}
		return out
	default:
		return nil
	}
}

func gatherIDs(obj map[string]interface{}, keys []string, ctx *loadctx.Context) []string {
	var out []string
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			out = append(out, expandIDOrTag(v, ctx)...)
		}
	}
	return out
}
