// Package loadctx builds the merged language/tag/recipe context (C2) that
// the advancement loader and requirements extractor consult while reading
// each archive, grounded on original_source/src-tauri/src/load/context.rs.
package loadctx

import (
	"encoding/json"
	"strings"

	"advancetrack/internal/archive"
	"advancetrack/internal/model"
	"advancetrack/internal/obslog"
)

// LangType categorizes a language-file key's first dotted segment.
type LangType string

const (
	LangAdvancement LangType = "advancement"
	LangBiome       LangType = "biome"
	LangBlock       LangType = "block"
	LangEffect      LangType = "effect"
	LangEnchantment LangType = "enchantment"
	LangEntity      LangType = "entity"
	LangInstrument  LangType = "instrument"
	LangItem        LangType = "item"
	LangStat        LangType = "stat"
	LangStatType    LangType = "stat_type"
	LangTrimMaterial LangType = "trim_material"
	LangTrimPattern  LangType = "trim_pattern"
)

var langTypeBySegment = map[string]LangType{
	"advancements":  LangAdvancement,
	"biome":         LangBiome,
	"block":         LangBlock,
	"effect":        LangEffect,
	"enchantment":   LangEnchantment,
	"entity":        LangEntity,
	"instrument":    LangInstrument,
	"item":          LangItem,
	"stat":          LangStat,
	"stat_type":     LangStatType,
	"trim_material": LangTrimMaterial,
	"trim_pattern":  LangTrimPattern,
}

// LangEntry is one entry of the merged language map.
type LangEntry struct {
	Type               LangType
	DisplayName        string
	SharedBlockItemFlag bool
}

// Context is the merged LoadingContext described in §3/§4.2.
type Context struct {
	lang    map[string]*LangEntry
	tags    map[string][]string
	recipes map[string]string
}

// Build iterates the given sources in order (game archive first, then each
// enabled datapack in enabled order), merging language, tag, and recipe
// files; later sources overwrite earlier entries under the same key.
func Build(sources []archive.Source) (*Context, error) {
	ctx := &Context{
		lang:    map[string]*LangEntry{},
		tags:    map[string][]string{},
		recipes: map[string]string{},
	}

	categories := []archive.Category{archive.CategoryLanguage, archive.CategoryTags, archive.CategoryRecipe}

	for _, src := range sources {
		paths, err := src.List(categories)
		if err != nil {
			obslog.Get(obslog.CategoryLoadContext).Warn("listing %s failed: %v", src.Name(), err)
			continue
		}
		for _, path := range paths {
			content, err := src.Read(path)
			if err != nil {
				obslog.Get(obslog.CategoryLoadContext).Warn("reading %s from %s failed: %v", path, src.Name(), err)
				continue
			}
			switch {
			case archive.CategoryLanguage.Matches(path):
				ctx.loadLanguageFile(path, content, src.Name())
			case archive.CategoryTags.Matches(path):
				ctx.loadTagFile(path, content)
			case archive.CategoryRecipe.Matches(path):
				ctx.loadRecipeFile(path, content)
			}
		}
	}

	return ctx, nil
}

func parseLangKey(key string) (LangType, string, bool) {
	parts := strings.Split(key, ".")
	if len(parts) < 3 {
		return "", "", false
	}
	langType, ok := langTypeBySegment[parts[0]]
	if !ok {
		return "", "", false
	}
	if langType == LangAdvancement {
		return langType, key, true
	}
	id := strings.Join(parts[2:], ".")
	if parts[1] != "minecraft" {
		id = parts[1] + ":" + id
	}
	return langType, id, true
}

func (c *Context) loadLanguageFile(path, content, sourceName string) {
	var flat map[string]string
	if err := json.Unmarshal([]byte(content), &flat); err != nil {
		obslog.Get(obslog.CategoryLoadContext).Warn("invalid language JSON in %s (%s): %v", path, sourceName, err)
		return
	}
	for key, displayName := range flat {
		langType, id, ok := parseLangKey(key)
		if !ok {
			continue
		}
		if existing, ok := c.lang[id]; ok {
			if (langType == LangItem && existing.Type == LangBlock) || (langType == LangBlock && existing.Type == LangItem) {
				existing.SharedBlockItemFlag = true
				continue
			}
		}
		c.lang[id] = &LangEntry{Type: langType, DisplayName: displayName}
	}
}

func (c *Context) loadTagFile(path, content string) {
	var raw struct {
		Values []string `json:"values"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		obslog.Get(obslog.CategoryLoadContext).Warn("invalid tag JSON in %s: %v", path, err)
		return
	}
	name, ok := archive.TagName(path)
	if !ok {
		return
	}
	c.tags[name] = raw.Values
}

func (c *Context) loadRecipeFile(path, content string) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return
	}
	id := archive.RecipeID(path)
	if item, ok := recipeResultItem(raw, id); ok {
		c.recipes[id] = item
	}
}

func recipeResultItem(raw map[string]interface{}, recipeID string) (string, bool) {
	if result, ok := raw["result"]; ok {
		switch v := result.(type) {
		case string:
			return model.StripNamespace(v), true
		case map[string]interface{}:
			if id, ok := v["id"].(string); ok {
				return model.StripNamespace(id), true
			}
		}
	}
	if t, _ := raw["type"].(string); t == "minecraft:smithing_trim" {
		if template, ok := raw["template"].(string); ok {
			return model.StripNamespace(template), true
		}
	}
	stem := recipeID
	if idx := strings.LastIndex(recipeID, ":"); idx >= 0 {
		stem = recipeID[idx+1:]
	}
	if stem == "decorated_pot" || stem == "tipped_arrow" {
		return stem, true
	}
	return "", false
}

// Translate returns the language entry's display name, if any.
func (c *Context) Translate(key string) (string, bool) {
	entry, ok := c.lang[key]
	if !ok {
		return "", false
	}
	return entry.DisplayName, true
}

// Recipe looks up the item id produced by a recipe, if known.
func (c *Context) Recipe(recipeID string) (string, bool) {
	item, ok := c.recipes[recipeID]
	return item, ok
}

// ExpandTag recursively expands a tag id (optionally "#"-prefixed) into its
// flattened list of bare identifiers, refusing to re-enter a tag already
// visited in this call so cyclic tag graphs terminate.
func (c *Context) ExpandTag(tagID string) []string {
	visited := map[string]struct{}{}
	return c.expandTag(tagID, visited)
}

func (c *Context) expandTag(tagID string, visited map[string]struct{}) []string {
	id := model.StripTagMarker(tagID)
	if _, seen := visited[id]; seen {
		return nil
	}
	visited[id] = struct{}{}

	values, ok := c.tags[id]
	if !ok {
		return nil
	}

	var out []string
	for _, v := range values {
		if model.IsTagReference(v) {
			out = append(out, c.expandTag(v, visited)...)
		} else {
			out = append(out, model.StripNamespace(v))
		}
	}
	return out
}

// ExpandIDOrTag resolves a single identifier-or-tag field value into its
// flattened list of bare ids: a tag expands via ExpandTag, a bare id
// becomes a one-element list.
func (c *Context) ExpandIDOrTag(value string) []string {
	if model.IsTagReference(value) {
		return c.ExpandTag(value)
	}
	return []string{model.StripNamespace(value)}
}
