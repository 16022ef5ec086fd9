package requirements

import (
	"regexp"
	"sort"
	"strings"

	"advancetrack/internal/loadctx"
	"advancetrack/internal/model"
	"advancetrack/internal/obslog"
)

// ---- Item ----

func extractItems(value interface{}, ctx *loadctx.Context) []model.Subject {
	var out []model.Subject
	for _, el := range ensureArray(value) {
		obj := asObject(el)
		if obj == nil {
			continue
		}
		subj := model.Subject{Base: model.BaseItem}
		subj.IDs = gatherIDs(obj, []string{"items", "item"}, ctx)
		if v, ok := obj["count"]; ok {
			subj.Count = extractCount(v)
		}
		applyItemComponentsAndPredicates(&subj, obj, ctx)

		if len(subj.IDs) == 0 && subj.Supplements != nil && len(subj.Supplements.Enchantments) > 0 {
			subj.IDs = []string{"enchanted_book"}
		}
		if subj.Valid() {
			out = append(out, subj)
		}
	}
	return out
}

func applyItemComponentsAndPredicates(subj *model.Subject, obj map[string]interface{}, ctx *loadctx.Context) {
	components := asObject(obj["components"])
	predicates := asObject(obj["predicates"])

	if components != nil {
		if variant, ok := instrumentVariant(components["minecraft:instrument"]); ok {
			subj.Variant = variant
		}
		if name, ok := extractTextComponent(components["minecraft:custom_name"]); ok {
			subj.CustomName = name
		}
	}
	if subj.Variant == "" && predicates != nil {
		if variant, ok := instrumentVariant(predicates["minecraft:instrument"]); ok {
			subj.Variant = variant
		}
	}
	if subj.CustomName == "" && predicates != nil {
		if name, ok := extractTextComponent(predicates["minecraft:custom_name"]); ok {
			subj.CustomName = name
		}
	}

	if predicates != nil {
		applyEnchantmentSupplements(subj, predicates, "enchantments", ctx)
		applyEnchantmentSupplements(subj, predicates, "stored_enchantments", ctx)
		applyPotionSupplement(subj, predicates["potion_contents"])
		if trim := asObject(predicates["minecraft:trim"]); trim != nil {
			if material, ok := asString(trim["material"]); ok {
				subj.IDs = append(subj.IDs, model.StripNamespace(material))
			}
		}
	}
	if components != nil {
		applyPotionSupplement(subj, components["minecraft:potion_contents"])
		applySuspiciousStewEffects(subj, components["minecraft:suspicious_stew_effects"])
	}
}

func instrumentVariant(v interface{}) (string, bool) {
	if s, ok := asString(v); ok {
		return model.StripNamespace(s), true
	}
	if obj := asObject(v); obj != nil {
		if s, ok := asString(obj["instrument"]); ok {
			return model.StripNamespace(s), true
		}
	}
	return "", false
}

func extractTextComponent(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case map[string]interface{}:
		if text, ok := asString(t["text"]); ok {
			return text, true
		}
	}
	return "", false
}

func applyEnchantmentSupplements(subj *model.Subject, predicates map[string]interface{}, key string, ctx *loadctx.Context) {
	v, ok := predicates[key]
	if !ok {
		return
	}
	for _, el := range ensureArray(v) {
		obj := asObject(el)
		if obj == nil {
			continue
		}
		ids := expandIDOrTag(obj["enchantments"], ctx)
		level := extractCount(obj["levels"])
		for _, id := range ids {
			subj.AddEnchantment(model.Enchantment{ID: id, Level: level})
		}
	}
}

func applyPotionSupplement(subj *model.Subject, v interface{}) {
	if v == nil {
		return
	}
	switch t := v.(type) {
	case string:
		subj.AddEffectSupplement(model.EffectSupplement{ID: model.StripNamespace(t)})
	case map[string]interface{}:
		if id, ok := asString(t["potion"]); ok {
			subj.AddEffectSupplement(model.EffectSupplement{ID: model.StripNamespace(id)})
		}
	}
}

func applySuspiciousStewEffects(subj *model.Subject, v interface{}) {
	for _, el := range ensureArray(v) {
		obj := asObject(el)
		if obj == nil {
			continue
		}
		if id, ok := asString(obj["id"]); ok {
			subj.AddEffectSupplement(model.EffectSupplement{ID: model.StripNamespace(id)})
		}
	}
}

// ---- Block ----

func extractBlocks(value interface{}, ctx *loadctx.Context) []model.Subject {
	if ids := expandIDOrTag(value, ctx); len(ids) > 0 {
		return []model.Subject{{Base: model.BaseBlock, IDs: ids}}
	}
	var out []model.Subject
	for _, el := range ensureArray(value) {
		obj := asObject(el)
		if obj == nil {
			continue
		}
		ids := gatherIDs(obj, []string{"blocks", "block"}, ctx)
		if len(ids) > 0 {
			out = append(out, model.Subject{Base: model.BaseBlock, IDs: ids})
		}
	}
	return out
}

// ---- Entity ----

var reVariantKey = regexp.MustCompile(`^[a-z0-9_]+:([a-z0-9_]+)/variant$`)

func extractEntities(value interface{}, ctx *loadctx.Context, forcedType string) []model.Subject {
	var out []model.Subject
	for _, el := range ensureArray(value) {
		obj := asObject(el)
		if obj == nil {
			continue
		}
		if cond, ok := asString(obj["condition"]); ok && model.StripNamespace(cond) == "inverted" {
			continue
		}
		out = append(out, extractOneEntityElement(obj, ctx, forcedType)...)
	}
	if len(out) == 0 && forcedType != "" {
		if b, ok := value.(bool); ok && b {
			out = append(out, model.Subject{Base: model.BaseEntity, ID: forcedType})
		}
	}
	return out
}

func extractOneEntityElement(obj map[string]interface{}, ctx *loadctx.Context, forcedType string) []model.Subject {
	var out []model.Subject

	types := resolveEntityTypes(obj, ctx)
	if forcedType != "" && len(types) == 0 {
		types = []string{forcedType}
	}

	if len(types) > 0 {
		for _, t := range types {
			subj := model.Subject{Base: model.BaseEntity, ID: t}
			subj.Variant = resolveEntityVariant(obj, t)
			applyEntityEffects(&subj, obj)
			out = append(out, subj)
			extra := applyEntityNBT(&out[len(out)-1], obj, t)
			out = append(out, extra...)
		}
	} else if src := entityEffectsSource(obj); src != nil {
		out = append(out, extractEffectsAsSubjects(src)...)
	}

	out = append(out, extractEntityLocationAndEquipment(obj, ctx)...)

	return out
}

func resolveEntityTypes(obj map[string]interface{}, ctx *loadctx.Context) []string {
	if obj == nil {
		return nil
	}
	if v, ok := obj["type"]; ok {
		ids := expandIDOrTag(v, ctx)
		ids = filterOutPlayer(ids)
		if len(ids) > 0 {
			return ids
		}
	}
	if components := asObject(obj["components"]); components != nil {
		if t, ok := entityTypeFromVariantKey(components); ok {
			return []string{t}
		}
	}
	for _, nested := range []string{"predicate", "type_specific"} {
		if sub := asObject(obj[nested]); sub != nil {
			if types := resolveEntityTypes(sub, ctx); len(types) > 0 {
				return types
			}
		}
	}
	for k, v := range obj {
		if k == "predicate" || k == "type_specific" || k == "components" || k == "type" {
			continue
		}
		if sub := asObject(v); sub != nil {
			if types := resolveEntityTypes(sub, ctx); len(types) > 0 {
				return types
			}
		}
	}
	return nil
}

func entityTypeFromVariantKey(components map[string]interface{}) (string, bool) {
	keys := make([]string, 0, len(components))
	for k := range components {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m := reVariantKey.FindStringSubmatch(k); m != nil && m[1] != "player" {
			return m[1], true
		}
	}
	return "", false
}

func filterOutPlayer(ids []string) []string {
	var out []string
	for _, id := range ids {
		if strings.Contains(id, "player") {
			continue
		}
		out = append(out, id)
	}
	return out
}

func resolveEntityVariant(obj map[string]interface{}, entityType string) string {
	if components := asObject(obj["components"]); components != nil {
		keys := make([]string, 0, len(components))
		for k := range components {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if strings.HasSuffix(k, "/variant") {
				if s, ok := asString(components[k]); ok {
					return model.StripNamespace(s)
				}
			}
		}
	}
	if s, ok := asString(obj["variant"]); ok {
		return model.StripNamespace(s)
	}
	if ts := asObject(obj["type_specific"]); ts != nil {
		if s, ok := asString(ts["variant"]); ok {
			return model.StripNamespace(s)
		}
	}
	return ""
}

func entityEffectsSource(obj map[string]interface{}) interface{} {
	if v, ok := obj["effects"]; ok {
		return v
	}
	if pred := asObject(obj["predicate"]); pred != nil {
		if v, ok := pred["effects"]; ok {
			return v
		}
	}
	return nil
}

func applyEntityEffects(subj *model.Subject, obj map[string]interface{}) {
	src := entityEffectsSource(obj)
	if src == nil {
		return
	}
	for _, e := range effectEntries(src) {
		subj.AddEffectSupplement(e)
	}
}

func effectEntries(v interface{}) []model.EffectSupplement {
	var out []model.EffectSupplement
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			details := asObject(t[k])
			amp := extractCount(details["amplifier"])
			out = append(out, model.EffectSupplement{ID: model.StripNamespace(k), Amplifier: amp})
		}
	case []interface{}:
		for _, el := range t {
			o := asObject(el)
			if o == nil {
				continue
			}
			id, ok := asString(o["id"])
			if !ok {
				continue
			}
			amp := extractCount(o["amplifier"])
			out = append(out, model.EffectSupplement{ID: model.StripNamespace(id), Amplifier: amp})
		}
	}
	return out
}

func extractEffectsAsSubjects(value interface{}) []model.Subject {
	var out []model.Subject
	for _, e := range effectEntries(value) {
		out = append(out, model.Subject{Base: model.BaseEffect, ID: e.ID, Amplifier: e.Amplifier})
	}
	return out
}

func applyEntityNBT(subj *model.Subject, obj map[string]interface{}, entityType string) []model.Subject {
	nbtStr, ok := asString(obj["nbt"])
	if !ok {
		return nil
	}
	extraction := parseEntityNBT(nbtStr, entityType)
	if extraction.customName != "" {
		subj.CustomName = extraction.customName
	}
	if extraction.variant != "" {
		subj.Variant = extraction.variant
	}
	if extraction.entitySupp != nil {
		subj.AddEntitySupplement(*extraction.entitySupp)
	}
	if extraction.biome != "" {
		subj.SetBiomeSupplement(extraction.biome)
	}

	var extra []model.Subject
	if extraction.blockSubject != nil {
		extra = append(extra, *extraction.blockSubject)
	}
	extra = append(extra, extraction.entitySubjects...)
	extra = append(extra, extraction.itemSubjects...)
	return extra
}

func extractEntityLocationAndEquipment(obj map[string]interface{}, ctx *loadctx.Context) []model.Subject {
	var out []model.Subject
	pred := asObject(obj["predicate"])

	if loc, ok := obj["location"]; ok {
		out = append(out, extractLocation(loc, ctx)...)
	} else if pred != nil {
		if loc, ok := pred["location"]; ok {
			out = append(out, extractLocation(loc, ctx)...)
		}
	}

	if eq, ok := obj["equipment"]; ok {
		out = append(out, extractEquipment(eq, ctx)...)
	} else if pred != nil {
		if eq, ok := pred["equipment"]; ok {
			out = append(out, extractEquipment(eq, ctx)...)
		}
	}
	return out
}

var equipmentSlots = []string{"head", "chest", "legs", "feet", "body", "mainhand", "offhand", "saddle"}

func extractEquipment(v interface{}, ctx *loadctx.Context) []model.Subject {
	obj := asObject(v)
	if obj == nil {
		return nil
	}
	var out []model.Subject
	for _, slot := range equipmentSlots {
		if item, ok := obj[slot]; ok {
			out = append(out, extractItems(item, ctx)...)
		}
	}
	return out
}

// ---- Player ----

func extractPlayer(value interface{}, ctx *loadctx.Context) []model.Subject {
	var out []model.Subject
	for _, el := range ensureArray(value) {
		obj := asObject(el)
		if obj == nil {
			continue
		}
		out = append(out, extractPlayerElement(obj, ctx)...)
	}
	return out
}

func extractPlayerElement(obj map[string]interface{}, ctx *loadctx.Context) []model.Subject {
	if cond, ok := asString(obj["condition"]); ok && model.StripNamespace(cond) == "inverted" {
		return nil
	}

	var out []model.Subject
	pred := asObject(obj["predicate"])

	if pred != nil {
		if eff, ok := pred["effects"]; ok {
			out = append(out, extractEffectsAsSubjects(eff)...)
		}
	}

	if eq, ok := obj["equipment"]; ok {
		out = append(out, extractEquipment(eq, ctx)...)
	} else if pred != nil {
		if eq, ok := pred["equipment"]; ok {
			out = append(out, extractEquipment(eq, ctx)...)
		}
	}

	if pred != nil {
		if vehicle := asObject(pred["vehicle"]); vehicle != nil {
			out = append(out, extractVehicle(vehicle, ctx)...)
		}
		if loc, ok := pred["location"]; ok {
			out = append(out, extractLocation(loc, ctx)...)
		}
		if stepOn := asObject(pred["stepping_on"]); stepOn != nil {
			if block, ok := asString(stepOn["block"]); ok {
				out = append(out, model.Subject{Base: model.BaseBlock, IDs: []string{model.StripNamespace(block)}})
			}
		}
		if ts := asObject(pred["type_specific"]); ts != nil {
			out = append(out, extractPlayerTypeSpecific(ts, ctx)...)
		}
	}

	if terms, ok := obj["terms"]; ok {
		for _, el := range ensureArray(terms) {
			o := asObject(el)
			if o == nil {
				continue
			}
			out = append(out, extractPlayerElement(o, ctx)...)
		}
	}

	return out
}

func extractVehicle(vehicle map[string]interface{}, ctx *loadctx.Context) []model.Subject {
	var out []model.Subject
	if types := resolveEntityTypes(vehicle, ctx); len(types) > 0 {
		for _, t := range types {
			out = append(out, model.Subject{Base: model.BaseEntity, ID: t})
		}
	}
	if loc, ok := vehicle["location"]; ok {
		out = append(out, extractLocation(loc, ctx)...)
	}
	for _, key := range []string{"passenger", "passengers"} {
		if v, ok := vehicle[key]; ok {
			for _, el := range ensureArray(v) {
				o := asObject(el)
				if o == nil {
					continue
				}
				if types := resolveEntityTypes(o, ctx); len(types) > 0 {
					for _, t := range types {
						out = append(out, model.Subject{Base: model.BaseEntity, ID: t})
					}
				}
			}
		}
	}
	if eq, ok := vehicle["equipment"]; ok {
		out = append(out, extractEquipment(eq, ctx)...)
	}
	return out
}

func extractPlayerTypeSpecific(ts map[string]interface{}, ctx *loadctx.Context) []model.Subject {
	var out []model.Subject
	if advs := asObject(ts["advancements"]); advs != nil {
		keys := make([]string, 0, len(advs))
		for k := range advs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if b, ok := advs[k].(bool); ok && b {
				out = append(out, model.Subject{Base: model.BaseAdvancement, ID: model.StripNamespace(k)})
			}
		}
	}
	for _, el := range ensureArray(ts["stats"]) {
		o := asObject(el)
		if o == nil {
			continue
		}
		statType, ok1 := asString(o["type"])
		stat, ok2 := asString(o["stat"])
		value := extractCount(o["value"])
		if ok1 && ok2 && value != nil {
			out = append(out, model.Subject{Base: model.BaseStat, StatType: model.StripNamespace(statType), Target: model.StripNamespace(stat), Value: value})
		}
	}
	if la := asObject(ts["looking_at"]); la != nil {
		if types := resolveEntityTypes(la, ctx); len(types) > 0 {
			for _, t := range types {
				out = append(out, model.Subject{Base: model.BaseEntity, ID: t})
			}
		}
	}
	return out
}

// ---- Damage ----

func extractDamage(value interface{}, ctx *loadctx.Context) []model.Subject {
	obj := asObject(value)
	if obj == nil {
		return nil
	}
	var out []model.Subject
	for _, key := range []string{"source_entity", "direct_entity"} {
		v, ok := obj[key]
		if !ok {
			continue
		}
		out = append(out, extractDamageEntitySource(v, ctx)...)
	}
	return out
}

func extractDamageEntitySource(v interface{}, ctx *loadctx.Context) []model.Subject {
	subs := extractEntities(v, ctx, "")
	if len(subs) > 0 {
		return subs
	}
	if wrapper := asObject(v); wrapper != nil {
		if nested, ok := wrapper["type"]; ok {
			subs = extractEntities(nested, ctx, "")
			if len(subs) > 0 {
				return subs
			}
		}
		if eq, ok := wrapper["equipment"]; ok {
			return extractEquipment(eq, ctx)
		}
	}
	return nil
}

// ---- Location ----

func extractLocation(value interface{}, ctx *loadctx.Context) []model.Subject {
	var out []model.Subject
	for _, el := range ensureArray(value) {
		obj := asObject(el)
		if obj == nil {
			continue
		}
		out = append(out, extractLocationElement(obj, ctx)...)
	}
	return out
}

func extractLocationElement(obj map[string]interface{}, ctx *loadctx.Context) []model.Subject {
	if block, ok := asString(obj["block"]); ok {
		return []model.Subject{{Base: model.BaseBlock, IDs: []string{model.StripNamespace(block)}}}
	}

	if cond, ok := asString(obj["condition"]); ok {
		switch model.StripNamespace(cond) {
		case "match_tool":
			if pred := asObject(obj["predicate"]); pred != nil {
				if items, ok := pred["items"]; ok {
					return extractItems(items, ctx)
				}
			}
			return nil
		case "inverted":
			return nil
		}
	}

	var out []model.Subject

	predSource := obj
	if pred := asObject(obj["predicate"]); pred != nil {
		predSource = pred
	}

	locSubj := model.Subject{Base: model.BaseLocation}
	populated := false

	if biomes := expandIDOrTag(predSource["biomes"], ctx); len(biomes) > 0 {
		locSubj.Biomes = biomes
		populated = true
	}
	if structures := expandIDOrTag(predSource["structures"], ctx); len(structures) > 0 {
		locSubj.Structures = structures
		populated = true
	}
	if dim, ok := asString(predSource["dimension"]); ok {
		locSubj.Dimension = model.StripNamespace(dim)
		populated = true
	}
	if r := extractRange(predSource["x"]); r != nil {
		locSubj.X = r
		populated = true
	}
	if r := extractRange(predSource["y"]); r != nil {
		locSubj.Y = r
		populated = true
	}
	if r := extractRange(predSource["z"]); r != nil {
		locSubj.Z = r
		populated = true
	}

	if populated {
		out = append(out, locSubj)
	}

	if fluid := asObject(predSource["fluid"]); fluid != nil {
		if fluids := expandIDOrTag(fluid["fluids"], ctx); len(fluids) > 0 {
			out = append(out, model.Subject{Base: model.BaseBlock, IDs: fluids})
		}
	}

	if items, ok := predSource["items"]; ok {
		out = append(out, extractItems(items, ctx)...)
	}

	if blockPred := asObject(predSource["block"]); blockPred != nil {
		out = append(out, extractLocationBlockState(blockPred, ctx)...)
	}

	if terms, ok := obj["terms"]; ok {
		for _, el := range ensureArray(terms) {
			o := asObject(el)
			if o == nil {
				continue
			}
			out = append(out, extractLocationElement(o, ctx)...)
		}
	}

	return out
}

func extractRange(v interface{}) *model.Range {
	if v == nil {
		return nil
	}
	if f, ok := asFloat(v); ok {
		return &model.Range{Scalar: &f}
	}
	if obj := asObject(v); obj != nil {
		r := &model.Range{}
		if f, ok := asFloat(obj["min"]); ok {
			r.Min = &f
		}
		if f, ok := asFloat(obj["max"]); ok {
			r.Max = &f
		}
		if r.Min != nil || r.Max != nil {
			return r
		}
	}
	return nil
}

func extractLocationBlockState(blockPred map[string]interface{}, ctx *loadctx.Context) []model.Subject {
	ids := gatherIDs(blockPred, []string{"blocks", "block"}, ctx)
	if len(ids) == 0 {
		return nil
	}
	subj := model.Subject{Base: model.BaseBlock, IDs: ids}
	if state := asObject(blockPred["state"]); state != nil {
		instrument, hasInst := asString(state["instrument"])
		note, hasNote := asString(state["note"])
		switch {
		case hasInst && hasNote:
			subj.Variant = instrument + "_" + note
		case hasInst:
			subj.Variant = instrument
		case hasNote:
			subj.Variant = note
		}
	}
	return []model.Subject{subj}
}

// ---- Miscellaneous top-level fields ----

func extractStoredPotion(value interface{}) []model.Subject {
	s, ok := asString(value)
	if !ok {
		return nil
	}
	id := model.StripNamespace(s)
	subj := model.Subject{Base: model.BaseItem, IDs: []string{id}}
	subj.AddEffectSupplement(model.EffectSupplement{ID: id})
	return []model.Subject{subj}
}

func extractRecipeID(value interface{}, ctx *loadctx.Context) []model.Subject {
	s, ok := asString(value)
	if !ok {
		return nil
	}
	item, found := ctx.Recipe(model.StripNamespace(s))
	if !found {
		obslog.Get(obslog.CategoryRequirements).Debug("recipe_id %q not found in recipe context", s)
		return nil
	}
	return []model.Subject{{Base: model.BaseItem, IDs: []string{item}}}
}

func extractLootTable(value interface{}) []model.Subject {
	s, ok := asString(value)
	if !ok {
		return nil
	}
	return []model.Subject{{Base: model.BaseBlock, IDs: []string{"chest"}, LootTable: s}}
}

func extractAdvancementRefs(value interface{}) []model.Subject {
	var out []model.Subject
	switch v := value.(type) {
	case string:
		out = append(out, model.Subject{Base: model.BaseAdvancement, ID: model.StripNamespace(v)})
	case []interface{}:
		for _, e := range v {
			if s, ok := asString(e); ok {
				out = append(out, model.Subject{Base: model.BaseAdvancement, ID: model.StripNamespace(s)})
			}
		}
	}
	return out
}
