// Package catalog loads the advancement catalog (C5) and runs its
// post-processing passes (C7): category assignment and spreadsheet
// overlay. Grounded on
// original_source/src-tauri/src/load/advancements.rs and
// original_source/src-tauri/src/load/mod.rs.
package catalog

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"advancetrack/internal/archive"
	"advancetrack/internal/loadctx"
	"advancetrack/internal/model"
	"advancetrack/internal/obslog"
	"advancetrack/internal/requirements"
)

type advancementJSON struct {
	Display      *displayJSON                          `json:"display"`
	Parent       *string                                `json:"parent"`
	Criteria     map[string]rawCriterionJSON            `json:"criteria"`
	Requirements [][]string                             `json:"requirements"`
}

type rawCriterionJSON struct {
	Trigger    string                 `json:"trigger"`
	Conditions map[string]interface{} `json:"conditions"`
}

type displayJSON struct {
	Title       json.RawMessage `json:"title"`
	Description json.RawMessage `json:"description"`
	Icon        json.RawMessage `json:"icon"`
	Frame       *string         `json:"frame"`
}

// Load reads every advancement file out of sources (already ordered:
// game archive first, then enabled datapacks in order), overriding
// earlier archives' entries with later ones under the same key.
func Load(sources []archive.Source, ctx *loadctx.Context, debug *requirements.DebugSink) map[string]*model.Advancement {
	advancements := map[string]*model.Advancement{}
	categories := []archive.Category{archive.CategoryAdvancement}

	for _, src := range sources {
		paths, err := src.List(categories)
		if err != nil {
			obslog.Get(obslog.CategoryCatalog).Warn("listing advancements in %s failed: %v", src.Name(), err)
			continue
		}
		for _, path := range paths {
			content, err := src.Read(path)
			if err != nil {
				obslog.Get(obslog.CategoryCatalog).Warn("reading %s from %s failed: %v", path, src.Name(), err)
				continue
			}
			id := archive.AdvancementID(path)
			adv, err := parseAdvancement(content, id, ctx, debug)
			if err != nil {
				obslog.Get(obslog.CategoryCatalog).Debug("skipping advancement %s: %v", id, err)
				continue
			}
			advancements[id] = adv
		}
	}

	return advancements
}

func parseAdvancement(content, id string, ctx *loadctx.Context, debug *requirements.DebugSink) (*model.Advancement, error) {
	var raw advancementJSON
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, model.Wrap(model.KindSchema, "parse advancement JSON", err)
	}
	if raw.Display == nil {
		return nil, model.Wrap(model.KindSchema, "advancement has no display", nil)
	}

	criteria := map[string]requirements.RawCriterion{}
	for key, c := range raw.Criteria {
		criteria[key] = requirements.RawCriterion{Trigger: c.Trigger, Conditions: c.Conditions}
	}
	reqs, common := requirements.Extract(criteria, ctx, debug, id)
	if debug != nil {
		debug.SetRequirementGroups(id, raw.Requirements)
	}

	var parent *string
	advType := model.TypeRoot
	if raw.Parent != nil {
		stripped := model.StripNamespace(*raw.Parent)
		parent = &stripped
		advType = model.TypeTask
		if raw.Display.Frame != nil {
			switch *raw.Display.Frame {
			case "challenge":
				advType = model.TypeChallenge
			case "goal":
				advType = model.TypeGoal
			}
		}
	}

	source := model.DefaultNamespace
	if strings.Contains(id, ":") {
		source = strings.SplitN(id, ":", 2)[0]
	}

	return &model.Advancement{
		Key:            id,
		DisplayName:    translateDisplayValue(raw.Display.Title, ctx),
		Description:    translateDisplayValue(raw.Display.Description, ctx),
		Icon:           parseIcon(raw.Display.Icon),
		Type:           advType,
		Source:         source,
		Parent:         parent,
		Requirements:   reqs,
		CommonSubjects: common,
	}, nil
}

func translateDisplayValue(raw json.RawMessage, ctx *loadctx.Context) string {
	if len(raw) == 0 {
		return "UNKNOWN"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if translated, ok := ctx.Translate(s); ok {
			return translated
		}
		return s
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if key, ok := obj["translate"].(string); ok {
			if translated, ok := ctx.Translate(key); ok {
				return translated
			}
			return key
		}
		if text, ok := obj["text"].(string); ok {
			return text
		}
	}
	return "UNKNOWN"
}

func parseIcon(raw json.RawMessage) model.Icon {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return model.Icon{Kind: model.IconItem, Name: "barrier"}
	}
	id, ok := obj["id"].(string)
	if !ok {
		return model.Icon{Kind: model.IconItem, Name: "barrier"}
	}
	if model.StripNamespace(id) == "player_head" {
		if icon, ok := playerHeadIcon(obj); ok {
			return icon
		}
	}
	return model.Icon{Kind: model.IconItem, Name: model.StripNamespace(id)}
}

func playerHeadIcon(obj map[string]interface{}) (model.Icon, bool) {
	components, ok := obj["components"].(map[string]interface{})
	if !ok {
		return model.Icon{}, false
	}
	profile, ok := components["profile"].(map[string]interface{})
	if !ok {
		return model.Icon{}, false
	}
	properties, ok := profile["properties"].([]interface{})
	if !ok {
		return model.Icon{}, false
	}
	for _, p := range properties {
		prop, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		if name, _ := prop["name"].(string); name != "textures" {
			continue
		}
		b64, ok := prop["value"].(string)
		if !ok {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			continue
		}
		var textureData struct {
			Textures struct {
				Skin struct {
					URL string `json:"url"`
				} `json:"SKIN"`
			} `json:"textures"`
		}
		if err := json.Unmarshal(decoded, &textureData); err != nil {
			continue
		}
		skinURL := textureData.Textures.Skin.URL
		if skinURL == "" {
			continue
		}
		parts := strings.Split(skinURL, "/")
		textureID := parts[len(parts)-1]
		if textureID == "" {
			continue
		}
		return model.Icon{Kind: model.IconPlayerHead, TextureID: textureID}, true
	}
	return model.Icon{}, false
}
