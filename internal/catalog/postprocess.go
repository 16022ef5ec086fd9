package catalog

import (
	"encoding/csv"
	"os"
	"sort"

	"advancetrack/internal/model"
	"advancetrack/internal/obslog"
)

// AssignCategories builds the category set from every Root advancement,
// then walks each advancement's parent chain to find the nearest category
// ancestor. A parent cycle is logged and leaves the advancement's category
// empty; a chain that never reaches a root falls back to an arbitrary
// existing category so the field is never left empty when any category
// exists at all.
func AssignCategories(advancements map[string]*model.Advancement) map[string]model.Category {
	categories := map[string]model.Category{}
	for id, adv := range advancements {
		if adv.Type == model.TypeRoot {
			categories[id] = model.Category{Key: id, DisplayName: adv.DisplayName, Icon: adv.Icon}
		}
	}

	var fallback string
	if len(categories) > 0 {
		keys := make([]string, 0, len(categories))
		for k := range categories {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fallback = keys[0]
	}

	for id, adv := range advancements {
		found, cycle := resolveCategory(id, advancements, categories)
		if found != "" {
			adv.Category = found
		} else if !cycle && fallback != "" {
			adv.Category = fallback
		}
	}

	return categories
}

// resolveCategory returns the nearest category ancestor of id, and whether
// the walk stopped on a parent cycle.
func resolveCategory(id string, advancements map[string]*model.Advancement, categories map[string]model.Category) (string, bool) {
	visited := map[string]struct{}{}
	current := id
	for {
		if _, seen := visited[current]; seen {
			obslog.Get(obslog.CategoryCatalog).Warn("advancement parent cycle detected starting at %q; category left empty", current)
			return "", true
		}
		visited[current] = struct{}{}

		if _, ok := categories[current]; ok {
			return current, false
		}

		adv, ok := advancements[current]
		if !ok || adv.Parent == nil {
			return "", false
		}
		current = *adv.Parent
	}
}

// spreadsheetRow is one row of the optional overlay CSV.
type spreadsheetRow struct {
	ID                 string
	Class              string
	RequirementDetails string
}

// LoadSpreadsheet reads the "Actual Name"/"Class"/"Actual Requirements (if
// different)" overlay CSV; a missing file yields an empty overlay and a
// single "Unknown" class, matching the original's behavior.
func LoadSpreadsheet(path string) (map[string]spreadsheetRow, []string) {
	f, err := os.Open(path)
	if err != nil {
		return map[string]spreadsheetRow{}, []string{"Unknown"}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		obslog.Get(obslog.CategoryCatalog).Warn("malformed spreadsheet CSV %s: %v", path, err)
		return map[string]spreadsheetRow{}, []string{"Unknown"}
	}

	header := records[0]
	idCol, classCol, reqCol := -1, -1, -1
	for i, h := range header {
		switch h {
		case "Actual Name":
			idCol = i
		case "Class":
			classCol = i
		case "Actual Requirements (if different)":
			reqCol = i
		}
	}
	if idCol == -1 || classCol == -1 {
		return map[string]spreadsheetRow{}, []string{"Unknown"}
	}

	overlay := map[string]spreadsheetRow{}
	classSet := map[string]struct{}{}
	for _, row := range records[1:] {
		if idCol >= len(row) || classCol >= len(row) {
			continue
		}
		id := row[idCol]
		class := row[classCol]
		if id == "" || class == "" {
			continue
		}
		var reqDetails string
		if reqCol != -1 && reqCol < len(row) {
			reqDetails = row[reqCol]
		}
		overlay[id] = spreadsheetRow{ID: id, Class: class, RequirementDetails: reqDetails}
		classSet[class] = struct{}{}
	}

	classes := make([]string, 0, len(classSet))
	for c := range classSet {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	return overlay, classes
}

// AssignSpreadsheetInfo copies overlay rows onto their matching advancement.
func AssignSpreadsheetInfo(advancements map[string]*model.Advancement, overlay map[string]spreadsheetRow) {
	for id, row := range overlay {
		adv, ok := advancements[id]
		if !ok {
			continue
		}
		info := model.SpreadsheetInfo{Class: row.Class}
		if row.RequirementDetails != "" {
			details := row.RequirementDetails
			info.RequirementDetails = &details
		}
		adv.SpreadsheetInfo = info
	}
}
