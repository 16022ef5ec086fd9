// Package archive provides a uniform read API over the game's compiled jar,
// datapack zip/jar archives, and datapack directory trees, grounded on the
// original implementation's Archive trait (ZipArchive/DirArchive).
package archive

import (
	"strings"
)

// Category is one of the four kinds of file this system cares about.
type Category int

const (
	CategoryAdvancement Category = iota
	CategoryTags
	CategoryRecipe
	CategoryLanguage
)

// Matches reports whether path (forward-slash separated) belongs to this
// category, per §4.1's rules. A path containing a nested "/datapacks/"
// segment never matches any category — datapacks are opened as their own
// archive sources, not traversed through the game archive's datapacks dir.
func (c Category) Matches(path string) bool {
	if strings.Contains(path, "/datapacks/") {
		return false
	}
	switch c {
	case CategoryAdvancement:
		return strings.Contains(path, "/advancement/") && strings.HasSuffix(path, ".json") && !strings.Contains(path, "/recipes/")
	case CategoryTags:
		return strings.Contains(path, "/tags/") && strings.HasSuffix(path, ".json")
	case CategoryRecipe:
		return strings.Contains(path, "/recipe/") && strings.HasSuffix(path, ".json")
	case CategoryLanguage:
		return strings.HasSuffix(path, "/lang/en_us.json")
	default:
		return false
	}
}

// AllCategories lists every category, for callers (C2) that want every
// relevant file in one enumeration pass.
var AllCategories = []Category{CategoryAdvancement, CategoryTags, CategoryRecipe, CategoryLanguage}

// Source is a uniform read API over one archive/datapack location: a
// compressed archive (flat list of forward-slash paths) or a directory
// tree rooted at a folder.
type Source interface {
	// List returns every internal path matching any of the given
	// categories.
	List(categories []Category) ([]string, error)
	// Read returns the UTF-8 text contents of path.
	Read(path string) (string, error)
	// Name is the archive label used in logs and error messages.
	Name() string
}
