package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Open opens path as a Source: a directory tree if path is a directory, a
// zip/jar archive otherwise.
func Open(path, name string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return NewDirSource(path, name), nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".zip" || ext == ".jar" {
		return OpenZip(path, name)
	}
	return nil, fmt.Errorf("could not open %s: not a directory or zip/jar archive", path)
}

// AdvancementID derives an advancement's catalog key from its archive path:
// "data/{ns}/advancement/{rest}.json" -> "{ns}:{rest}", with a "minecraft:"
// namespace collapsed to the bare path.
func AdvancementID(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) >= 4 && parts[0] == "data" && parts[2] == "advancement" {
		ns := parts[1]
		rest := strings.TrimSuffix(strings.Join(parts[3:], "/"), ".json")
		if ns == "minecraft" {
			return rest
		}
		return ns + ":" + rest
	}
	return strings.TrimSuffix(path, ".json")
}

// TagName derives a tag's full name from its archive path:
// "data/{ns}/tags/{category}/{rest}.json" -> "{ns}:{rest}" (the category
// segment, e.g. "items"/"blocks", is dropped — tags are stored by their
// natural name only).
func TagName(path string) (string, bool) {
	parts := strings.Split(path, "/")
	if len(parts) >= 5 && parts[0] == "data" && parts[2] == "tags" {
		ns := parts[1]
		rest := strings.TrimSuffix(strings.Join(parts[4:], "/"), ".json")
		return ns + ":" + rest, true
	}
	return "", false
}

// RecipeID derives a recipe's map key from its archive path:
// "data/{ns}/recipe/{stem}.json" -> "{ns}:{stem}".
func RecipeID(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) >= 4 && parts[0] == "data" && parts[2] == "recipe" {
		ns := parts[1]
		stem := strings.TrimSuffix(parts[3], ".json")
		return ns + ":" + stem
	}
	return strings.TrimSuffix(path, ".json")
}
