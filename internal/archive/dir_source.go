package archive

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirSource reads a directory-tree datapack (unzipped), grounded on the
// original implementation's DirArchive.
type DirSource struct {
	root string
	name string
}

// NewDirSource builds a DirSource rooted at root, labeled name.
func NewDirSource(root, name string) *DirSource {
	return &DirSource{root: root, name: name}
}

// searchSubdirs returns the set of top-level subdirectories (data/, assets/)
// that the given categories require searching.
func searchSubdirs(categories []Category) map[string]struct{} {
	dirs := map[string]struct{}{}
	for _, c := range categories {
		switch c {
		case CategoryAdvancement, CategoryTags, CategoryRecipe:
			dirs["data"] = struct{}{}
		case CategoryLanguage:
			dirs["assets"] = struct{}{}
		}
	}
	return dirs
}

func (d *DirSource) List(categories []Category) ([]string, error) {
	var out []string

	if _, err := os.Stat(d.root); err != nil {
		// Missing root yields an empty list, not an error.
		return out, nil
	}

	for subdir := range searchSubdirs(categories) {
		searchRoot := filepath.Join(d.root, subdir)
		if _, err := os.Stat(searchRoot); err != nil {
			continue
		}

		err := filepath.WalkDir(searchRoot, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return nil // skip unreadable entries rather than aborting the whole walk
			}
			if entry.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(d.root, path)
			if err != nil {
				return nil
			}
			relSlash := filepath.ToSlash(rel)
			for _, c := range categories {
				if c.Matches(relSlash) {
					out = append(out, relSlash)
					break
				}
			}
			return nil
		})
		if err != nil {
			return out, err
		}
	}

	return out, nil
}

func (d *DirSource) Read(path string) (string, error) {
	full := filepath.Join(d.root, filepath.FromSlash(path))
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s in %s: %w", path, d.name, err)
	}
	return string(data), nil
}

func (d *DirSource) Name() string { return d.name }
