// Package flatten computes the archive-internal renames that collapse nested
// directories into one level.
package flatten

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Joiner replaces path separators inside a flattened name.
const Joiner = "_"

// Mapping maps an original slash-separated path, relative to the extraction
// root, to its flattened archive entry name.
type Mapping map[string]string

// Flatten returns the flattened name for zipPath. A path with no directory
// maps to itself; otherwise the first segment is kept as the directory and
// the whole path, joined with Joiner, becomes the file name.
//
//	images/chapter1/page001.jpg -> images/images_chapter1_page001.jpg
func Flatten(zipPath string) string {
	first, _, found := strings.Cut(zipPath, "/")
	if !found {
		return zipPath
	}
	return first + "/" + strings.ReplaceAll(zipPath, "/", Joiner)
}

// ComputeMapping walks root and maps every regular file below it. Symlinks
// and other non-regular files are left out; directories are traversed but
// not mapped.
func ComputeMapping(root string) (Mapping, error) {
	mapping := make(Mapping)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		zipPath := filepath.ToSlash(rel)
		mapping[zipPath] = Flatten(zipPath)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

// Sources returns the mapping keys in ascending order.
func (m Mapping) Sources() []string {
	out := make([]string, 0, len(m))
	for source := range m {
		out = append(out, source)
	}
	sort.Strings(out)
	return out
}

// Collisions groups the sources that flatten to the same target. Only
// targets with more than one source are returned; sources are sorted.
func (m Mapping) Collisions() map[string][]string {
	groups := make(map[string][]string)
	for _, source := range m.Sources() {
		target := m[source]
		groups[target] = append(groups[target], source)
	}
	for target, sources := range groups {
		if len(sources) < 2 {
			delete(groups, target)
		}
	}
	return groups
}
