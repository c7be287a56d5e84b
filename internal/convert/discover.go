package convert

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover lists the regular files under dir whose extension matches ext
// case-insensitively. With recursive set it walks the whole tree; otherwise
// only dir's direct entries are considered. Paths are sorted.
func Discover(dir string, recursive bool, ext string) ([]string, error) {
	var paths []string
	match := func(name string) bool {
		return strings.EqualFold(filepath.Ext(name), ext)
	}

	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: reading directory %s: %w", ErrIO, dir, err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() && match(e.Name()) {
				paths = append(paths, filepath.Join(dir, e.Name()))
			}
		}
		sort.Strings(paths)
		return paths, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && match(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walking %s: %w", ErrIO, dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
