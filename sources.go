package docpack

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// enumerateSources lists the source document files under root, sorted
// lexicographically so every run processes them in the same order. With
// recursive set, subdirectories are descended into as well.
func enumerateSources(root string, recursive bool) ([]string, error) {
	var files []string
	if recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isSourceFile(d.Name()) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, ent := range entries {
			if !ent.IsDir() && isSourceFile(ent.Name()) {
				files = append(files, filepath.Join(root, ent.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func isSourceFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
