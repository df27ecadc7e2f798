package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the suffix of export files.
const Ext = ".json"

// ListFiles returns every export file under root in walk order. Unreadable
// subdirectories are returned as file errors; an unreadable root is fatal.
func ListFiles(root string) ([]string, []FileError, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, nil, fmt.Errorf("stat archive: %w", err)
	}

	var (
		files   []string
		skipped []FileError
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			skipped = append(skipped, FileError{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk archive: %w", err)
	}
	return files, skipped, nil
}

// CountFiles returns the number of export files under root.
func CountFiles(root string) (int, error) {
	files, _, err := ListFiles(root)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}
