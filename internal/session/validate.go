package session

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNoArchive is returned when no archive folder has been selected.
	ErrNoArchive = errors.New("no folder selected")
	// ErrNotDirectory is returned when the archive path is not a folder.
	ErrNotDirectory = errors.New("archive path is not a directory")
)

// ValidateArchive checks that root names an existing directory.
func ValidateArchive(root string) error {
	if root == "" {
		return ErrNoArchive
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("open archive %q: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q: %w", root, ErrNotDirectory)
	}
	return nil
}
