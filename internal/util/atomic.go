package util

import (
	"encoding/json"
	"fmt"
	"os"
)

// AtomicWriteFile writes data to path by writing a temporary file and
// renaming it into place. A crash mid-write leaves the previous file
// untouched rather than a truncated one.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// AtomicWriteJSON marshals v with two-space indentation and writes it
// atomically via AtomicWriteFile.
func AtomicWriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return AtomicWriteFile(path, data, 0644)
}
