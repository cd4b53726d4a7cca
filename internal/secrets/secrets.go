// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file holds one secret: the filename is the key name and the trimmed
// contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Known lists the key files the pipeline reads. Other files in the
// directory are loaded too, with a warning, so stray names surface early.
var Known = []string{
	"deepseek-api-key",
	"r2-access-key-id",
	"r2-secret-access-key",
}

// Load reads every regular file in dir into a key/value map. A missing
// directory is not an error; Load returns an empty map. Dotfiles are
// skipped and empty files are ignored. Unreadable files produce a warning
// on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	loaded := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value == "" {
			continue
		}
		if !isKnown(name) {
			fmt.Fprintf(os.Stderr, "warning: unrecognized secret file %s\n", name)
		}
		loaded[name] = value
	}

	return loaded, nil
}

func isKnown(name string) bool {
	for _, k := range Known {
		if k == name {
			return true
		}
	}
	return false
}
