// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files
// ending with the specified extension and returns their full paths in lexical
// order, so callers that merge the files get a deterministic result.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		return nil, fmt.Errorf("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
