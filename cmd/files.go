package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CollectFiles expands command-line targets into .sol files. Directories
// are walked recursively, skipping node_modules; arguments containing glob
// metacharacters are expanded with filepath.Glob. Explicitly named files
// are kept whatever their extension. Duplicates are dropped.
func CollectFiles(targets []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, target := range targets {
		matches := []string{target}
		if strings.ContainsAny(target, "*?[") {
			var err error
			matches, err = filepath.Glob(target)
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", target, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", target)
			}
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, fmt.Errorf("cannot access %s: %w", m, err)
			}
			if !info.IsDir() {
				add(m)
				continue
			}
			err = filepath.WalkDir(m, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					if d.Name() == "node_modules" {
						return filepath.SkipDir
					}
					return nil
				}
				if strings.HasSuffix(d.Name(), ".sol") {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("reading directory %s: %w", m, err)
			}
		}
	}
	return files, nil
}
