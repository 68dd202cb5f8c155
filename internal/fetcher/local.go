package fetcher

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
)

// bundleExtensions are the file types indexed from local build directories.
var bundleExtensions = map[string]bool{
	".js":  true,
	".mjs": true,
	".map": true,
}

// localIndex maps bundle file names to paths discovered under local build
// roots, so a dump recorded against a dev server can resolve without the
// server running.
type localIndex struct {
	byName map[string]string
}

func buildLocalIndex(roots []string) (*localIndex, error) {
	idx := &localIndex{byName: make(map[string]string)}
	for _, root := range roots {
		err := godirwalk.Walk(root, &godirwalk.Options{
			Callback: func(path string, de *godirwalk.Dirent) error {
				if de.IsDir() {
					if de.Name() == "node_modules" || de.Name() == ".git" {
						return godirwalk.SkipThis
					}
					return nil
				}
				if !bundleExtensions[strings.ToLower(filepath.Ext(path))] {
					return nil
				}
				// First discovery wins so earlier roots take priority.
				if _, exists := idx.byName[de.Name()]; !exists {
					idx.byName[de.Name()] = path
				}
				return nil
			},
			ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
				return godirwalk.SkipNode
			},
			Unsorted:            false,
			FollowSymbolicLinks: false,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk bundle root %s: %w", root, err)
		}
	}
	return idx, nil
}

// lookup matches a URL to an indexed local file by its final path segment.
func (l *localIndex) lookup(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	name := filepath.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", false
	}
	path, ok := l.byName[name]
	return path, ok
}
