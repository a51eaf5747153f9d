// Package fs discovers ingestible documents under the configured root.
package fs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker scans a document root for files matching glob patterns. Patterns
// use doublestar syntax and match case-insensitively against paths relative
// to the root.
type Walker struct {
	includes []string
	excludes []string
}

func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*.{pdf,docx,pptx,txt}"}
	}
	return &Walker{
		includes: includes,
		excludes: excludes,
	}
}

// FileInfo is one discovered document.
type FileInfo struct {
	Path    string // absolute
	ModTime int64  // unix seconds
	Size    int64
}

// Walk returns matching files under root, sorted by path. A root that does
// not exist yields an empty result rather than an error, so a fresh project
// with no documents directory ingests as a zero-count success.
func (w *Walker) Walk(root string) ([]FileInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var files []FileInfo
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = strings.ToLower(filepath.ToSlash(relPath))

		if info.IsDir() {
			if path != root && w.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.shouldInclude(relPath) && !w.shouldExclude(relPath) {
			files = append(files, FileInfo{
				Path:    path,
				ModTime: info.ModTime().Unix(),
				Size:    info.Size(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (w *Walker) shouldInclude(path string) bool {
	for _, pattern := range w.includes {
		matched, err := doublestar.Match(strings.ToLower(pattern), path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Walker) shouldExclude(path string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(strings.ToLower(pattern), path)
		if err == nil && matched {
			return true
		}
	}
	return false
}
