// Package enumerate lists the files under a sync root that should be uploaded.
//
// Items come out in filepath.WalkDir order: lexical within each directory,
// depth first. That order is stable for an unchanged tree but it is not a
// global sort of object names, and callers must not rely on it being one.
package enumerate

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	mapset "github.com/deckarep/golang-set/v2"
	gitignore "github.com/sabhiram/go-gitignore"
)

const (
	// MaxObjectNameLen bounds remote keys, counted in characters.
	MaxObjectNameLen = 256

	// IgnoreFileName holds gitignore-style rules relative to the root.
	IgnoreFileName = ".benchwrapignore"
)

// Item is one file to upload.
type Item struct {
	LocalPath  string // absolute or root-joined path on disk
	RelPath    string // path relative to the root, OS separators
	ObjectName string // remote key derived from RelPath
	Size       int64  // size at enumeration time
}

var ErrBadPattern = errors.New("enumerate: invalid exclude pattern")

// Enumerator walks a root directory. Files whose base name is reserved are
// never listed, wherever they sit in the tree.
type Enumerator struct {
	root     string
	reserved mapset.Set[string]
	exclude  []string
}

func New(root string, reserved ...string) *Enumerator {
	return &Enumerator{
		root:     root,
		reserved: mapset.NewThreadUnsafeSet(reserved...),
	}
}

// Exclude adds doublestar patterns matched against slash-separated paths
// relative to the root, e.g. "**/*.tmp" or "scratch/**".
func (e *Enumerator) Exclude(patterns ...string) (*Enumerator, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	e.exclude = append(e.exclude, patterns...)
	return e, nil
}

func (e *Enumerator) excluded(slashRel string) bool {
	for _, p := range e.exclude {
		if ok, _ := doublestar.Match(p, slashRel); ok {
			return true
		}
	}
	return false
}

// Enumerate walks the tree. A missing root yields no items and no error.
func (e *Enumerator) Enumerate() ([]Item, error) {
	info, err := os.Stat(e.root)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("enumerate: root does not exist", "root", e.root)
		return []Item{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("enumerate: stat root: %w", err)
	} else if !info.IsDir() {
		return []Item{}, nil
	}

	ignore, err := e.loadIgnore()
	if err != nil {
		return nil, err
	}

	items := []Item{}
	err = filepath.WalkDir(e.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// unreadable subtrees are skipped, not fatal
			slog.Warn("enumerate: skipping", "path", path, "error", walkErr)
			if d != nil && d.IsDir() && path != e.root {
				return fs.SkipDir
			}
			return nil
		}

		if path == e.root {
			return nil
		}

		rel, err := filepath.Rel(e.root, path)
		if err != nil {
			return err
		}
		slashRel := filepath.ToSlash(rel)

		if d.IsDir() {
			if e.excluded(slashRel) || (ignore != nil && ignore.MatchesPath(slashRel+"/")) {
				return fs.SkipDir
			}
			return nil
		}

		if e.reserved.Contains(d.Name()) || slashRel == IgnoreFileName {
			return nil
		}
		if e.excluded(slashRel) || (ignore != nil && ignore.MatchesPath(slashRel)) {
			return nil
		}

		info, ok := regularFileInfo(path, d)
		if !ok {
			return nil
		}

		items = append(items, Item{
			LocalPath:  path,
			RelPath:    rel,
			ObjectName: ObjectName(rel),
			Size:       info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate: walk %s: %w", e.root, err)
	}

	return items, nil
}

func (e *Enumerator) loadIgnore() (*gitignore.GitIgnore, error) {
	path := filepath.Join(e.root, IgnoreFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	ignore, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, fmt.Errorf("enumerate: read %s: %w", path, err)
	}
	slog.Debug("enumerate: loaded ignore rules", "path", path)
	return ignore, nil
}

// regularFileInfo follows symlinks to files; links to directories are not walked.
func regularFileInfo(path string, d fs.DirEntry) (fs.FileInfo, bool) {
	if d.Type().IsRegular() {
		info, err := d.Info()
		return info, err == nil
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return nil, false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	return info, true
}

// ObjectName turns a root-relative path into a remote key: forward slashes,
// no leading slash, at most MaxObjectNameLen characters.
func ObjectName(rel string) string {
	name := strings.ReplaceAll(rel, string(filepath.Separator), "/")
	name = strings.TrimLeft(name, "/")

	if utf8.RuneCountInString(name) <= MaxObjectNameLen {
		return name
	}

	count := 0
	for i := range name {
		if count == MaxObjectNameLen {
			return name[:i]
		}
		count++
	}
	return name
}

// Enumerate is a shorthand for New(root, reserved...).Enumerate().
func Enumerate(root string, reserved ...string) ([]Item, error) {
	return New(root, reserved...).Enumerate()
}
