package engine

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/loghound/loghound/internal/ignore"
)

// Enumerate walks the tree under cfg.Root and returns the relative paths of
// files eligible for scanning, sorted. Unreadable subtrees are skipped rather
// than failing the enumeration; only an unreadable root is an error.
func Enumerate(cfg Config, ign ignore.Matcher) ([]string, error) {
	var files []string
	err := filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == cfg.Root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if p != cfg.Root && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		if isOwnMetadata(d.Name()) {
			return nil
		}
		if !allowedByGlobs(rel, cfg) {
			return nil
		}
		if ign.Match(rel) {
			return nil
		}
		if cfg.MaxBytes > 0 {
			if info, ierr := d.Info(); ierr == nil && info.Size() > cfg.MaxBytes {
				return nil
			}
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// isOwnMetadata filters loghound's own state files out of a scan so a report
// never classifies the match text stored in a previous report.
func isOwnMetadata(name string) bool {
	switch name {
	case ".loghoundignore", ".loghoundcache.json", ".loghound_last_scan.json":
		return true
	}
	return false
}

func isDefaultDirExcluded(name string) bool {
	switch name {
	case ".git", ".svn", ".hg", "node_modules":
		return true
	}
	return false
}

// looksBinary sniffs the first block of a file for NUL bytes. Log files are
// text; anything binary is skipped without counting as a failure.
func looksBinary(b []byte) bool {
	const sniff = 800
	n := len(b)
	if n > sniff {
		n = sniff
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}

// allowedByGlobs returns true if the given path passes the include/exclude
// glob configuration. Include globs, when set, act as a positive filter;
// excludes are subtracted last. Matching uses forward-slash semantics.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
