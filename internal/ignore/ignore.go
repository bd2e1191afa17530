// Package ignore implements the .loghoundignore file: one pattern per line,
// gitignore-like. Directory patterns end with a slash and exclude the whole
// subtree; other patterns match against the relative path or its basename.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Matcher reports whether a relative path is ignored.
type Matcher struct {
	dirs  []string
	globs []string
}

// Load reads an ignore file. A missing file yields an empty matcher and the
// os error, which callers typically discard.
func Load(path string) (Matcher, error) {
	var m Matcher
	f, err := os.Open(path)
	if err != nil {
		return m, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, "/") {
			m.dirs = append(m.dirs, strings.TrimSuffix(line, "/"))
			continue
		}
		m.globs = append(m.globs, line)
	}
	return m, sc.Err()
}

// Match reports whether rel is excluded by the loaded patterns.
func (m Matcher) Match(rel string) bool {
	rp := strings.ReplaceAll(rel, "\\", "/")
	for _, d := range m.dirs {
		if rp == d || strings.HasPrefix(rp, d+"/") || strings.Contains(rp, "/"+d+"/") {
			return true
		}
	}
	base := filepath.Base(rp)
	for _, g := range m.globs {
		if ok, _ := doublestar.Match(g, rp); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}
