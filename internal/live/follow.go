// Package live implements follow mode: tailing log files as they grow and
// classifying appended lines with the pattern snapshot captured at start.
package live

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/loghound/loghound/internal/patterns"
	"github.com/loghound/loghound/internal/types"
)

// tailer tracks one file's read position and line count between events.
// Only complete lines are classified; a partial trailing line is buffered
// until its newline arrives.
type tailer struct {
	set    *patterns.Set
	offset int64
	line   int
	rest   []byte
}

// drain reads everything appended since the last call and returns the matches
// among the new complete lines. A shrunken file (rotation, truncation) resets
// the tail to the beginning.
func (t *tailer) drain(path string) ([]types.Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < t.offset {
		t.offset = 0
		t.line = 0
		t.rest = nil
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	t.offset += int64(len(data))

	buf := append(t.rest, data...)
	var out []types.Match
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		line := buf[:i]
		buf = buf[i+1:]
		t.line++
		text := strings.TrimSpace(string(line))
		if text == "" {
			continue
		}
		if category, source, ok := t.set.Match(text); ok {
			out = append(out, types.Match{
				Path:     path,
				Line:     t.line,
				Text:     text,
				Category: category,
				Pattern:  source,
			})
		}
	}
	t.rest = append([]byte(nil), buf...)
	return out, nil
}

// skipToEnd positions the tailer at the current end of file so follow mode
// only reports lines written after it started. The existing lines are counted
// on the way so later matches carry the file's true 1-based line number, and
// an unterminated trailing line is kept so its completion classifies whole.
func (t *tailer) skipToEnd(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	buf := make([]byte, 64*1024)
	var size int64
	lines := 0
	var rest []byte
	for {
		n, rerr := f.Read(buf)
		size += int64(n)
		chunk := buf[:n]
		if i := bytes.LastIndexByte(chunk, '\n'); i >= 0 {
			lines += bytes.Count(chunk[:i+1], []byte{'\n'})
			rest = append(rest[:0], chunk[i+1:]...)
		} else {
			rest = append(rest, chunk...)
		}
		if rerr != nil {
			break
		}
	}
	t.offset = size
	t.line = lines
	t.rest = append([]byte(nil), rest...)
}

// Follow watches a file or directory and invokes emit for every anomaly in
// newly appended lines. It blocks until ctx is cancelled or the watcher
// fails. Existing content is skipped; only growth after start is classified.
func Follow(ctx context.Context, root string, set *patterns.Set, emit func(types.Match)) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	tails := map[string]*tailer{}
	watchDir := root
	if info.IsDir() {
		// seed tailers for files already present so their content is
		// skipped and line numbers stay absolute
		entries, err := os.ReadDir(root)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			p := filepath.Join(root, e.Name())
			t := &tailer{set: set}
			t.skipToEnd(p)
			tails[p] = t
		}
	} else {
		watchDir = filepath.Dir(root)
		t := &tailer{set: set}
		t.skipToEnd(root)
		tails[root] = t
	}
	if err := w.Add(watchDir); err != nil {
		return fmt.Errorf("watch %s: %w", watchDir, err)
	}

	watchingDir := info.IsDir()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !watchingDir {
				if ev.Name != root {
					continue
				}
			} else if fi, err := os.Stat(ev.Name); err != nil || fi.IsDir() {
				continue
			}
			t := tails[ev.Name]
			if t == nil {
				t = &tailer{set: set}
				tails[ev.Name] = t
			}
			matches, err := t.drain(ev.Name)
			if err != nil {
				continue
			}
			for _, m := range matches {
				emit(m)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
