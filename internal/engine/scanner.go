package engine

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/loghound/loghound/internal/patterns"
	"github.com/loghound/loghound/internal/types"
)

const (
	// cancellation is checked once per batch of lines, not per line
	lineBatch = 256
	// a single line longer than this is classified on its first megabyte
	// and the remainder is skipped; log writers that emit such lines are
	// dumping binary data, not text
	maxLineBytes = 1 << 20

	readerBuf = 64 * 1024
)

// ScanReader runs one forward-only classification pass over r. Lines are
// numbered from 1 counting every physical line, blank lines are skipped, and
// the first matching rule per line produces a match. Buffering is O(1) in the
// input size; the full stream is never held in memory.
//
// On cancellation the matches collected so far are returned together with the
// context error.
func ScanReader(ctx context.Context, r io.Reader, set *patterns.Set) ([]types.Match, error) {
	br := bufio.NewReaderSize(r, readerBuf)
	var out []types.Match
	lineNum := 0
	for {
		if lineNum%lineBatch == 0 {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			default:
			}
		}
		line, err := readLine(br)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		lineNum++
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if category, source, ok := set.Match(text); ok {
			out = append(out, types.Match{
				Line:     lineNum,
				Text:     text,
				Category: category,
				Pattern:  source,
			})
		}
	}
}

// readLine returns the next line without its terminator. Overlong lines are
// truncated at maxLineBytes and the excess consumed so line accounting stays
// correct.
func readLine(br *bufio.Reader) (string, error) {
	frag, isPrefix, err := br.ReadLine()
	if err != nil {
		return "", err
	}
	if !isPrefix {
		return string(frag), nil
	}
	buf := append([]byte(nil), frag...)
	for isPrefix {
		frag, isPrefix, err = br.ReadLine()
		if err != nil {
			break
		}
		if len(buf) < maxLineBytes {
			room := maxLineBytes - len(buf)
			if room > len(frag) {
				room = len(frag)
			}
			buf = append(buf, frag[:room]...)
		}
	}
	if err != nil && err != io.EOF {
		return "", err
	}
	return string(buf), nil
}
