package chunker

import (
	"errors"
	"strings"
	"unicode"
)

// ErrEmptyInput is returned when the document contains no analyzable text.
// The caller is expected to reject the request before any downstream work.
var ErrEmptyInput = errors.New("document text is empty")

// Chunk is a contiguous slice of the document. Offsets are rune offsets
// into the input text. Overlap is the number of leading runes shared with
// the previous chunk; stripping it from every chunk and concatenating in
// order reconstructs the document exactly.
type Chunk struct {
	Index   int
	Start   int
	End     int
	Overlap int
	Text    string
}

// Config bounds the splitter. Backtrack is the window (in runes) scanned
// left from the hard size limit for a cheaper boundary: a sentence end or
// blank line first, any whitespace second, so clinical terms are never cut
// mid-token when a boundary is in reach.
type Config struct {
	MaxChars  int
	Overlap   int
	Backtrack int
}

// Split divides text into ordered, bounded chunks. It is a pure function
// of its inputs. Text that fits in one chunk short-circuits with no
// overlap bookkeeping, which is the common case.
func Split(text string, cfg Config) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 6000
	}

	runes := []rune(text)
	total := len(runes)

	if total <= cfg.MaxChars {
		return []Chunk{{Index: 0, Start: 0, End: total, Text: text}}, nil
	}

	overlap := cfg.Overlap
	if overlap >= cfg.MaxChars {
		overlap = 0 // overlap must leave room to advance
	}

	var chunks []Chunk
	pos := 0
	prevEnd := 0

	for pos < total {
		end := pos + cfg.MaxChars
		if end >= total {
			end = total
		} else {
			end = backtrackBoundary(runes, pos, end, cfg.Backtrack)
		}

		ov := 0
		if len(chunks) > 0 {
			ov = prevEnd - pos
		}
		chunks = append(chunks, Chunk{
			Index:   len(chunks),
			Start:   pos,
			End:     end,
			Overlap: ov,
			Text:    string(runes[pos:end]),
		})

		if end == total {
			break
		}

		prevEnd = end
		next := end - overlap
		if next <= pos {
			next = end
		}
		pos = next
	}

	return chunks, nil
}

// backtrackBoundary scans left from the hard limit for a cut point.
// Sentence ends and blank lines win over plain whitespace; with neither in
// the window the hard limit stands.
func backtrackBoundary(runes []rune, start, hardEnd, window int) int {
	if window <= 0 {
		return hardEnd
	}
	low := hardEnd - window
	if low <= start {
		low = start + 1
	}

	wsCut := 0
	for i := hardEnd - 1; i >= low; i-- {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			return i + 1
		}
		if r == '\n' && i > 0 && runes[i-1] == '\n' {
			return i + 1
		}
		if wsCut == 0 && unicode.IsSpace(r) {
			wsCut = i + 1
		}
	}
	if wsCut > 0 {
		return wsCut
	}
	return hardEnd
}

// Reconstruct joins chunks back into the original document by dropping
// each chunk's leading overlap runes.
func Reconstruct(chunks []Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		runes := []rune(c.Text)
		if c.Overlap > 0 && c.Overlap <= len(runes) {
			runes = runes[c.Overlap:]
		}
		b.WriteString(string(runes))
	}
	return b.String()
}
