package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSeparators split on paragraph, line, sentence, word and finally
// character boundaries, in that order of preference.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter recursively splits text into chunks of at most chunkSize
// characters, with roughly overlap characters repeated between
// consecutive chunks. Lengths are measured in runes.
//
// Each separator stays attached to the end of the piece before it, so a
// chunk is always a contiguous, whitespace-trimmed substring of the input.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewSplitter creates a splitter. The caller guarantees 0 <= overlap < chunkSize.
func NewSplitter(chunkSize, overlap int, separators []string) *Splitter {
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap, separators: separators}
}

// Split returns the chunks of text in source order.
// Empty or whitespace-only text yields no chunks, and chunks without a
// letter or digit (a stray "." left by overlap trimming) are dropped.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	chunks := s.split(text, s.separators)
	kept := chunks[:0]
	for _, c := range chunks {
		if hasWordRune(c) {
			kept = append(kept, c)
		}
	}
	return kept
}

func hasWordRune(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

func (s *Splitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var next []string
	for i, sep := range separators {
		if sep == "" {
			separator = ""
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	var final, small []string
	for _, piece := range splitAfter(text, separator) {
		if utf8.RuneCountInString(piece) < s.chunkSize {
			small = append(small, piece)
			continue
		}
		if len(small) > 0 {
			final = append(final, s.merge(small)...)
			small = nil
		}
		if len(next) == 0 {
			// Nothing finer to split on: emit the oversized unit whole.
			if trimmed := strings.TrimSpace(piece); trimmed != "" {
				final = append(final, trimmed)
			}
			continue
		}
		final = append(final, s.split(piece, next)...)
	}
	if len(small) > 0 {
		final = append(final, s.merge(small)...)
	}
	return final
}

// merge packs consecutive pieces into chunks, carrying trailing pieces
// forward as overlap.
func (s *Splitter) merge(pieces []string) []string {
	var (
		chunks  []string
		current []string
		total   int
	)
	for _, piece := range pieces {
		n := utf8.RuneCountInString(piece)
		if total+n > s.chunkSize && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.overlap || (total+n > s.chunkSize && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitAfter splits text after each separator, dropping empty pieces.
// An empty separator splits into single runes.
func splitAfter(text, separator string) []string {
	if separator == "" {
		pieces := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}
	parts := strings.SplitAfter(text, separator)
	pieces := parts[:0]
	for _, p := range parts {
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}
