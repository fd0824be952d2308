package keywords

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Counts maps a keyword to its number of occurrences.
type Counts map[string]int

// Total returns the sum of all counts.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// NonZero returns a copy of c without the zero-valued entries.
func (c Counts) NonZero() Counts {
	out := make(Counts, len(c))
	for k, v := range c {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// Entry is one keyword and its count.
type Entry struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Sorted returns the entries ordered by descending count, ties broken by
// keyword.
func (c Counts) Sorted() []Entry {
	entries := make([]Entry, 0, len(c))
	for k, v := range c {
		entries = append(entries, Entry{Keyword: k, Count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Keyword < entries[j].Keyword
	})
	return entries
}

// Counter counts whole-token keyword occurrences in source text.
type Counter struct {
	vocab Vocabulary
}

// NewCounter creates a Counter for the given vocabulary.
func NewCounter(vocab Vocabulary) *Counter {
	return &Counter{vocab: vocab}
}

// Vocabulary returns the vocabulary the counter was built with.
func (c *Counter) Vocabulary() Vocabulary { return c.vocab }

// Count returns a fresh zero-seeded mapping holding the counts for text.
func (c *Counter) Count(text string) Counts {
	counts := c.vocab.NewCounts()
	c.CountInto(text, counts)
	return counts
}

// CountInto adds the occurrences found in text to counts. Every vocabulary
// keyword gets an entry, so a nil-free mapping is expected.
func (c *Counter) CountInto(text string, counts Counts) {
	for _, kw := range c.vocab.words {
		counts[kw] += countToken(text, kw)
	}
}

// countToken counts non-overlapping occurrences of kw that stand alone as
// an identifier. The scan steps past every located substring, matched or
// not.
func countToken(text, kw string) int {
	n := 0
	for i := 0; i <= len(text)-len(kw); {
		j := strings.Index(text[i:], kw)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(kw)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			n++
		}
		i = end
	}
	return n
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isIdentifierPart(r)
}

func boundaryAfter(text string, pos int) bool {
	if pos == len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isIdentifierPart(r)
}

// isIdentifierStart follows Java's identifier-start rules.
func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) ||
		unicode.Is(unicode.Nl, r) ||
		unicode.Is(unicode.Sc, r) ||
		unicode.Is(unicode.Pc, r)
}

// isIdentifierPart follows Java's identifier-part rules, including the
// ignorable control characters.
func isIdentifierPart(r rune) bool {
	switch {
	case isIdentifierStart(r):
		return true
	case unicode.IsDigit(r),
		unicode.Is(unicode.Mn, r),
		unicode.Is(unicode.Mc, r),
		unicode.Is(unicode.Cf, r):
		return true
	case r <= 0x08, r >= 0x0e && r <= 0x1b, r >= 0x7f && r <= 0x9f:
		return true
	}
	return false
}
