package keywords

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidVocabulary is returned when a vocabulary cannot be built.
var ErrInvalidVocabulary = errors.New("keywords: invalid vocabulary")

// javaKeywords is the reserved-word list counted by default. The order is
// part of the record format: entries are persisted in this order.
var javaKeywords = []string{
	"abstract", "assert", "boolean", "break", "byte", "case", "catch",
	"char", "class", "const", "continue", "default", "do", "double", "else",
	"enum", "extends", "final", "finally", "float", "for", "goto", "if",
	"implements", "import", "instanceof", "int", "interface", "long",
	"native", "new", "null", "package", "private", "protected", "public",
	"return", "short", "static", "strictfp", "super", "switch",
	"synchronized", "this", "throw", "throws", "transient", "try", "void",
	"volatile", "while",
}

// Vocabulary is an ordered set of distinct keywords. The zero value is empty.
type Vocabulary struct {
	words []string
	index map[string]int
}

// Java returns the vocabulary of Java reserved words.
func Java() Vocabulary {
	v, err := NewVocabulary(javaKeywords...)
	if err != nil {
		panic(err)
	}
	return v
}

// NewVocabulary builds a vocabulary from identifier-shaped, distinct words.
func NewVocabulary(words ...string) (Vocabulary, error) {
	if len(words) == 0 {
		return Vocabulary{}, fmt.Errorf("%w: no words", ErrInvalidVocabulary)
	}
	v := Vocabulary{
		words: make([]string, 0, len(words)),
		index: make(map[string]int, len(words)),
	}
	for _, w := range words {
		if !isIdentifier(w) {
			return Vocabulary{}, fmt.Errorf("%w: %q is not an identifier", ErrInvalidVocabulary, w)
		}
		if _, dup := v.index[w]; dup {
			return Vocabulary{}, fmt.Errorf("%w: duplicate word %q", ErrInvalidVocabulary, w)
		}
		v.index[w] = len(v.words)
		v.words = append(v.words, w)
	}
	return v, nil
}

// Words returns a copy of the keywords in vocabulary order.
func (v Vocabulary) Words() []string {
	out := make([]string, len(v.words))
	copy(out, v.words)
	return out
}

// Len returns the number of keywords.
func (v Vocabulary) Len() int { return len(v.words) }

// Contains reports whether word is a member of the vocabulary.
func (v Vocabulary) Contains(word string) bool {
	_, ok := v.index[word]
	return ok
}

// NewCounts returns a mapping with every keyword seeded at zero.
func (v Vocabulary) NewCounts() Counts {
	c := make(Counts, len(v.words))
	for _, w := range v.words {
		c[w] = 0
	}
	return c
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	if !isIdentifierStart(first) {
		return false
	}
	for _, r := range s {
		if !isIdentifierPart(r) {
			return false
		}
	}
	return true
}
