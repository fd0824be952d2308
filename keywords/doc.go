// Package keywords holds the keyword vocabulary, the comment elider and the
// boundary-aware keyword counter. It is a lexical approximation: string and
// character literals are not tokenized.
package keywords
