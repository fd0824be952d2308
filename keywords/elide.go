package keywords

import "regexp"

var (
	// A block comment runs to the nearest "*/", or to end of input when the
	// marker is never closed.
	blockComment = regexp.MustCompile(`(?s)/\*.*?(?:\*/|\z)`)
	lineComment  = regexp.MustCompile(`//[^\n]*`)
)

// Elide strips block and line comments from src. Block comments are removed
// first, across the whole text, then line comments up to end of line.
//
// Comment markers inside string or character literals are not recognised
// as literals, so "// not a comment" loses everything from the slashes on.
func Elide(src string) string {
	src = blockComment.ReplaceAllLiteralString(src, "")
	return lineComment.ReplaceAllLiteralString(src, "")
}
