package store

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yoanbernabeu/keycount/keywords"
)

// WriteRecord writes one "keyword=count" line per keyword with a non-zero
// count, in vocabulary order. Lines end with "\n" on every platform; a
// record written elsewhere with "\r\n" still parses. Nothing else is written.
func WriteRecord(w io.Writer, vocab keywords.Vocabulary, counts keywords.Counts) error {
	bw := bufio.NewWriter(w)
	for _, kw := range vocab.Words() {
		n := counts[kw]
		if n == 0 {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s=%d\n", kw, n); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ParseRecord reads a record written by WriteRecord. Lines are split on the
// first "="; blank lines are skipped and any other malformed line fails the
// whole parse with ErrParse.
func ParseRecord(r io.Reader) (keywords.Counts, error) {
	counts := keywords.Counts{}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: missing '='", ErrParse, lineNum)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%w: line %d: empty keyword", ErrParse, lineNum)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: line %d: bad count %q", ErrParse, lineNum, value)
		}
		counts[key] = n
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
