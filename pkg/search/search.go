package search

import "strings"

// Range represents a byte-offset half-open interval [Start, End).
type Range struct {
	Start int
	End   int
}

// SearchAll returns all non-overlapping occurrences of query in text as byte ranges.
// It performs a simple forward scan; empty query returns nil.
func SearchAll(text, query string) []Range {
	if query == "" {
		return nil
	}
	var res []Range
	off := 0
	for {
		idx := strings.Index(text[off:], query)
		if idx < 0 {
			break
		}
		start := off + idx
		end := start + len(query)
		res = append(res, Range{Start: start, End: end})
		off = end
	}
	return res
}

// Match is a line containing the query. Number is 1-based.
type Match struct {
	Number int
	Text   string
	Ranges []Range
}

// Lines returns every line containing query as a literal substring, in
// order. An empty query matches every line.
func Lines(lines []string, query string) []Match {
	var res []Match
	for i, l := range lines {
		if !strings.Contains(l, query) {
			continue
		}
		res = append(res, Match{Number: i + 1, Text: l, Ranges: SearchAll(l, query)})
	}
	return res
}

// ContainsFold reports whether s contains sub, ignoring case.
func ContainsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
