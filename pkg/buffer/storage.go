package buffer

// LineStorage is the read-only view of a document the cursor model needs.
// Lengths are expressed in runes (not bytes).
type LineStorage interface {
	LineCount() int
	LineLen(line int) int
}
