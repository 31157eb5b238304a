package domain

// Placement sentinels accepted by InsertAfter and InsertBefore.
const (
	// BOF inserts the line at the beginning of the resource (InsertBefore only).
	BOF = "BOF"
	// EOF appends the line at the end of the resource (InsertAfter only).
	EOF = "EOF"
)

// Default encoding pair used when the caller does not supply one.
const (
	DefaultEncodingFrom = "IBM-1047"
	DefaultEncodingTo   = "ISO8859-1"
)

// NoIndex marks an Outcome that did not touch any line.
const NoIndex = -1
