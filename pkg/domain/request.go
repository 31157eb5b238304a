package domain

// Mode selects whether the line must exist or must not exist.
type Mode string

const (
	ModePresent Mode = "present"
	ModeAbsent  Mode = "absent"
)

// Dialect selects the regular expression engine used for matching.
type Dialect string

const (
	// DialectRE2 uses the standard library engine (linear time, no lookaround).
	DialectRE2 Dialect = "re2"
	// DialectCompat uses a backtracking engine that accepts Perl/Python style
	// constructs such as lookahead and inline backreferences.
	DialectCompat Dialect = "compat"
)

// Request is the validated description of one line edit.
// Optional fields are pointers so that "unset" and "empty" stay distinct.
type Request struct {
	Mode         Mode    `json:"mode"`
	Pattern      *string `json:"pattern,omitempty"`
	Line         *string `json:"line,omitempty"`
	Backrefs     bool    `json:"backrefs,omitempty"`
	InsertAfter  *string `json:"insert_after,omitempty"`
	InsertBefore *string `json:"insert_before,omitempty"`
	FirstMatch   bool    `json:"first_match,omitempty"`
	Dialect      Dialect `json:"dialect,omitempty"`
}

// String returns a pointer to s, for building Requests inline.
func String(s string) *string {
	return &s
}

// HasPattern reports whether a pattern was supplied.
func (r Request) HasPattern() bool {
	return r.Pattern != nil
}

// HasLine reports whether a desired line was supplied.
func (r Request) HasLine() bool {
	return r.Line != nil
}

// ResourceKind distinguishes byte-stream files from record-oriented datasets.
type ResourceKind string

const (
	KindUSS     ResourceKind = "uss"
	KindDataset ResourceKind = "dataset"
	KindMemory  ResourceKind = "memory"
)

// Encoding is the (from, to) code page pair of an invocation.
type Encoding struct {
	From string `json:"from" mapstructure:"from"`
	To   string `json:"to" mapstructure:"to"`
}

// DefaultEncoding returns the IBM-1047 -> ISO8859-1 pair.
func DefaultEncoding() Encoding {
	return Encoding{From: DefaultEncodingFrom, To: DefaultEncodingTo}
}
