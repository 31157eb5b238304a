package domain

// Action describes what the reconciler did to the line sequence.
type Action string

const (
	ActionNone     Action = "none"
	ActionInserted Action = "inserted"
	ActionReplaced Action = "replaced"
	ActionRemoved  Action = "removed"
)

// Outcome is the result of one reconciliation.
type Outcome struct {
	// Lines is the new sequence. It never aliases the input slice.
	Lines []string `json:"lines"`

	// Changed is true when Lines differs from the input.
	Changed bool `json:"changed"`

	// Index is the position of the inserted or replaced line in Lines, or the
	// first removed position in the input for absent mode. NoIndex when untouched.
	Index int `json:"index"`

	Action Action `json:"action"`

	// Removed lists every dropped index, in input coordinates.
	Removed []int `json:"removed,omitempty"`
}

// Unchanged builds an Outcome that copies lines verbatim.
func Unchanged(lines []string) Outcome {
	out := make([]string, len(lines))
	copy(out, lines)
	return Outcome{
		Lines:  out,
		Index:  NoIndex,
		Action: ActionNone,
	}
}
