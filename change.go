package structdiff

// ChangeKind tags the variant of a Change.
type ChangeKind uint8

const (
	ChangeEnterSequence ChangeKind = iota
	ChangeEnterMap
	ChangeExit
	ChangeReplace
	ChangeReplaceKey
	ChangeReplaceMapping
	ChangeRemove
	ChangeTruncate
	ChangeInsert
	ChangeInsertMapping
)

// Change is a single tagged operation in a Script. Not every field is
// meaningful for every Kind; see the per-field comments below for which
// variants actually use each one.
type Change struct {
	Kind ChangeKind

	// Index is the target position. A nil Index on EnterSequence/EnterMap/
	// Replace means "the current root".
	Index *int
	// IsKey marks an EnterSequence/EnterMap descent into the key half of a
	// mapping entry rather than the value half.
	IsKey bool

	// Value carries the payload for Replace, Insert and InsertMapping (as
	// the inserted/replacement value), and for ReplaceMapping/InsertMapping
	// (as the value half of the pair).
	Value Value
	// Key carries the key payload for ReplaceKey, ReplaceMapping and
	// InsertMapping.
	Key Value

	// Length is the removal/truncation length for Remove and Truncate.
	Length int
}

// Script is an ordered sequence of Change. Scripts are
// immutable once produced.
type Script []Change

func intPtr(i int) *int { return &i }
