package structdiff

import "fmt"

// changeCursor is a shared read position over a Script, threaded by pointer
// through the recursive apply routines so a nested Exit can be consumed from
// the same stream that the enclosing EnterSequence/EnterMap read from.
type changeCursor struct {
	changes []Change
	pos     int
}

func (c *changeCursor) next() (Change, bool) {
	if c.pos >= len(c.changes) {
		return Change{}, false
	}
	ch := c.changes[c.pos]
	c.pos++
	return ch, true
}

// Apply replays script against root and returns the resulting Value. An
// empty script returns root unchanged. Every precondition violation (an
// out-of-range index, a length that overruns its container, a change that
// doesn't belong in its context) is reported as ErrStructural rather than a
// panic, since a Script may come from an untrusted decode.
func Apply(script Script, root Value) (Value, error) {
	cur := &changeCursor{changes: []Change(script)}
	first, ok := cur.next()
	if !ok {
		return root, nil
	}

	switch {
	case first.Kind == ChangeReplace && first.Index == nil:
		return first.Value, nil

	case first.Kind == ChangeEnterSequence && first.Index == nil && !first.IsKey:
		if root.Kind() != KindSequence {
			return Value{}, newError(ErrStructural, "root is not a sequence")
		}
		seq := append([]Value(nil), root.SequenceValues()...)
		if err := applySequence(&seq, cur); err != nil {
			return Value{}, err
		}
		return Sequence(seq...), nil

	case first.Kind == ChangeEnterMap && first.Index == nil && !first.IsKey:
		if root.Kind() != KindMappings {
			return Value{}, newError(ErrStructural, "root is not a mappings container")
		}
		pairs := append([]Pair(nil), root.MappingPairs()...)
		if err := applyMappings(&pairs, cur); err != nil {
			return Value{}, err
		}
		return Mappings(pairs...), nil

	default:
		return Value{}, newError(ErrStructural, fmt.Sprintf("unexpected root change %v", first.Kind))
	}
}

// applySequence consumes changes from cur until a matching Exit, mutating
// *seq in place.
func applySequence(seq *[]Value, cur *changeCursor) error {
	for {
		ch, ok := cur.next()
		if !ok {
			return nil
		}

		switch ch.Kind {
		case ChangeExit:
			return nil

		case ChangeReplace:
			i, err := requireIndex(ch, "replace")
			if err != nil {
				return err
			}
			if i < 0 || i >= len(*seq) {
				return structuralIndexError("replace", i, len(*seq))
			}
			(*seq)[i] = ch.Value

		case ChangeRemove:
			i, err := requireIndex(ch, "remove")
			if err != nil {
				return err
			}
			if i < 0 || ch.Length < 0 || i+ch.Length > len(*seq) {
				return structuralRangeError("remove", i, ch.Length, len(*seq))
			}
			*seq = append((*seq)[:i], (*seq)[i+ch.Length:]...)

		case ChangeTruncate:
			if ch.Length < 0 || ch.Length > len(*seq) {
				return structuralIndexError("truncate", ch.Length, len(*seq))
			}
			*seq = (*seq)[:ch.Length]

		case ChangeInsert:
			i, err := requireIndex(ch, "insert")
			if err != nil {
				return err
			}
			if i < 0 || i > len(*seq) {
				return structuralIndexError("insert", i, len(*seq))
			}
			*seq = insertValueAt(*seq, i, ch.Value)

		case ChangeEnterSequence:
			i, err := requireIndex(ch, "enter sequence")
			if err != nil {
				return err
			}
			if ch.IsKey {
				return newError(ErrStructural, "enter sequence with key flag set inside a sequence")
			}
			if i < 0 || i >= len(*seq) {
				return structuralIndexError("enter sequence", i, len(*seq))
			}
			if (*seq)[i].Kind() != KindSequence {
				return newError(ErrStructural, "enter sequence targets a non-sequence element")
			}
			child := append([]Value(nil), (*seq)[i].SequenceValues()...)
			if err := applySequence(&child, cur); err != nil {
				return err
			}
			(*seq)[i] = Sequence(child...)

		case ChangeEnterMap:
			i, err := requireIndex(ch, "enter map")
			if err != nil {
				return err
			}
			if ch.IsKey {
				return newError(ErrStructural, "enter map with key flag set inside a sequence")
			}
			if i < 0 || i >= len(*seq) {
				return structuralIndexError("enter map", i, len(*seq))
			}
			if (*seq)[i].Kind() != KindMappings {
				return newError(ErrStructural, "enter map targets a non-mappings element")
			}
			child := append([]Pair(nil), (*seq)[i].MappingPairs()...)
			if err := applyMappings(&child, cur); err != nil {
				return err
			}
			(*seq)[i] = Mappings(child...)

		default:
			return newError(ErrStructural, fmt.Sprintf("unexpected change %v inside a sequence", ch.Kind))
		}
	}
}

// applyMappings is applySequence's analogue over Pair slices. A change with
// IsKey set targets the key half of the pair at Index; otherwise the value
// half.
func applyMappings(pairs *[]Pair, cur *changeCursor) error {
	for {
		ch, ok := cur.next()
		if !ok {
			return nil
		}

		switch ch.Kind {
		case ChangeExit:
			return nil

		case ChangeReplace:
			i, err := requireIndex(ch, "replace")
			if err != nil {
				return err
			}
			if i < 0 || i >= len(*pairs) {
				return structuralIndexError("replace", i, len(*pairs))
			}
			(*pairs)[i].Value = ch.Value

		case ChangeReplaceKey:
			i, err := requireIndex(ch, "replace key")
			if err != nil {
				return err
			}
			if i < 0 || i >= len(*pairs) {
				return structuralIndexError("replace key", i, len(*pairs))
			}
			(*pairs)[i].Key = ch.Key

		case ChangeReplaceMapping:
			i, err := requireIndex(ch, "replace mapping")
			if err != nil {
				return err
			}
			if i < 0 || i >= len(*pairs) {
				return structuralIndexError("replace mapping", i, len(*pairs))
			}
			(*pairs)[i] = Pair{Key: ch.Key, Value: ch.Value}

		case ChangeRemove:
			i, err := requireIndex(ch, "remove")
			if err != nil {
				return err
			}
			if i < 0 || ch.Length < 0 || i+ch.Length > len(*pairs) {
				return structuralRangeError("remove", i, ch.Length, len(*pairs))
			}
			*pairs = append((*pairs)[:i], (*pairs)[i+ch.Length:]...)

		case ChangeTruncate:
			if ch.Length < 0 || ch.Length > len(*pairs) {
				return structuralIndexError("truncate", ch.Length, len(*pairs))
			}
			*pairs = (*pairs)[:ch.Length]

		case ChangeInsertMapping:
			i, err := requireIndex(ch, "insert mapping")
			if err != nil {
				return err
			}
			if i < 0 || i > len(*pairs) {
				return structuralIndexError("insert mapping", i, len(*pairs))
			}
			*pairs = insertPairAt(*pairs, i, Pair{Key: ch.Key, Value: ch.Value})

		case ChangeEnterSequence:
			i, err := requireIndex(ch, "enter sequence")
			if err != nil {
				return err
			}
			if i < 0 || i >= len(*pairs) {
				return structuralIndexError("enter sequence", i, len(*pairs))
			}
			target := &(*pairs)[i].Value
			if ch.IsKey {
				target = &(*pairs)[i].Key
			}
			if target.Kind() != KindSequence {
				return newError(ErrStructural, "enter sequence targets a non-sequence element")
			}
			child := append([]Value(nil), target.SequenceValues()...)
			if err := applySequence(&child, cur); err != nil {
				return err
			}
			*target = Sequence(child...)

		case ChangeEnterMap:
			i, err := requireIndex(ch, "enter map")
			if err != nil {
				return err
			}
			if i < 0 || i >= len(*pairs) {
				return structuralIndexError("enter map", i, len(*pairs))
			}
			target := &(*pairs)[i].Value
			if ch.IsKey {
				target = &(*pairs)[i].Key
			}
			if target.Kind() != KindMappings {
				return newError(ErrStructural, "enter map targets a non-mappings element")
			}
			child := append([]Pair(nil), target.MappingPairs()...)
			if err := applyMappings(&child, cur); err != nil {
				return err
			}
			*target = Mappings(child...)

		default:
			return newError(ErrStructural, fmt.Sprintf("unexpected change %v inside a mappings container", ch.Kind))
		}
	}
}

func requireIndex(ch Change, op string) (int, error) {
	if ch.Index == nil {
		return 0, newError(ErrStructural, fmt.Sprintf("%s without an index", op))
	}
	return *ch.Index, nil
}

func structuralIndexError(op string, index, length int) error {
	return newError(ErrStructural, fmt.Sprintf("%s index %d out of range for length %d", op, index, length))
}

func structuralRangeError(op string, index, length, containerLength int) error {
	return newError(ErrStructural, fmt.Sprintf("%s range [%d, %d) out of range for length %d", op, index, index+length, containerLength))
}

func insertValueAt(seq []Value, i int, v Value) []Value {
	seq = append(seq, Value{})
	copy(seq[i+1:], seq[i:])
	seq[i] = v
	return seq
}

func insertPairAt(pairs []Pair, i int, p Pair) []Pair {
	pairs = append(pairs, Pair{})
	copy(pairs[i+1:], pairs[i:])
	pairs[i] = p
	return pairs
}
