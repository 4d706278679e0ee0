package structdiff

// Options configures Diff. The zero Options replaces whenever a sub-diff's
// measured cost exceeds the updated subtree's estimated bytes.
type Options struct {
	// slack is extra byte budget the root sub-diff is allowed before the
	// root replace fallback kicks in; nested replace decisions don't use
	// it. Zero means no slack; a small positive slack favors
	// structural diffs over replacements at the margin, useful when callers
	// value a stable shape over a few saved bytes.
	slack int
}

// Option adjusts Options; zero or more can be passed to Diff.
type Option func(*Options)

// WithSlackBytesAllowance lets a sub-diff run up to n bytes over the
// replacement cost before Diff falls back to a root Replace.
func WithSlackBytesAllowance(n int) Option {
	return func(o *Options) { o.slack = n }
}

func newOptions(opts ...Option) Options {
	var o Options
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// changeSink lets one recursive routine serve two purposes: a change is
// logged through this interface, and the sink decides whether to
// materialize it (collectSink) or just count its estimated cost
// (counterSink). Change constructors are lazy (passed as build funcs) so
// counterSink never has to build one.
type changeSink interface {
	logChange(estimatedBytes int, build func() Change)
}

// counterSink only accumulates 1+estimatedBytes per logged change; it never
// calls build, which lets the differ reuse one recursive routine for both
// measurement and emission.
type counterSink struct {
	bytes int
}

func (c *counterSink) logChange(estimatedBytes int, _ func() Change) {
	c.bytes += 1 + estimatedBytes
}

// collectSink materializes the real Script.
type collectSink struct {
	changes []Change
}

func (c *collectSink) logChange(_ int, build func() Change) {
	c.changes = append(c.changes, build())
}

// Diff computes a Script that transforms original into updated.
// It first measures the cost of a full structural diff at the root; if that
// exceeds updated's own estimated size (plus any configured slack), it
// instead emits a single root Replace. A root whose kinds differ, or whose
// primitives differ, has no structural form, so it is replaced whatever the
// slack.
func Diff(original, updated Value, opts ...Option) Script {
	o := newOptions(opts...)
	est := Estimate(updated)

	counter := &counterSink{}
	createDiff(nil, original, est, false, counter)

	structural := original.Kind() == updated.Kind() &&
		(original.Kind() == KindSequence || original.Kind() == KindMappings)

	var sink collectSink
	if counter.bytes > est.Bytes+o.slack || (!structural && counter.bytes > est.Bytes) {
		value := updated
		sink.logChange(est.Bytes, func() Change {
			return Change{Kind: ChangeReplace, Index: nil, Value: value}
		})
	} else {
		createDiff(nil, original, est, false, &sink)
	}

	script := Script(sink.changes)
	for len(script) > 0 && script[len(script)-1].Kind == ChangeExit {
		script = script[:len(script)-1]
	}
	return script
}

// createDiff dispatches on the pair of kinds at one tree position. Equal
// primitives emit nothing; unequal primitives or mismatched kinds are never
// replaced here, since the enclosing sequence/map loop (or Diff itself, at
// the root) always measures first and decides whether to recurse or
// replace.
func createDiff(index *int, original Value, updated Estimated, isKey bool, sink changeSink) {
	u := updated.Value
	ok, uk := original.Kind(), u.Kind()

	switch {
	case ok == KindNone && uk == KindNone:
	case ok == KindUnit && uk == KindUnit:
	case ok == KindBool && uk == KindBool && original.BoolValue() == u.BoolValue():
	case ok == KindInteger && uk == KindInteger && original.IntegerValue() == u.IntegerValue():
	case ok == KindFloat && uk == KindFloat && original.FloatValue() == u.FloatValue():
	case ok == KindBytes && uk == KindBytes && bytesEqual(original.BytesValue(), u.BytesValue()):
	case ok == KindString && uk == KindString && original.StringValue() == u.StringValue():
	case ok == KindSequence && uk == KindSequence:
		if !original.Equal(u) {
			idx := index
			sink.logChange(estimateUsizeBytes(derefIndexOr0(index)), func() Change {
				return Change{Kind: ChangeEnterSequence, Index: idx, IsKey: isKey}
			})
			createSequenceDiff(original.SequenceValues(), updated.Children, sink)
			sink.logChange(0, func() Change { return Change{Kind: ChangeExit} })
		}
	case ok == KindMappings && uk == KindMappings:
		if !original.Equal(u) {
			idx := index
			// Unlike EnterSequence above, the EnterMap root/index cost here
			// is the raw index value, not its varuint-encoded byte width.
			// The cost feeds the measure-then-replace decisions, so a large
			// index can tip a sub-diff into a Replace; it's preserved rather
			// than "fixed" (see DESIGN.md).
			sink.logChange(derefIndexOr0(index), func() Change {
				return Change{Kind: ChangeEnterMap, Index: idx, IsKey: isKey}
			})
			createMapDiff(original.MappingPairs(), updated.Pairs, sink)
			sink.logChange(0, func() Change { return Change{Kind: ChangeExit} })
		}
	default:
		// Mismatched kinds or unequal primitives. By construction this
		// always costs strictly more than updated.Bytes (the +1 baked into
		// logChange), so the caller's measure-then-replace decision never
		// lets a collecting sink reach here; only a counterSink does.
		sink.logChange(updated.Bytes, func() Change {
			panic("structdiff: replace should be decided by the caller before measurement reaches this point")
		})
	}
}

// createSequenceDiff walks original and updated in lockstep, looking for
// the insertion/removal/replace boundary at each step.
func createSequenceDiff(originalValues []Value, updatedValues []Estimated, sink changeSink) {
	originalIndex, insertIndex, updatedIndex := 0, 0, 0

	for updatedIndex < len(updatedValues) {
		updated := updatedValues[updatedIndex]
		updatedIndex++

		if originalIndex >= len(originalValues) {
			ii := insertIndex
			val := updated.Value
			bytes := updated.Bytes
			sink.logChange(bytes+estimateUsizeBytes(insertIndex), func() Change {
				return Change{Kind: ChangeInsert, Index: intPtr(ii), Value: val}
			})
			insertIndex++
			continue
		}

		original := originalValues[originalIndex]

		if k := indexOfValue(originalValues[originalIndex:], updated.Value); k >= 0 {
			if k > 0 {
				ii, kk := insertIndex, k
				sink.logChange(estimateUsizeBytes(insertIndex)+estimateUsizeBytes(k), func() Change {
					return Change{Kind: ChangeRemove, Index: intPtr(ii), Length: kk}
				})
				originalIndex += k
			}
			originalIndex++
			insertIndex++
			continue
		}

		if k := indexOfEstimated(updatedValues[updatedIndex:], original); k >= 0 {
			cur := updated
			for i := 0; i <= k; i++ {
				ii := insertIndex
				val := cur.Value
				bytes := cur.Bytes
				sink.logChange(bytes+estimateUsizeBytes(insertIndex), func() Change {
					return Change{Kind: ChangeInsert, Index: intPtr(ii), Value: val}
				})
				insertIndex++
				cur = updatedValues[updatedIndex]
				updatedIndex++
			}
			originalIndex++
			insertIndex++
			continue
		}

		counter := &counterSink{}
		createDiff(intPtr(insertIndex), original, updated, false, counter)
		if counter.bytes > updated.Bytes {
			ii := insertIndex
			val := updated.Value
			bytes := updated.Bytes
			sink.logChange(bytes+estimateUsizeBytes(insertIndex), func() Change {
				return Change{Kind: ChangeReplace, Index: intPtr(ii), Value: val}
			})
		} else {
			createDiff(intPtr(insertIndex), original, updated, false, sink)
		}
		originalIndex++
		insertIndex++
	}

	if originalIndex < len(originalValues) {
		ii := insertIndex
		sink.logChange(estimateUsizeBytes(insertIndex), func() Change {
			return Change{Kind: ChangeTruncate, Length: ii}
		})
	}
}

// createMapDiff is createSequenceDiff's analogue for Mappings: the key is
// the alignment key rather than the whole pair.
func createMapDiff(originalPairs []Pair, updatedPairs []EstimatedPair, sink changeSink) {
	originalIndex, insertIndex, updatedIndex := 0, 0, 0

	for updatedIndex < len(updatedPairs) {
		updated := updatedPairs[updatedIndex]
		updatedIndex++

		if originalIndex >= len(originalPairs) {
			ii := insertIndex
			key, val := updated.Key.Value, updated.Value.Value
			cost := updated.Key.Bytes + updated.Value.Bytes
			sink.logChange(cost+estimateUsizeBytes(insertIndex), func() Change {
				return Change{Kind: ChangeInsertMapping, Index: intPtr(ii), Key: key, Value: val}
			})
			insertIndex++
			continue
		}

		original := originalPairs[originalIndex]

		if k := indexOfPairKey(originalPairs[originalIndex:], updated.Key.Value); k >= 0 {
			if k > 0 {
				ii, kk := insertIndex, k
				sink.logChange(estimateUsizeBytes(insertIndex)*k, func() Change {
					return Change{Kind: ChangeRemove, Index: intPtr(ii), Length: kk}
				})
				originalIndex += k
			}

			if !updated.Value.Value.Equal(originalPairs[originalIndex].Value) {
				counter := &counterSink{}
				createDiff(intPtr(insertIndex), originalPairs[originalIndex].Value, updated.Value, false, counter)
				if counter.bytes > updated.Value.Bytes {
					ii := insertIndex
					val := updated.Value.Value
					bytes := updated.Value.Bytes
					sink.logChange(bytes+estimateUsizeBytes(insertIndex), func() Change {
						return Change{Kind: ChangeReplace, Index: intPtr(ii), Value: val}
					})
				} else {
					createDiff(intPtr(insertIndex), originalPairs[originalIndex].Value, updated.Value, false, sink)
				}
			}

			originalIndex++
			insertIndex++
			continue
		}

		if k := indexOfEstimatedPairKey(updatedPairs[updatedIndex:], original.Key); k >= 0 {
			cur := updated
			for i := 0; i <= k; i++ {
				ii := insertIndex
				key, val := cur.Key.Value, cur.Value.Value
				cost := cur.Key.Bytes + cur.Value.Bytes
				sink.logChange(cost+estimateUsizeBytes(insertIndex), func() Change {
					return Change{Kind: ChangeInsertMapping, Index: intPtr(ii), Key: key, Value: val}
				})
				insertIndex++
				cur = updatedPairs[updatedIndex]
				updatedIndex++
			}
			originalIndex++
			insertIndex++
			continue
		}

		if updated.Value.Value.Equal(original.Value) {
			// Only the key differs. ReplaceKey is restricted to this
			// equal-value case so the applier's precondition table stays
			// sound; any value change alongside a key change goes through
			// ReplaceMapping instead.
			counter := &counterSink{}
			createDiff(intPtr(insertIndex), original.Key, updated.Key, true, counter)
			if counter.bytes > updated.Key.Bytes {
				ii := insertIndex
				key := updated.Key.Value
				bytes := updated.Key.Bytes
				sink.logChange(bytes+estimateUsizeBytes(insertIndex), func() Change {
					return Change{Kind: ChangeReplaceKey, Index: intPtr(ii), Key: key}
				})
			} else {
				createDiff(intPtr(insertIndex), original.Key, updated.Key, true, sink)
			}
		} else {
			ii := insertIndex
			key, val := updated.Key.Value, updated.Value.Value
			cost := updated.Key.Bytes + updated.Value.Bytes
			sink.logChange(cost+estimateUsizeBytes(insertIndex), func() Change {
				return Change{Kind: ChangeReplaceMapping, Index: intPtr(ii), Key: key, Value: val}
			})
		}

		originalIndex++
		insertIndex++
	}

	if originalIndex < len(originalPairs) {
		ii := insertIndex
		sink.logChange(estimateUsizeBytes(insertIndex), func() Change {
			return Change{Kind: ChangeTruncate, Length: ii}
		})
	}
}

func indexOfValue(values []Value, needle Value) int {
	for i, v := range values {
		if v.Equal(needle) {
			return i
		}
	}
	return -1
}

func indexOfEstimated(values []Estimated, needle Value) int {
	for i, v := range values {
		if v.Value.Equal(needle) {
			return i
		}
	}
	return -1
}

func indexOfPairKey(pairs []Pair, key Value) int {
	for i, p := range pairs {
		if p.Key.Equal(key) {
			return i
		}
	}
	return -1
}

func indexOfEstimatedPairKey(pairs []EstimatedPair, key Value) int {
	for i, p := range pairs {
		if p.Key.Value.Equal(key) {
			return i
		}
	}
	return -1
}

func derefIndexOr0(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

// estimateUsizeBytes estimates how many bytes a varuint-encoded index or
// length of this magnitude would take.
func estimateUsizeBytes(v int) int {
	switch {
	case v <= 0xFF:
		return 1
	case v <= 0xFFFF:
		return 2
	case v <= 0xFFFFFFFF:
		return 4
	default:
		return 8
	}
}
