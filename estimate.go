package structdiff

// Estimated is a shadow of Value annotated at every node with a cheap upper
// bound on the encoded size of that subtree under the binary wire format.
// The estimate need not be exact: it must be monotone and comparable
// against the cost estimate of an equivalent sub-diff.
type Estimated struct {
	Bytes int
	Value Value

	// Children holds the per-element estimates of a Sequence value, in
	// order. Pairs holds the per-entry estimates of a Mappings value.
	// Exactly one of Children/Pairs is populated, matching Value.Kind().
	Children []Estimated
	Pairs    []EstimatedPair
}

// EstimatedPair is the Estimated shadow of a single mapping entry.
type EstimatedPair struct {
	Key   Estimated
	Value Estimated
}

// Estimate computes the Estimated shadow of v, bottom-up.
func Estimate(v Value) Estimated {
	switch v.Kind() {
	case KindNone, KindUnit:
		return Estimated{Bytes: 1, Value: v}
	case KindBool:
		return Estimated{Bytes: 1 + 1, Value: v}
	case KindInteger:
		return Estimated{Bytes: 1 + IntegerWidth(v.IntegerValue()), Value: v}
	case KindFloat:
		width := 8
		if FloatIsSingle(v.FloatValue()) {
			width = 4
		}
		return Estimated{Bytes: 1 + width, Value: v}
	case KindBytes:
		return Estimated{Bytes: 1 + len(v.BytesValue()), Value: v}
	case KindString:
		return Estimated{Bytes: 1 + len(v.StringValue()), Value: v}
	case KindSequence:
		children := make([]Estimated, len(v.SequenceValues()))
		total := len(children) + 1
		for i, child := range v.SequenceValues() {
			children[i] = Estimate(child)
			total += children[i].Bytes
		}
		return Estimated{Bytes: total, Value: v, Children: children}
	case KindMappings:
		pairs := make([]EstimatedPair, len(v.MappingPairs()))
		total := 2*len(pairs) + 1
		for i, p := range v.MappingPairs() {
			ek := Estimate(p.Key)
			ev := Estimate(p.Value)
			pairs[i] = EstimatedPair{Key: ek, Value: ev}
			total += ek.Bytes + ev.Bytes
		}
		return Estimated{Bytes: total, Value: v, Pairs: pairs}
	default:
		return Estimated{Bytes: 1, Value: v}
	}
}

// IntegerWidth classifies the encoded byte width of a signed integer as 1,
// 2, 4 or 8, by the smallest width the value fits in.
func IntegerWidth(i int64) int {
	switch {
	case i >= -128 && i <= 127:
		return 1
	case i >= -32768 && i <= 32767:
		return 2
	case i >= -2147483648 && i <= 2147483647:
		return 4
	default:
		return 8
	}
}

// FloatIsSingle reports whether f round-trips through a 32-bit float
// without loss, in which case it can be encoded as 4 bytes instead of 8.
func FloatIsSingle(f float64) bool {
	return float64(float32(f)) == f
}
