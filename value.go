package structdiff

// Kind distinguishes the variants of a Value tagged union.
type Kind uint8

const (
	// KindNone represents the absence of a value.
	KindNone Kind = iota
	// KindUnit represents the zero-size "()" value, distinct from None.
	KindUnit
	KindBool
	KindInteger
	KindFloat
	KindBytes
	KindString
	KindSequence
	KindMappings
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMappings:
		return "mappings"
	default:
		return "unknown"
	}
}

// Pair is a single (key, value) entry of a Mappings container. Mapping
// semantics are positional: two Mappings values are equal iff their Pair
// sequences are equal element-wise and in order.
type Pair struct {
	Key   Value
	Value Value
}

// Value is a node in a self-describing value tree: one of None, Unit, Bool,
// Integer, Float, Bytes, String, Sequence or Mappings. The zero Value is
// KindNone. Value trees are immutable once constructed and must be finite
// and acyclic.
type Value struct {
	kind Kind

	boolean bool
	integer int64
	float   float64
	bytes   []byte
	str     string
	seq     []Value
	pairs   []Pair
}

// None returns the None value.
func None() Value { return Value{kind: KindNone} }

// Unit returns the Unit value.
func Unit() Value { return Value{kind: KindUnit} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Integer wraps a signed 64-bit integer.
func Integer(i int64) Value { return Value{kind: KindInteger, integer: i} }

// Float wraps a 64-bit float.
func Float(f float64) Value { return Value{kind: KindFloat, float: f} }

// Bytes wraps an opaque byte sequence. The slice is retained, not copied;
// callers must not mutate it after constructing the Value.
func Bytes(b []byte) Value { return Value{kind: KindBytes, bytes: b} }

// String wraps a UTF-8 string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Sequence wraps an ordered list of child values.
func Sequence(vs ...Value) Value { return Value{kind: KindSequence, seq: vs} }

// Mappings wraps an ordered list of key-value pairs.
func Mappings(ps ...Pair) Value { return Value{kind: KindMappings, pairs: ps} }

// Kind reports which variant a Value holds.
func (v Value) Kind() Kind { return v.kind }

// BoolValue returns the boolean payload; only meaningful when Kind() == KindBool.
func (v Value) BoolValue() bool { return v.boolean }

// IntegerValue returns the integer payload; only meaningful when Kind() == KindInteger.
func (v Value) IntegerValue() int64 { return v.integer }

// FloatValue returns the float payload; only meaningful when Kind() == KindFloat.
func (v Value) FloatValue() float64 { return v.float }

// BytesValue returns the bytes payload; only meaningful when Kind() == KindBytes.
func (v Value) BytesValue() []byte { return v.bytes }

// StringValue returns the string payload; only meaningful when Kind() == KindString.
func (v Value) StringValue() string { return v.str }

// SequenceValues returns the child values; only meaningful when Kind() == KindSequence.
func (v Value) SequenceValues() []Value { return v.seq }

// MappingPairs returns the entry pairs; only meaningful when Kind() == KindMappings.
func (v Value) MappingPairs() []Pair { return v.pairs }

// Equal reports deep structural equality. Bytes and String never compare
// equal to one another even if their payloads coincide, and Mappings
// compare positionally (ordered pair sequences), never set-wise.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNone, KindUnit:
		return true
	case KindBool:
		return v.boolean == o.boolean
	case KindInteger:
		return v.integer == o.integer
	case KindFloat:
		return v.float == o.float
	case KindBytes:
		return bytesEqual(v.bytes, o.bytes)
	case KindString:
		return v.str == o.str
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMappings:
		if len(v.pairs) != len(o.pairs) {
			return false
		}
		for i := range v.pairs {
			if !v.pairs[i].Key.Equal(o.pairs[i].Key) || !v.pairs[i].Value.Equal(o.pairs[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
