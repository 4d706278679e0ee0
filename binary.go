package structdiff

import (
	"bytes"
	"fmt"
)

// wireVersion is the single version byte every encoded Script starts with.
// Only the low seven bits are the version number; the top bit is reserved
// for a future flag and is ignored by the version check. A decoder that
// doesn't recognize the low seven bits reports ErrUnsupportedVersion rather
// than guessing at a newer layout.
const wireVersion byte = 0

const wireVersionMask byte = 0x7F

// Wire change-byte layout: the top 4 bits hold one of these variant ids: the
// remaining Change kinds (ReplaceKey, ReplaceMapping, InsertMapping) share a
// variant id with a sibling and are told apart by the flag bits below,
// keeping the variant id space small and the flags expressive.
const (
	wireEnterSequence = 0
	wireEnterMap      = 1
	wireExit          = 2
	wireReplace       = 3
	wireRemove        = 4
	wireTruncate      = 5
	wireInsert        = 6
)

const (
	flagKey     = 1 << 0
	flagRoot    = 1 << 1
	flagMapping = 1 << 2
)

// Encode serializes a Script to the versioned binary wire format. A nil
// codec uses DefaultAtomCodec.
func (s Script) Encode(codec AtomCodec) ([]byte, error) {
	if codec == nil {
		codec = DefaultAtomCodec{}
	}
	var buf bytes.Buffer
	buf.WriteByte(wireVersion)
	buf.Write(appendVaruint(nil, uint64(len(s))))
	for _, ch := range s {
		if err := encodeChange(&buf, ch, codec); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func encodeChange(w *bytes.Buffer, ch Change, codec AtomCodec) error {
	switch ch.Kind {
	case ChangeEnterSequence, ChangeEnterMap:
		flags := byte(0)
		if ch.IsKey {
			flags |= flagKey
		}
		if ch.Index == nil {
			flags |= flagRoot
		}
		variant := byte(wireEnterSequence)
		if ch.Kind == ChangeEnterMap {
			variant = wireEnterMap
		}
		writeChangeByte(w, variant, flags)
		if ch.Index != nil {
			w.Write(appendVaruint(nil, uint64(*ch.Index)))
		}
		return nil

	case ChangeExit:
		writeChangeByte(w, wireExit, 0)
		return nil

	case ChangeReplace:
		flags := byte(0)
		if ch.Index == nil {
			flags |= flagRoot
		}
		writeChangeByte(w, wireReplace, flags)
		if ch.Index != nil {
			w.Write(appendVaruint(nil, uint64(*ch.Index)))
		}
		return writeValue(w, ch.Value, codec)

	case ChangeReplaceKey:
		if ch.Index == nil {
			return newError(ErrInvalidData, "replace key requires an index")
		}
		writeChangeByte(w, wireReplace, flagKey)
		w.Write(appendVaruint(nil, uint64(*ch.Index)))
		return writeValue(w, ch.Key, codec)

	case ChangeReplaceMapping:
		if ch.Index == nil {
			return newError(ErrInvalidData, "replace mapping requires an index")
		}
		writeChangeByte(w, wireReplace, flagMapping)
		w.Write(appendVaruint(nil, uint64(*ch.Index)))
		if err := writeValue(w, ch.Key, codec); err != nil {
			return err
		}
		return writeValue(w, ch.Value, codec)

	case ChangeRemove:
		if ch.Index == nil {
			return newError(ErrInvalidData, "remove requires an index")
		}
		writeChangeByte(w, wireRemove, 0)
		w.Write(appendVaruint(nil, uint64(*ch.Index)))
		w.Write(appendVaruint(nil, uint64(ch.Length)))
		return nil

	case ChangeTruncate:
		writeChangeByte(w, wireTruncate, 0)
		w.Write(appendVaruint(nil, uint64(ch.Length)))
		return nil

	case ChangeInsert:
		if ch.Index == nil {
			return newError(ErrInvalidData, "insert requires an index")
		}
		writeChangeByte(w, wireInsert, 0)
		w.Write(appendVaruint(nil, uint64(*ch.Index)))
		return writeValue(w, ch.Value, codec)

	case ChangeInsertMapping:
		if ch.Index == nil {
			return newError(ErrInvalidData, "insert mapping requires an index")
		}
		writeChangeByte(w, wireInsert, flagMapping)
		w.Write(appendVaruint(nil, uint64(*ch.Index)))
		if err := writeValue(w, ch.Key, codec); err != nil {
			return err
		}
		return writeValue(w, ch.Value, codec)

	default:
		return newError(ErrInvalidData, "cannot encode unknown change kind")
	}
}

func writeChangeByte(w *bytes.Buffer, variant, flags byte) {
	w.WriteByte((variant << 4) | flags)
}

func writeValue(w *bytes.Buffer, v Value, codec AtomCodec) error {
	switch v.Kind() {
	case KindNone:
		return codec.WriteNone(w)
	case KindUnit:
		return codec.WriteUnit(w)
	case KindBool:
		return codec.WriteBool(w, v.BoolValue())
	case KindInteger:
		return codec.WriteInteger(w, v.IntegerValue())
	case KindFloat:
		return codec.WriteFloat(w, v.FloatValue())
	case KindBytes:
		return codec.WriteBytes(w, v.BytesValue())
	case KindString:
		return codec.WriteString(w, v.StringValue())
	case KindSequence:
		seq := v.SequenceValues()
		if err := codec.WriteContainerHeader(w, AtomSequence, len(seq)); err != nil {
			return err
		}
		for _, child := range seq {
			if err := writeValue(w, child, codec); err != nil {
				return err
			}
		}
		return nil
	case KindMappings:
		pairs := v.MappingPairs()
		if err := codec.WriteContainerHeader(w, AtomMap, len(pairs)); err != nil {
			return err
		}
		for _, p := range pairs {
			if err := writeValue(w, p.Key, codec); err != nil {
				return err
			}
			if err := writeValue(w, p.Value, codec); err != nil {
				return err
			}
		}
		return nil
	default:
		return newError(ErrInvalidData, "cannot encode value of unknown kind")
	}
}

// byteCursor is the DefaultAtomCodec-facing ByteSource over an in-memory
// decode buffer.
type byteCursor struct {
	buf []byte
	pos int
}

func (c *byteCursor) ReadByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, newError(ErrUnexpectedEOF, "truncated input")
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

func (c *byteCursor) ReadN(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, newError(ErrUnexpectedEOF, "truncated input")
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *byteCursor) Len() int { return len(c.buf) - c.pos }

// DecodeScript parses the versioned binary wire format produced by
// Script.Encode. A nil codec uses DefaultAtomCodec.
func DecodeScript(data []byte, codec AtomCodec) (Script, error) {
	if codec == nil {
		codec = DefaultAtomCodec{}
	}
	cur := &byteCursor{buf: data}

	version, err := cur.ReadByte()
	if err != nil {
		return nil, newError(ErrUnexpectedEOF, "missing version byte")
	}
	if version&wireVersionMask != wireVersion {
		return nil, newError(ErrUnsupportedVersion, fmt.Sprintf("version %d is not supported", version&wireVersionMask))
	}

	count, err := readAtomVaruint(cur)
	if err != nil {
		return nil, err
	}
	// Bounds the allocation below: a diff can't declare more changes than
	// there are bytes left to encode them in.
	if int(count) > cur.Len() {
		return nil, newError(ErrInvalidData, "change count exceeds remaining input")
	}

	changes := make([]Change, 0, count)
	for i := uint64(0); i < count; i++ {
		ch, err := decodeChange(cur, codec)
		if err != nil {
			return nil, err
		}
		changes = append(changes, ch)
	}
	return Script(changes), nil
}

func decodeChange(cur *byteCursor, codec AtomCodec) (Change, error) {
	header, err := cur.ReadByte()
	if err != nil {
		return Change{}, newError(ErrUnexpectedEOF, "truncated change header")
	}
	variant := header >> 4
	flags := header & 0x0F
	isKey := flags&flagKey != 0
	isRoot := flags&flagRoot != 0
	isMapping := flags&flagMapping != 0

	switch variant {
	case wireEnterSequence:
		idx, err := decodeOptionalIndex(cur, isRoot)
		if err != nil {
			return Change{}, err
		}
		return Change{Kind: ChangeEnterSequence, Index: idx, IsKey: isKey}, nil

	case wireEnterMap:
		idx, err := decodeOptionalIndex(cur, isRoot)
		if err != nil {
			return Change{}, err
		}
		return Change{Kind: ChangeEnterMap, Index: idx, IsKey: isKey}, nil

	case wireExit:
		return Change{Kind: ChangeExit}, nil

	case wireReplace:
		switch {
		case !isKey && !isMapping:
			idx, err := decodeOptionalIndex(cur, isRoot)
			if err != nil {
				return Change{}, err
			}
			v, err := readValue(cur, codec)
			if err != nil {
				return Change{}, err
			}
			return Change{Kind: ChangeReplace, Index: idx, Value: v}, nil
		case isKey && !isMapping && !isRoot:
			i, err := decodeIndex(cur)
			if err != nil {
				return Change{}, err
			}
			k, err := readValue(cur, codec)
			if err != nil {
				return Change{}, err
			}
			return Change{Kind: ChangeReplaceKey, Index: intPtr(i), Key: k}, nil
		case !isKey && isMapping && !isRoot:
			i, err := decodeIndex(cur)
			if err != nil {
				return Change{}, err
			}
			k, err := readValue(cur, codec)
			if err != nil {
				return Change{}, err
			}
			v, err := readValue(cur, codec)
			if err != nil {
				return Change{}, err
			}
			return Change{Kind: ChangeReplaceMapping, Index: intPtr(i), Key: k, Value: v}, nil
		default:
			return Change{}, newError(ErrInvalidData, "invalid replace flag combination")
		}

	case wireRemove:
		i, err := decodeIndex(cur)
		if err != nil {
			return Change{}, err
		}
		n, err := decodeIndex(cur)
		if err != nil {
			return Change{}, err
		}
		return Change{Kind: ChangeRemove, Index: intPtr(i), Length: n}, nil

	case wireTruncate:
		n, err := decodeIndex(cur)
		if err != nil {
			return Change{}, err
		}
		return Change{Kind: ChangeTruncate, Length: n}, nil

	case wireInsert:
		i, err := decodeIndex(cur)
		if err != nil {
			return Change{}, err
		}
		k, err := readValue(cur, codec)
		if err != nil {
			return Change{}, err
		}
		if isMapping {
			v, err := readValue(cur, codec)
			if err != nil {
				return Change{}, err
			}
			return Change{Kind: ChangeInsertMapping, Index: intPtr(i), Key: k, Value: v}, nil
		}
		return Change{Kind: ChangeInsert, Index: intPtr(i), Value: k}, nil

	default:
		return Change{}, newError(ErrInvalidData, "invalid change variant")
	}
}

func decodeIndex(cur *byteCursor) (int, error) {
	v, err := readAtomVaruint(cur)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func decodeOptionalIndex(cur *byteCursor, isRoot bool) (*int, error) {
	if isRoot {
		return nil, nil
	}
	i, err := decodeIndex(cur)
	if err != nil {
		return nil, err
	}
	return intPtr(i), nil
}

func readValue(r ByteSource, codec AtomCodec) (Value, error) {
	atom, err := codec.ReadAtom(r)
	if err != nil {
		if structErr, ok := err.(*Error); ok {
			return Value{}, structErr
		}
		return Value{}, wrapError(ErrAtomCodec, "atom codec rejected value", err)
	}
	switch atom.Kind {
	case AtomNone:
		return None(), nil
	case AtomUnit:
		return Unit(), nil
	case AtomBool:
		return Bool(atom.Bool), nil
	case AtomInteger:
		return Integer(atom.Integer), nil
	case AtomFloat:
		return Float(atom.Float), nil
	case AtomBytes:
		return Bytes(atom.Bytes), nil
	case AtomString:
		return String(atom.String), nil
	case AtomSequence:
		if atom.Length > r.Len() {
			return Value{}, newError(ErrInvalidData, "sequence length exceeds remaining input")
		}
		values := make([]Value, 0, atom.Length)
		for i := 0; i < atom.Length; i++ {
			v, err := readValue(r, codec)
			if err != nil {
				return Value{}, err
			}
			values = append(values, v)
		}
		return Sequence(values...), nil
	case AtomMap:
		if atom.Length > r.Len() {
			return Value{}, newError(ErrInvalidData, "mappings length exceeds remaining input")
		}
		pairs := make([]Pair, 0, atom.Length)
		for i := 0; i < atom.Length; i++ {
			k, err := readValue(r, codec)
			if err != nil {
				return Value{}, err
			}
			v, err := readValue(r, codec)
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: k, Value: v})
		}
		return Mappings(pairs...), nil
	default:
		return Value{}, newError(ErrInvalidData, "unexpected atom kind")
	}
}
