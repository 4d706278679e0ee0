package structdiff

import (
	"fmt"
	"reflect"
	"sort"
)

// ValueCodec bridges an arbitrary domain type and the self-describing Value
// tree structdiff operates on. The core depends only on this
// narrow interface, never on reflection directly, so a caller with a
// performance-sensitive domain type can supply a hand-written codec instead.
type ValueCodec interface {
	ToValue(domain interface{}) (Value, error)
	FromValue(v Value, out interface{}) error
}

// ReflectValueCodec is the default ValueCodec. It walks an arbitrary Go
// value with reflect (maps, slices, arrays, structs, and
// pointers/interfaces) to build a Value tree, and walks a Value tree to
// fill a Go value.
type ReflectValueCodec struct{}

var _ ValueCodec = ReflectValueCodec{}

func (ReflectValueCodec) ToValue(domain interface{}) (Value, error) {
	return reflectToValue(reflect.ValueOf(domain))
}

func (ReflectValueCodec) FromValue(v Value, out interface{}) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return newError(ErrValueDeserialization, "FromValue requires a non-nil pointer")
	}
	return reflectFromValue(v, rv.Elem())
}

func reflectToValue(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return None(), nil
	}
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr:
		if rv.IsNil() {
			return None(), nil
		}
		return reflectToValue(rv.Elem())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return None(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 && rv.Kind() == reflect.Slice {
			return Bytes(append([]byte(nil), rv.Bytes()...)), nil
		}
		values := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			child, err := reflectToValue(rv.Index(i))
			if err != nil {
				return Value{}, err
			}
			values[i] = child
		}
		return Sequence(values...), nil
	case reflect.Map:
		if rv.IsNil() {
			return None(), nil
		}
		// Map iteration order is randomized; sort keys by their formatted
		// text so the same map always produces the same Mappings, matching
		// positional equality.
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		pairs := make([]Pair, 0, len(keys))
		for _, k := range keys {
			kv, err := reflectToValue(k)
			if err != nil {
				return Value{}, err
			}
			vv, err := reflectToValue(rv.MapIndex(k))
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: kv, Value: vv})
		}
		return Mappings(pairs...), nil
	case reflect.Struct:
		t := rv.Type()
		pairs := make([]Pair, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.PkgPath != "" {
				continue
			}
			fv, err := reflectToValue(rv.Field(i))
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: String(field.Name), Value: fv})
		}
		return Mappings(pairs...), nil
	case reflect.Invalid:
		return None(), nil
	default:
		return Value{}, newError(ErrValueDeserialization, fmt.Sprintf("unsupported kind %s", rv.Kind()))
	}
}

func reflectFromValue(v Value, target reflect.Value) error {
	if target.Kind() == reflect.Ptr {
		if v.Kind() == KindNone {
			target.Set(reflect.Zero(target.Type()))
			return nil
		}
		if target.IsNil() {
			target.Set(reflect.New(target.Type().Elem()))
		}
		return reflectFromValue(v, target.Elem())
	}
	if target.Kind() == reflect.Interface {
		generic, err := valueToGeneric(v)
		if err != nil {
			return err
		}
		if generic == nil {
			target.Set(reflect.Zero(target.Type()))
			return nil
		}
		target.Set(reflect.ValueOf(generic))
		return nil
	}

	switch v.Kind() {
	case KindNone:
		target.Set(reflect.Zero(target.Type()))
		return nil
	case KindUnit:
		return nil
	case KindBool:
		if target.Kind() != reflect.Bool {
			return wrongKindError(KindBool, target)
		}
		target.SetBool(v.BoolValue())
		return nil
	case KindInteger:
		switch target.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			target.SetInt(v.IntegerValue())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			target.SetUint(uint64(v.IntegerValue()))
		default:
			return wrongKindError(KindInteger, target)
		}
		return nil
	case KindFloat:
		if target.Kind() != reflect.Float32 && target.Kind() != reflect.Float64 {
			return wrongKindError(KindFloat, target)
		}
		target.SetFloat(v.FloatValue())
		return nil
	case KindString:
		if target.Kind() != reflect.String {
			return wrongKindError(KindString, target)
		}
		target.SetString(v.StringValue())
		return nil
	case KindBytes:
		if target.Kind() != reflect.Slice || target.Type().Elem().Kind() != reflect.Uint8 {
			return wrongKindError(KindBytes, target)
		}
		target.SetBytes(append([]byte(nil), v.BytesValue()...))
		return nil
	case KindSequence:
		values := v.SequenceValues()
		switch target.Kind() {
		case reflect.Slice:
			sl := reflect.MakeSlice(target.Type(), len(values), len(values))
			for i, child := range values {
				if err := reflectFromValue(child, sl.Index(i)); err != nil {
					return err
				}
			}
			target.Set(sl)
			return nil
		case reflect.Array:
			if target.Len() != len(values) {
				return newError(ErrValueDeserialization, "sequence length does not match array length")
			}
			for i, child := range values {
				if err := reflectFromValue(child, target.Index(i)); err != nil {
					return err
				}
			}
			return nil
		default:
			return wrongKindError(KindSequence, target)
		}
	case KindMappings:
		pairs := v.MappingPairs()
		switch target.Kind() {
		case reflect.Map:
			m := reflect.MakeMapWithSize(target.Type(), len(pairs))
			keyType := target.Type().Key()
			valueType := target.Type().Elem()
			for _, p := range pairs {
				k := reflect.New(keyType).Elem()
				if err := reflectFromValue(p.Key, k); err != nil {
					return err
				}
				val := reflect.New(valueType).Elem()
				if err := reflectFromValue(p.Value, val); err != nil {
					return err
				}
				m.SetMapIndex(k, val)
			}
			target.Set(m)
			return nil
		case reflect.Struct:
			for _, p := range pairs {
				field := target.FieldByName(p.Key.StringValue())
				if !field.IsValid() || !field.CanSet() {
					continue
				}
				if err := reflectFromValue(p.Value, field); err != nil {
					return err
				}
			}
			return nil
		default:
			return wrongKindError(KindMappings, target)
		}
	default:
		return newError(ErrValueDeserialization, "unsupported value kind")
	}
}

// valueToGeneric builds a plain interface{} tree (map[string]interface{},
// []interface{}, and the scalar Go types) out of a Value, for FromValue
// targets typed as interface{}.
func valueToGeneric(v Value) (interface{}, error) {
	switch v.Kind() {
	case KindNone:
		return nil, nil
	case KindUnit:
		return struct{}{}, nil
	case KindBool:
		return v.BoolValue(), nil
	case KindInteger:
		return v.IntegerValue(), nil
	case KindFloat:
		return v.FloatValue(), nil
	case KindBytes:
		return append([]byte(nil), v.BytesValue()...), nil
	case KindString:
		return v.StringValue(), nil
	case KindSequence:
		values := v.SequenceValues()
		out := make([]interface{}, len(values))
		for i, child := range values {
			g, err := valueToGeneric(child)
			if err != nil {
				return nil, err
			}
			out[i] = g
		}
		return out, nil
	case KindMappings:
		pairs := v.MappingPairs()
		out := make(map[string]interface{}, len(pairs))
		for _, p := range pairs {
			g, err := valueToGeneric(p.Value)
			if err != nil {
				return nil, err
			}
			out[p.Key.StringValue()] = g
		}
		return out, nil
	default:
		return nil, newError(ErrValueDeserialization, "unsupported value kind")
	}
}

func wrongKindError(k Kind, target reflect.Value) error {
	return newError(ErrValueDeserialization, fmt.Sprintf("cannot assign a %s into a %s", k, target.Kind()))
}
