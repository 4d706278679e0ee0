package structdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type point struct {
	X int
	Y int
}

func TestReflectValueCodecToValueStruct(t *testing.T) {
	var codec ReflectValueCodec
	v, err := codec.ToValue(point{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("ToValue returned error: %v", err)
	}
	want := Mappings(
		Pair{Key: String("X"), Value: Integer(1)},
		Pair{Key: String("Y"), Value: Integer(2)},
	)
	if !v.Equal(want) {
		t.Errorf("ToValue(point) = %+v, want %+v", v, want)
	}
}

func TestReflectValueCodecFromValueStruct(t *testing.T) {
	var codec ReflectValueCodec
	v := Mappings(
		Pair{Key: String("X"), Value: Integer(3)},
		Pair{Key: String("Y"), Value: Integer(4)},
	)
	var p point
	if err := codec.FromValue(v, &p); err != nil {
		t.Fatalf("FromValue returned error: %v", err)
	}
	want := point{X: 3, Y: 4}
	if p != want {
		t.Errorf("FromValue produced %+v, want %+v", p, want)
	}
}

func TestReflectValueCodecMapKeysAreSorted(t *testing.T) {
	var codec ReflectValueCodec
	m := map[string]int{"z": 1, "a": 2, "m": 3}
	v, err := codec.ToValue(m)
	if err != nil {
		t.Fatalf("ToValue returned error: %v", err)
	}
	want := Mappings(
		Pair{Key: String("a"), Value: Integer(2)},
		Pair{Key: String("m"), Value: Integer(3)},
		Pair{Key: String("z"), Value: Integer(1)},
	)
	if !v.Equal(want) {
		t.Errorf("ToValue(map) = %+v, want %+v", v, want)
	}
}

func TestReflectValueCodecSliceAndBytes(t *testing.T) {
	var codec ReflectValueCodec

	sv, err := codec.ToValue([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("ToValue returned error: %v", err)
	}
	if want := Sequence(Integer(1), Integer(2), Integer(3)); !sv.Equal(want) {
		t.Errorf("ToValue([]int) = %+v, want %+v", sv, want)
	}

	bv, err := codec.ToValue([]byte{0xFF, 0x00})
	if err != nil {
		t.Fatalf("ToValue returned error: %v", err)
	}
	if bv.Kind() != KindBytes {
		t.Errorf("ToValue([]byte) kind = %v, want %v", bv.Kind(), KindBytes)
	}

	var out []int
	if err := codec.FromValue(Sequence(Integer(5), Integer(6)), &out); err != nil {
		t.Fatalf("FromValue returned error: %v", err)
	}
	if diff := cmp.Diff([]int{5, 6}, out); diff != "" {
		t.Errorf("FromValue mismatch (-want +got):\n%s", diff)
	}
}

func TestReflectValueCodecNilPointerIsNone(t *testing.T) {
	var codec ReflectValueCodec
	var p *point
	v, err := codec.ToValue(p)
	if err != nil {
		t.Fatalf("ToValue returned error: %v", err)
	}
	if v.Kind() != KindNone {
		t.Errorf("ToValue(nil pointer) kind = %v, want %v", v.Kind(), KindNone)
	}
}

func TestReflectValueCodecRoundTripThroughHolder(t *testing.T) {
	h, err := NewHolder(point{X: 1, Y: 1}, ReflectValueCodec{})
	if err != nil {
		t.Fatalf("NewHolder returned error: %v", err)
	}
	h.Set(point{X: 1, Y: 9})

	script, err := h.Script()
	if err != nil {
		t.Fatalf("Script returned error: %v", err)
	}
	if len(script) == 0 {
		t.Fatal("expected a non-empty script for the Y change")
	}

	var codec ReflectValueCodec
	before, err := codec.ToValue(point{X: 1, Y: 1})
	if err != nil {
		t.Fatalf("ToValue returned error: %v", err)
	}
	patched, err := Apply(script, before)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	var got point
	if err := codec.FromValue(patched, &got); err != nil {
		t.Fatalf("FromValue returned error: %v", err)
	}
	if want := (point{X: 1, Y: 9}); got != want {
		t.Errorf("round trip produced %+v, want %+v", got, want)
	}
}
