package structdiff

import "testing"

func TestValueEqualPrimitives(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"none equals none", None(), None(), true},
		{"unit equals unit", Unit(), Unit(), true},
		{"none differs from unit", None(), Unit(), false},
		{"bool equal", Bool(true), Bool(true), true},
		{"bool unequal", Bool(true), Bool(false), false},
		{"integer equal", Integer(7), Integer(7), true},
		{"integer unequal", Integer(7), Integer(8), false},
		{"float equal", Float(1.5), Float(1.5), true},
		{"float unequal", Float(1.5), Float(1.6), false},
		{"string equal", String("a"), String("a"), true},
		{"string unequal", String("a"), String("b"), false},
		{"bytes equal", Bytes([]byte("a")), Bytes([]byte("a")), true},
		{"bytes unequal", Bytes([]byte("a")), Bytes([]byte("b")), false},
		{"bytes never equals string with same payload", Bytes([]byte("a")), String("a"), false},
		{"integer never equals float", Integer(1), Float(1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("Equal() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValueEqualSequence(t *testing.T) {
	a := Sequence(Integer(1), Integer(2), Integer(3))
	b := Sequence(Integer(1), Integer(2), Integer(3))
	if !a.Equal(b) {
		t.Error("identical sequences should be equal")
	}

	c := Sequence(Integer(1), Integer(3), Integer(2))
	if a.Equal(c) {
		t.Error("sequences differing only in order should not be equal")
	}

	d := Sequence(Integer(1), Integer(2))
	if a.Equal(d) {
		t.Error("sequences of different length should not be equal")
	}
}

func TestValueEqualMappingsPositional(t *testing.T) {
	a := Mappings(
		Pair{Key: String("a"), Value: Integer(1)},
		Pair{Key: String("b"), Value: Integer(2)},
	)
	b := Mappings(
		Pair{Key: String("b"), Value: Integer(2)},
		Pair{Key: String("a"), Value: Integer(1)},
	)
	if a.Equal(b) {
		t.Error("Mappings compares positionally; reordered pairs must not be equal")
	}

	c := Mappings(
		Pair{Key: String("a"), Value: Integer(1)},
		Pair{Key: String("b"), Value: Integer(2)},
	)
	if !a.Equal(c) {
		t.Error("identical pair sequences should be equal")
	}
}

func TestKindString(t *testing.T) {
	if got := KindInteger.String(); got != "integer" {
		t.Errorf("KindInteger.String() = %q, want %q", got, "integer")
	}
}
