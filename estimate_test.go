package structdiff

import "testing"

func TestIntegerWidth(t *testing.T) {
	cases := []struct {
		v    int64
		want int
	}{
		{0, 1},
		{127, 1},
		{-128, 1},
		{128, 2},
		{-129, 2},
		{32767, 2},
		{32768, 4},
		{2147483647, 4},
		{2147483648, 8},
		{-2147483649, 8},
	}
	for _, tc := range cases {
		if got := IntegerWidth(tc.v); got != tc.want {
			t.Errorf("IntegerWidth(%d) = %d, want %d", tc.v, got, tc.want)
		}
	}
}

func TestFloatIsSingle(t *testing.T) {
	if !FloatIsSingle(1.5) {
		t.Error("1.5 round-trips through float32 and should classify as single")
	}
	if FloatIsSingle(0.1) {
		t.Error("0.1 does not round-trip through float32 and should not classify as single")
	}
}

func TestEstimatePrimitives(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want int
	}{
		{"none", None(), 1},
		{"unit", Unit(), 1},
		{"bool", Bool(true), 2},
		{"small integer", Integer(5), 1 + 1},
		{"large integer", Integer(1 << 40), 1 + 8},
		{"single float", Float(1.5), 1 + 4},
		{"double float", Float(0.1), 1 + 8},
		{"bytes", Bytes([]byte("abc")), 1 + 3},
		{"string", String("abc"), 1 + 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Estimate(tc.v).Bytes; got != tc.want {
				t.Errorf("Estimate(%v).Bytes = %d, want %d", tc.v, got, tc.want)
			}
		})
	}
}

func TestEstimateSequence(t *testing.T) {
	v := Sequence(Integer(1), Integer(2))
	// 1 (length prefix) + 1 child slot each + per-child cost (1+1 each).
	want := 3 + 2 + 2
	if got := Estimate(v).Bytes; got != want {
		t.Errorf("Estimate(sequence).Bytes = %d, want %d", got, want)
	}

	est := Estimate(v)
	if len(est.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(est.Children))
	}
	if est.Children[0].Bytes != 2 || est.Children[1].Bytes != 2 {
		t.Errorf("child estimates = %+v, want 2 bytes each", est.Children)
	}
}

func TestEstimateMappings(t *testing.T) {
	v := Mappings(Pair{Key: String("a"), Value: Integer(1)})
	// 2*1+1 header, plus key (1+1) and value (1+1).
	want := 3 + 2 + 2
	if got := Estimate(v).Bytes; got != want {
		t.Errorf("Estimate(mappings).Bytes = %d, want %d", got, want)
	}

	est := Estimate(v)
	if len(est.Pairs) != 1 {
		t.Fatalf("len(Pairs) = %d, want 1", len(est.Pairs))
	}
}

func TestEstimateEmptyContainers(t *testing.T) {
	if got := Estimate(Sequence()).Bytes; got != 1 {
		t.Errorf("Estimate(empty sequence).Bytes = %d, want 1", got)
	}
	if got := Estimate(Mappings()).Bytes; got != 1 {
		t.Errorf("Estimate(empty mappings).Bytes = %d, want 1", got)
	}
}
