package structdiff

import (
	"errors"
	"testing"
)

func TestApplyEmptyScriptReturnsRootUnchanged(t *testing.T) {
	root := Sequence(Integer(1), Integer(2))
	got, err := Apply(nil, root)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !got.Equal(root) {
		t.Errorf("Apply(nil, root) = %+v, want %+v unchanged", got, root)
	}
}

func TestApplyInsertAtBoundaryAppends(t *testing.T) {
	script := Script{
		{Kind: ChangeEnterSequence},
		{Kind: ChangeInsert, Index: intPtr(2), Value: Integer(9)},
	}
	got, err := Apply(script, Sequence(Integer(1), Integer(2)))
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	want := Sequence(Integer(1), Integer(2), Integer(9))
	if !got.Equal(want) {
		t.Errorf("Apply(...) = %+v, want %+v", got, want)
	}
}

func TestApplyReplaceMappingAndInsertMapping(t *testing.T) {
	script := Script{
		{Kind: ChangeEnterMap},
		{Kind: ChangeReplaceMapping, Index: intPtr(0), Key: String("a"), Value: Integer(2)},
		{Kind: ChangeInsertMapping, Index: intPtr(1), Key: String("c"), Value: Integer(3)},
	}
	original := Mappings(Pair{Key: String("a"), Value: Integer(1)})
	got, err := Apply(script, original)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	want := Mappings(
		Pair{Key: String("a"), Value: Integer(2)},
		Pair{Key: String("c"), Value: Integer(3)},
	)
	if !got.Equal(want) {
		t.Errorf("Apply(...) = %+v, want %+v", got, want)
	}
}

func TestApplyRejectsRootKindMismatch(t *testing.T) {
	script := Script{{Kind: ChangeEnterSequence}}
	_, err := Apply(script, Mappings())
	assertStructuralError(t, err)
}

func TestApplyRejectsOutOfRangeIndex(t *testing.T) {
	script := Script{
		{Kind: ChangeEnterSequence},
		{Kind: ChangeReplace, Index: intPtr(5), Value: Integer(1)},
	}
	_, err := Apply(script, Sequence(Integer(1), Integer(2)))
	assertStructuralError(t, err)
}

func TestApplyRejectsOverrunningRemove(t *testing.T) {
	script := Script{
		{Kind: ChangeEnterSequence},
		{Kind: ChangeRemove, Index: intPtr(1), Length: 5},
	}
	_, err := Apply(script, Sequence(Integer(1), Integer(2)))
	assertStructuralError(t, err)
}

func TestApplyRejectsEnterSequenceIntoNonSequenceElement(t *testing.T) {
	script := Script{
		{Kind: ChangeEnterSequence},
		{Kind: ChangeEnterSequence, Index: intPtr(0)},
	}
	_, err := Apply(script, Sequence(Integer(1)))
	assertStructuralError(t, err)
}

func TestApplyRejectsChangeWithoutIndexWhereRequired(t *testing.T) {
	script := Script{
		{Kind: ChangeEnterSequence},
		{Kind: ChangeInsert, Index: nil, Value: Integer(1)},
	}
	_, err := Apply(script, Sequence())
	assertStructuralError(t, err)
}

func assertStructuralError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var structErr *Error
	if !errors.As(err, &structErr) {
		t.Fatalf("error %v is not *Error", err)
	}
	if structErr.Kind != ErrStructural {
		t.Errorf("error kind = %v, want %v", structErr.Kind, ErrStructural)
	}
}
