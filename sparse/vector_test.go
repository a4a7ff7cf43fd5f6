package sparse

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/happyhackingspace/corpusfold/errs"
)

const eps = 1e-12

func sampleVectors() (*Vector, *Vector) {
	a := FromMap(map[int]float64{0: 2, 1: 3})
	b := FromMap(map[int]float64{1: 4, 2: 5})
	return a, b
}

func TestAlgebra(t *testing.T) {
	a, b := sampleVectors()

	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot = %v, want 12", got)
	}
	if got := b.Dot(a); got != 12 {
		t.Errorf("Dot (reversed) = %v, want 12", got)
	}
	if got, want := a.L2Norm(), math.Sqrt(13); math.Abs(got-want) > eps {
		t.Errorf("L2Norm = %v, want %v", got, want)
	}
	want := 12 / (math.Sqrt(13) * math.Sqrt(41))
	if got := a.Cosine(b); math.Abs(got-want) > eps {
		t.Errorf("Cosine = %v, want %v", got, want)
	}

	a.Add(b)
	expected := map[int]float64{0: 2, 1: 7, 2: 5}
	if !reflect.DeepEqual(a.values, expected) {
		t.Errorf("Add = %v, want %v", a.values, expected)
	}
	if b.Size() != 2 {
		t.Errorf("Add modified its argument: %v", b.values)
	}
}

func TestCosineEmpty(t *testing.T) {
	a, _ := sampleVectors()
	empty := New()
	if got := a.Cosine(empty); got != 0 {
		t.Errorf("Cosine(empty) = %v, want 0", got)
	}
	if got := empty.Cosine(a); got != 0 {
		t.Errorf("empty.Cosine = %v, want 0", got)
	}
	if got := empty.Cosine(New()); got != 0 {
		t.Errorf("empty.Cosine(empty) = %v, want 0", got)
	}
	zeros := FromMap(map[int]float64{0: 0, 3: 0})
	if got := zeros.Cosine(a); got != 0 {
		t.Errorf("zeros.Cosine = %v, want 0", got)
	}
	if got := a.Cosine(zeros); got != 0 {
		t.Errorf("Cosine(zeros) = %v, want 0", got)
	}
}

func TestGetDistinguishesZeroFromAbsent(t *testing.T) {
	v := New()
	v.Set(4, 0)

	val, ok := v.Get(4)
	if !ok || val != 0 {
		t.Errorf("Get(4) = %v, %v; want 0, true", val, ok)
	}
	if _, ok := v.Get(5); ok {
		t.Error("Get(5) reported a stored value")
	}
	if v.Size() != 1 {
		t.Errorf("Size = %d, want 1", v.Size())
	}
}

func TestDivideMultiply(t *testing.T) {
	v := FromMap(map[int]float64{1: 2, 3: -4})
	if err := v.Divide(2); err != nil {
		t.Fatal(err)
	}
	v.Multiply(3)
	want := map[int]float64{1: 3, 3: -6}
	if !reflect.DeepEqual(v.values, want) {
		t.Errorf("values = %v, want %v", v.values, want)
	}
	if got := v.Sum(); got != -3 {
		t.Errorf("Sum = %v, want -3", got)
	}

	err := v.Divide(0)
	if !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("Divide(0) err = %v, want ErrConfig", err)
	}
	if !reflect.DeepEqual(v.values, want) {
		t.Errorf("Divide(0) modified the vector: %v", v.values)
	}
}

func TestSortedIndicesAndList(t *testing.T) {
	v := FromMap(map[int]float64{9: 1, 2: 5, 7: 1, 4: 3})

	if got, want := v.SortedIndices(), []int{2, 4, 7, 9}; !reflect.DeepEqual(got, want) {
		t.Errorf("SortedIndices = %v, want %v", got, want)
	}
	want := []Entry{{2, 5}, {4, 3}, {7, 1}, {9, 1}}
	if got := v.SortedList(); !reflect.DeepEqual(got, want) {
		t.Errorf("SortedList = %v, want %v", got, want)
	}
}

func TestEncodingRoundTrip(t *testing.T) {
	tests := []map[int]float64{
		{},
		{0: 2, 1: 3},
		{3: 0.1, 17: -2.5, 100000: 1e-9, 5: 0},
		{1: math.MaxFloat64, 2: math.SmallestNonzeroFloat64},
	}
	for _, m := range tests {
		v := FromMap(m)
		decoded, err := Parse(v.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", v.String(), err)
		}
		if !reflect.DeepEqual(decoded.values, v.values) {
			t.Errorf("round trip of %q = %v, want %v", v.String(), decoded.values, v.values)
		}
	}
}

func TestString(t *testing.T) {
	v := FromMap(map[int]float64{5: 0.25, 1: 3})
	if got, want := v.String(), "2 1:3 5:0.25"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
	if got := New().String(); got != "0" {
		t.Errorf("empty String = %q, want %q", got, "0")
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"x 1:2",
		"-1",
		"2 1:2",
		"1 1:2 3:4",
		"1 12",
		"1 a:2",
		"1 -3:2",
		"1 3:abc",
		"1 3:4:5",
		"2 3:1 3:2",
	}
	for _, in := range inputs {
		v, err := Parse(in)
		if !errors.Is(err, errs.ErrInput) {
			t.Errorf("Parse(%q) err = %v, want ErrInput", in, err)
		}
		if v != nil {
			t.Errorf("Parse(%q) returned a vector on error", in)
		}
	}
}

func TestTextMarshaling(t *testing.T) {
	a, _ := sampleVectors()
	text, err := a.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var b Vector
	if err := b.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.values, b.values) {
		t.Errorf("UnmarshalText = %v, want %v", b.values, a.values)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a, _ := sampleVectors()
	c := a.Clone()
	c.Set(0, 100)
	if val, _ := a.Get(0); val != 2 {
		t.Errorf("Clone shares storage: a[0] = %v", val)
	}
}

func TestSetNegativeIndexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	New().Set(-1, 1)
}
