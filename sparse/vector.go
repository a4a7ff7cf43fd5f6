// Package sparse provides a map-backed sparse float64 vector.
//
// Absent indices are implicit zeros. Explicitly stored zeros are kept, so
// Get distinguishes "stored zero" from "absent".
package sparse

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/happyhackingspace/corpusfold/errs"
)

// Vector is a sparse vector over non-negative integer indices.
// A Vector must not be mutated concurrently.
type Vector struct {
	values map[int]float64
}

// Entry is an index/value pair.
type Entry struct {
	Index int
	Value float64
}

// New creates an empty vector.
func New() *Vector {
	return &Vector{values: make(map[int]float64)}
}

// FromMap creates a vector holding a copy of m.
func FromMap(m map[int]float64) *Vector {
	v := &Vector{values: make(map[int]float64, len(m))}
	for idx, val := range m {
		v.Set(idx, val)
	}
	return v
}

// Size returns the number of stored entries, not the dimensionality.
func (v *Vector) Size() int {
	return len(v.values)
}

// Get returns the stored value at idx and whether it is stored.
func (v *Vector) Get(idx int) (float64, bool) {
	val, ok := v.values[idx]
	return val, ok
}

// Contains reports whether idx is stored.
func (v *Vector) Contains(idx int) bool {
	_, ok := v.values[idx]
	return ok
}

// Set stores val at idx, overwriting any previous value. Zeros are stored.
// Set panics on a negative index.
func (v *Vector) Set(idx int, val float64) {
	if idx < 0 {
		panic("sparse: negative index " + strconv.Itoa(idx))
	}
	if v.values == nil {
		v.values = make(map[int]float64)
	}
	v.values[idx] = val
}

// Sum returns the sum of the stored values.
func (v *Vector) Sum() float64 {
	var sum float64
	for _, val := range v.values {
		sum += val
	}
	return sum
}

// Add adds other into v elementwise. Indices only in other are inserted.
func (v *Vector) Add(other *Vector) {
	for idx, val := range other.values {
		if cur, ok := v.values[idx]; ok {
			v.Set(idx, cur+val)
		} else {
			v.Set(idx, val)
		}
	}
}

// Divide divides every stored value by c. A zero c is a configuration error
// and leaves v unchanged.
func (v *Vector) Divide(c float64) error {
	if c == 0 {
		return errs.Configf("sparse: divide by zero")
	}
	for idx, val := range v.values {
		v.values[idx] = val / c
	}
	return nil
}

// Multiply multiplies every stored value by c.
func (v *Vector) Multiply(c float64) {
	for idx, val := range v.values {
		v.values[idx] = val * c
	}
}

// L2Norm returns the Euclidean norm of the stored values.
func (v *Vector) L2Norm() float64 {
	var sumSquare float64
	for _, val := range v.values {
		sumSquare += val * val
	}
	return math.Sqrt(sumSquare)
}

// Dot returns the dot product. Indices stored in only one vector contribute nothing.
func (v *Vector) Dot(other *Vector) float64 {
	small, large := v, other
	if large.Size() < small.Size() {
		small, large = large, small
	}
	var sum float64
	for idx, val := range small.values {
		if otherVal, ok := large.values[idx]; ok {
			sum += val * otherVal
		}
	}
	return sum
}

// Cosine returns the cosine similarity of v and other. It is exactly 0 when
// either vector has no stored entries or only explicit zeros.
func (v *Vector) Cosine(other *Vector) float64 {
	if v.Size() == 0 || other.Size() == 0 {
		return 0
	}
	norm := v.L2Norm() * other.L2Norm()
	if norm == 0 {
		return 0
	}
	return v.Dot(other) / norm
}

// SortedIndices returns the stored indices in ascending order.
func (v *Vector) SortedIndices() []int {
	indices := make([]int, 0, len(v.values))
	for idx := range v.values {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// SortedList returns the entries ranked by value, highest first. Equal values
// are ordered by ascending index.
func (v *Vector) SortedList() []Entry {
	entries := make([]Entry, 0, len(v.values))
	for _, idx := range v.SortedIndices() {
		entries = append(entries, Entry{Index: idx, Value: v.values[idx]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}

// Clone returns a deep copy of v.
func (v *Vector) Clone() *Vector {
	return FromMap(v.values)
}

// String encodes v as "<count> idx1:val1 idx2:val2 ..." with ascending indices.
func (v *Vector) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(v.values)))
	for _, idx := range v.SortedIndices() {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(idx))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(v.values[idx], 'g', -1, 64))
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (v *Vector) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Vector) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	v.values = parsed.values
	return nil
}

// Parse decodes the String encoding. Malformed input is an input error;
// a partially decoded vector is never returned.
func Parse(s string) (*Vector, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, errs.Inputf("sparse: empty vector encoding")
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil || count < 0 {
		return nil, errs.Inputf("sparse: invalid entry count %q", fields[0])
	}
	if count != len(fields)-1 {
		return nil, errs.Inputf("sparse: entry count %d does not match %d pairs", count, len(fields)-1)
	}

	v := &Vector{values: make(map[int]float64, count)}
	for _, pair := range fields[1:] {
		idxStr, valStr, ok := strings.Cut(pair, ":")
		if !ok || strings.Contains(valStr, ":") {
			return nil, errs.Inputf("sparse: malformed pair %q", pair)
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 {
			return nil, errs.Inputf("sparse: invalid index in pair %q", pair)
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return nil, errs.Inputf("sparse: invalid value in pair %q", pair)
		}
		if _, dup := v.values[idx]; dup {
			return nil, errs.Inputf("sparse: duplicate index %d", idx)
		}
		v.values[idx] = val
	}
	return v, nil
}
