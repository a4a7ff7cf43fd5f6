package corpusfold

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SummaryBins is the number of histogram bins in a Summary.
const SummaryBins = 5

// Summary describes the response distribution of a dataset.
type Summary struct {
	NumDocs   int
	Min       float64
	Max       float64
	Mean      float64
	StdDev    float64   // sample standard deviation; 0 for fewer than two documents
	Dividers  []float64 // SummaryBins+1 bin edges
	Histogram []int
}

// Summary computes response statistics. An empty dataset yields a zero
// Summary.
func (d *ResponseDataset) Summary() Summary {
	s := Summary{NumDocs: len(d.Responses)}
	if s.NumDocs == 0 {
		return s
	}
	sorted := slices.Clone(d.Responses)
	slices.Sort(sorted)

	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Mean = stat.Mean(sorted, nil)
	if s.NumDocs > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}

	s.Dividers = make([]float64, SummaryBins+1)
	floats.Span(s.Dividers, s.Min, s.Max)
	// the top divider is exclusive
	s.Dividers[SummaryBins] = math.Nextafter(s.Max, math.Inf(1))
	counts := stat.Histogram(nil, s.Dividers, sorted, nil)
	s.Histogram = make([]int, len(counts))
	for i, c := range counts {
		s.Histogram[i] = int(c)
	}
	return s
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "documents: %d\n", s.NumDocs)
	if s.NumDocs == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, "range: [%g, %g]\n", s.Min, s.Max)
	fmt.Fprintf(&b, "mean: %.4f  std: %.4f\n", s.Mean, s.StdDev)
	for i, c := range s.Histogram {
		fmt.Fprintf(&b, "  [%8.3f, %8.3f)  %d\n", s.Dividers[i], s.Dividers[i+1], c)
	}
	return b.String()
}
