// Package stratify turns continuous responses into class labels and builds
// class-balanced train/development/test partitions over them.
package stratify

import "sort"

// Discretize assigns each value one of numClasses ordinal labels by quantile
// binning: the value at sorted position p gets label p*numClasses/n. Ties in
// value keep their original order. Labels are returned in input order.
// With numClasses <= 1 every label is 0.
func Discretize(values []float64, numClasses int) []int {
	n := len(values)
	labels := make([]int, n)
	if numClasses <= 1 || n == 0 {
		return labels
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] < values[order[j]]
	})

	for pos, idx := range order {
		labels[idx] = pos * numClasses / n
	}
	return labels
}
