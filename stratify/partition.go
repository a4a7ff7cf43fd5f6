package stratify

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/happyhackingspace/corpusfold/errs"
)

// Split holds the disjoint index sets of one fold, each sorted ascending.
type Split struct {
	Train []int
	Dev   []int
	Test  []int
}

// Validate checks the fold count and training-to-development ratio.
func Validate(numFolds int, trToDevRatio float64) error {
	if numFolds <= 1 {
		return errs.Configf("number of folds must be greater than 1, got %d", numFolds)
	}
	if math.IsNaN(trToDevRatio) || trToDevRatio <= 0 || trToDevRatio > 1 {
		return errs.Configf("training-to-development ratio must be in (0, 1], got %v", trToDevRatio)
	}
	return nil
}

// Partition builds numFolds stratified splits over the indices of labels.
//
// Each class is shuffled with rng and cut into numFolds contiguous chunks
// whose sizes differ by at most one (the first n%numFolds chunks are larger).
// Chunk k of every class forms the test set of fold k. The remaining indices
// are split into training and development sets: the training size is
// round(trToDevRatio*M) for a pool of M indices, allocated to classes by the
// largest-remainder method.
func Partition(labels []int, numFolds int, trToDevRatio float64, rng *rand.Rand) ([]Split, error) {
	if err := Validate(numFolds, trToDevRatio); err != nil {
		return nil, err
	}

	classes, groups := groupByLabel(labels)

	// chunks[c][k] is the test chunk of class c in fold k.
	chunks := make([][][]int, len(classes))
	for c, group := range groups {
		rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })
		chunks[c] = chunk(group, numFolds)
	}

	splits := make([]Split, numFolds)
	for k := range splits {
		var test []int
		pools := make([][]int, len(classes))
		for c := range classes {
			for j, ch := range chunks[c] {
				if j == k {
					test = append(test, ch...)
				} else {
					pools[c] = append(pools[c], ch...)
				}
			}
		}

		train, dev := splitPool(pools, trToDevRatio, rng)
		sort.Ints(train)
		sort.Ints(dev)
		sort.Ints(test)
		splits[k] = Split{
			Train: nonNil(train),
			Dev:   nonNil(dev),
			Test:  nonNil(test),
		}
	}
	return splits, nil
}

// groupByLabel returns the distinct labels in ascending order and, for each,
// the indices carrying it in ascending order.
func groupByLabel(labels []int) ([]int, [][]int) {
	byLabel := make(map[int][]int)
	for i, l := range labels {
		byLabel[l] = append(byLabel[l], i)
	}
	classes := make([]int, 0, len(byLabel))
	for l := range byLabel {
		classes = append(classes, l)
	}
	sort.Ints(classes)

	groups := make([][]int, len(classes))
	for c, l := range classes {
		groups[c] = byLabel[l]
	}
	return classes, groups
}

// chunk cuts data into n contiguous parts; the first len(data)%n parts get
// one extra element.
func chunk(data []int, n int) [][]int {
	size := len(data) / n
	remainder := len(data) % n

	parts := make([][]int, n)
	idx := 0
	for i := range parts {
		l := size
		if i < remainder {
			l++
		}
		parts[i] = data[idx : idx+l]
		idx += l
	}
	return parts
}

// splitPool divides per-class pools into training and development indices.
func splitPool(pools [][]int, ratio float64, rng *rand.Rand) (train, dev []int) {
	quotas := trainQuotas(pools, ratio)
	for c, pool := range pools {
		pool = append([]int(nil), pool...)
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		train = append(train, pool[:quotas[c]]...)
		dev = append(dev, pool[quotas[c]:]...)
	}
	return train, dev
}

// trainQuotas returns per-class training sizes summing to round(ratio*M).
func trainQuotas(pools [][]int, ratio float64) []int {
	total := 0
	for _, p := range pools {
		total += len(p)
	}
	target := int(math.Round(ratio * float64(total)))

	quotas := make([]int, len(pools))
	fracs := make([]float64, len(pools))
	assigned := 0
	for c, p := range pools {
		exact := ratio * float64(len(p))
		quotas[c] = int(math.Floor(exact))
		fracs[c] = exact - float64(quotas[c])
		assigned += quotas[c]
	}

	order := make([]int, len(pools))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return fracs[order[i]] > fracs[order[j]]
	})
	for _, c := range order {
		if assigned >= target {
			break
		}
		if quotas[c] < len(pools[c]) {
			quotas[c]++
			assigned++
		}
	}
	return quotas
}

func nonNil(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
