package geom

import "sort"

// DiscretePDF builds a cumulative distribution over a set of
// nonnegative weights (e.g. per-triangle area) so a single uniform
// sample can pick an item with probability proportional to its
// weight. Grounded on original_source's DiscretePDF: append weights,
// normalize once, then sample via binary search over the CDF.
type DiscretePDF struct {
	cdf        []float64
	sum        float64
	normalized bool
}

// NewDiscretePDF returns an empty DiscretePDF ready to accept weights
// via Append.
func NewDiscretePDF(sizeHint int) *DiscretePDF {
	d := &DiscretePDF{cdf: make([]float64, 1, sizeHint+1)}
	d.cdf[0] = 0
	return d
}

// Append adds one more weighted item and returns its index.
func (d *DiscretePDF) Append(weight float64) int {
	d.sum += weight
	d.cdf = append(d.cdf, d.sum)
	d.normalized = false
	return len(d.cdf) - 2
}

// Count returns the number of items appended so far.
func (d *DiscretePDF) Count() int {
	return len(d.cdf) - 1
}

// Normalize finalizes the distribution, dividing through by the total
// weight so Sample's returned pdf integrates to one. Returns the
// pre-normalization sum (e.g. the mesh's total surface area). Safe to
// call with zero items or zero total weight; in that case the PDF
// degenerates to uniform-by-count.
func (d *DiscretePDF) Normalize() float64 {
	total := d.sum
	n := d.Count()
	if n == 0 {
		d.normalized = true
		return 0
	}
	if total <= 0 {
		for i := 1; i < len(d.cdf); i++ {
			d.cdf[i] = float64(i) / float64(n)
		}
		d.normalized = true
		return total
	}
	for i := 1; i < len(d.cdf); i++ {
		d.cdf[i] /= total
	}
	d.cdf[len(d.cdf)-1] = 1
	d.normalized = true
	return total
}

// Sample picks an index with probability proportional to its weight
// given a uniform sample u in [0,1), returning the index and the
// conditional PDF of that index (normalized weight). SampleReuse also
// returns the remainder of u for a second dimension of sampling.
func (d *DiscretePDF) Sample(u float64) (index int, pdf float64) {
	index = d.searchIndex(u)
	pdf = d.itemPDF(index)
	return index, pdf
}

// SampleReuse behaves like Sample but also returns a remapped uniform
// sample in [0,1) suitable for driving a second, independent sampling
// decision (e.g. barycentric coordinates within the chosen triangle).
func (d *DiscretePDF) SampleReuse(u float64) (index int, pdf float64, reused float64) {
	index = d.searchIndex(u)
	lo, hi := d.cdf[index], d.cdf[index+1]
	pdf = d.itemPDF(index)
	if hi > lo {
		reused = (u - lo) / (hi - lo)
	}
	return index, pdf, reused
}

func (d *DiscretePDF) searchIndex(u float64) int {
	n := d.Count()
	if n == 0 {
		return -1
	}
	i := sort.Search(n, func(i int) bool { return d.cdf[i+1] > u })
	if i >= n {
		i = n - 1
	}
	return i
}

func (d *DiscretePDF) itemPDF(index int) float64 {
	if index < 0 || index >= d.Count() {
		return 0
	}
	return d.cdf[index+1] - d.cdf[index]
}
