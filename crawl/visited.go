package crawl

import "github.com/bits-and-blooms/bloom/v3"

// Visited-set sizing.
const (
	// visitedExpectedURLs is the expected number of URLs for Bloom filter sizing.
	visitedExpectedURLs = 10000
	// visitedFalsePositiveRate is the acceptable false positive rate of the filter.
	visitedFalsePositiveRate = 0.001
)

// VisitedSet records the URLs a crawl has fetched or attempted in a Bloom
// filter. Memory stays fixed however many URLs are added.
//
// A URL is never reported as new twice, so no URL is fetched more than
// once. A false positive makes an unseen URL look visited and the crawl
// skips it.
// VisitedSet is not safe for concurrent use.
type VisitedSet struct {
	filter *bloom.BloomFilter
	n      int
}

// NewVisitedSet creates a VisitedSet sized for n expected URLs with the
// given Bloom filter false positive rate.
func NewVisitedSet(n uint, fpRate float64) *VisitedSet {
	return &VisitedSet{
		filter: bloom.NewWithEstimates(n, fpRate),
	}
}

// Visit marks url as visited and reports whether it was new.
func (v *VisitedSet) Visit(url string) bool {
	if v.filter.TestAndAddString(url) {
		return false
	}
	v.n++
	return true
}

// Seen reports whether url may have been visited.
func (v *VisitedSet) Seen(url string) bool {
	return v.filter.TestString(url)
}

// Len returns the number of URLs accepted as new.
func (v *VisitedSet) Len() int {
	return v.n
}
