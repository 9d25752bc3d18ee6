// Copyright 2025 The Driftmon Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package histogram provides a bounded-memory streaming histogram after
// Ben-Haim and Tom-Tov, "A Streaming Parallel Decision Tree Algorithm"
// (JMLR 11, 2010), together with rebinning and Population Stability Index
// comparison between two histograms.
package histogram

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	// ErrNoObservations is returned by operations that divide by the total
	// observation count when a histogram holds no observations.
	ErrNoObservations = errors.New("histogram: no observations")
	// ErrEmptyReference is returned by Reshape when the reference histogram
	// has no buckets to project onto.
	ErrEmptyReference = errors.New("histogram: reference histogram has no buckets")
)

// StreamingHistogram maintains a fixed-capacity approximation of the
// distribution of a stream of values. Buckets are kept sorted by centroid;
// whenever an insertion pushes their number past the configured maximum, the
// two adjacent buckets with the closest centroids are averaged into one.
//
// A StreamingHistogram is not safe for concurrent use.
type StreamingHistogram struct {
	maxBuckets int
	buckets    []Bucket

	// total caches the sum of all bucket counts.
	total uint64

	// Smallest and largest raw value ever passed to PushValue. Bucket
	// transfer through PushBucket or Merge does not move them.
	observedMin float64
	observedMax float64
}

// New returns an empty histogram holding at most maxBuckets buckets.
func New(maxBuckets int) (*StreamingHistogram, error) {
	if maxBuckets <= 0 {
		return nil, fmt.Errorf("histogram: invalid number of buckets: %d", maxBuckets)
	}
	return &StreamingHistogram{
		maxBuckets:  maxBuckets,
		observedMin: math.Inf(1),
		observedMax: math.Inf(-1),
	}, nil
}

// NewFromValues returns a histogram with at most maxBuckets buckets, built by
// pushing values one at a time in the given order.
func NewFromValues(values []float64, maxBuckets int) (*StreamingHistogram, error) {
	h, err := New(maxBuckets)
	if err != nil {
		return nil, err
	}
	h.PushList(values)
	return h, nil
}

// PushValue folds a single observation into the histogram. A value equal to
// an existing centroid grows that bucket in place; any other value becomes a
// new bucket, which may trigger one reduction.
func (h *StreamingHistogram) PushValue(v float64) {
	h.total++
	if v < h.observedMin {
		h.observedMin = v
	}
	if v > h.observedMax {
		h.observedMax = v
	}
	pos := h.searchCentroid(v)
	if pos < len(h.buckets) && h.buckets[pos].Centroid == v {
		h.buckets[pos].Count++
		return
	}
	h.insert(pos, Bucket{Centroid: v, Count: 1})
}

// PushList folds values into the histogram one at a time, in order. The order
// only matters when a reduction hits two pairs with numerically identical
// gaps; the leftmost pair wins and different input orders may then diverge.
func (h *StreamingHistogram) PushList(values []float64) {
	for _, v := range values {
		h.PushValue(v)
	}
}

// PushBucket inserts a pre-built bucket at its sorted position, as during a
// merge. A bucket whose centroid equals an existing one is inserted before it
// rather than folded into it; the duplicate survives until a reduction pairs
// the two (their gap is zero). Observed min/max are not updated.
func (h *StreamingHistogram) PushBucket(b Bucket) {
	h.total += b.Count
	h.insert(h.searchCentroid(b.Centroid), b)
}

// searchCentroid returns the leftmost position at which a bucket with
// centroid v belongs.
func (h *StreamingHistogram) searchCentroid(v float64) int {
	return sort.Search(len(h.buckets), func(i int) bool {
		return h.buckets[i].Centroid >= v
	})
}

func (h *StreamingHistogram) insert(pos int, b Bucket) {
	h.buckets = append(h.buckets, Bucket{})
	copy(h.buckets[pos+1:], h.buckets[pos:])
	h.buckets[pos] = b
	if len(h.buckets) > h.maxBuckets {
		h.reduce()
	}
}

// reduce merges the two adjacent buckets with the smallest centroid gap,
// shrinking the histogram by exactly one bucket. On equal minimal gaps the
// leftmost pair wins: the running minimum is only replaced on a strict "<".
// No-op when fewer than two buckets exist.
func (h *StreamingHistogram) reduce() {
	if len(h.buckets) < 2 {
		return
	}
	minGap := h.buckets[1].Centroid - h.buckets[0].Centroid
	remove := 1
	for i := 2; i < len(h.buckets); i++ {
		if gap := h.buckets[i].Centroid - h.buckets[i-1].Centroid; gap < minGap {
			minGap = gap
			remove = i
		}
	}
	h.buckets[remove-1].Combine(h.buckets[remove])
	h.buckets = append(h.buckets[:remove], h.buckets[remove+1:]...)
}

// Merge folds every bucket of other into h, in ascending order, leaving other
// untouched. Each transferred bucket is followed by a reduction pass even
// when capacity was not exceeded. That is more aggressive than plain
// insertion and merges some close pairs earlier than capacity alone would
// require, but keeps a large merge tightly bounded throughout.
func (h *StreamingHistogram) Merge(other *StreamingHistogram) {
	for _, b := range other.buckets {
		h.PushBucket(b)
		h.reduce()
	}
}

// Count returns the total number of observations across all buckets.
func (h *StreamingHistogram) Count() uint64 {
	return h.total
}

// MaxBuckets returns the capacity the histogram was constructed with.
func (h *StreamingHistogram) MaxBuckets() int {
	return h.maxBuckets
}

// Mean returns the counts-weighted average of the bucket centroids. It fails
// with ErrNoObservations on a histogram holding no observations.
func (h *StreamingHistogram) Mean() (float64, error) {
	if h.total == 0 {
		return 0, ErrNoObservations
	}
	var sum float64
	for _, b := range h.buckets {
		sum += b.Area()
	}
	return sum / float64(h.total), nil
}

// ObservedMin returns the smallest raw value ever pushed through PushValue or
// PushList, and false if no value was pushed that way.
func (h *StreamingHistogram) ObservedMin() (float64, bool) {
	if math.IsInf(h.observedMin, 1) {
		return 0, false
	}
	return h.observedMin, true
}

// ObservedMax returns the largest raw value ever pushed through PushValue or
// PushList, and false if no value was pushed that way.
func (h *StreamingHistogram) ObservedMax() (float64, bool) {
	if math.IsInf(h.observedMax, -1) {
		return 0, false
	}
	return h.observedMax, true
}

// Buckets returns a copy of the bucket sequence in ascending centroid order.
func (h *StreamingHistogram) Buckets() []Bucket {
	out := make([]Bucket, len(h.buckets))
	copy(out, h.buckets)
	return out
}

// Centroids returns the per-bucket centroid sequence. Together with Weights
// it forms the two axes a plotting consumer needs.
func (h *StreamingHistogram) Centroids() []float64 {
	out := make([]float64, len(h.buckets))
	for i, b := range h.buckets {
		out[i] = b.Centroid
	}
	return out
}

// Weights returns the per-bucket observation counts as floats, index-aligned
// with Centroids.
func (h *StreamingHistogram) Weights() []float64 {
	out := make([]float64, len(h.buckets))
	for i, b := range h.buckets {
		out[i] = float64(b.Count)
	}
	return out
}

// IsSorted reports whether the bucket sequence is in non-decreasing centroid
// order. Equal neighbouring centroids can only occur transiently after
// PushBucket; the single-value push path keeps the order strict.
func (h *StreamingHistogram) IsSorted() bool {
	for i := 1; i < len(h.buckets); i++ {
		if h.buckets[i-1].Centroid > h.buckets[i].Centroid {
			return false
		}
	}
	return true
}

// Copy returns a deep, independent copy of the histogram.
func (h *StreamingHistogram) Copy() *StreamingHistogram {
	c := *h
	c.buckets = make([]Bucket, len(h.buckets))
	copy(c.buckets, h.buckets)
	return &c
}

// Equal reports whether both histograms hold element-wise equal bucket
// sequences. The capacity and observed extremes are not part of equality.
func (h *StreamingHistogram) Equal(other *StreamingHistogram) bool {
	if len(h.buckets) != len(other.buckets) {
		return false
	}
	for i := range h.buckets {
		if !h.buckets[i].Equal(other.buckets[i]) {
			return false
		}
	}
	return true
}

// String returns a bucket-per-line dump of the histogram for debugging and
// inspection.
func (h *StreamingHistogram) String() string {
	var sb strings.Builder
	for _, b := range h.buckets {
		sb.WriteString(b.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
