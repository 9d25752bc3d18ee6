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

package histogram

import (
	"math"
	"sort"
)

// Reshape remaps the histogram's mass onto the bucket layout of ref: the
// resulting buckets carry ref's centroids, with h's counts redistributed
// among them, making the two histograms directly comparable bin for bin.
//
// Each source bucket lands wholly on one reference centroid: mass below the
// first reference centroid collects in the first bucket, mass at or above the
// last collects in the last, and mass in between goes to the strictly closer
// of its two neighbouring centroids, with exact midpoints going to the
// right-hand one. Total mass is conserved, so Count stays consistent;
// ObservedMin and ObservedMax keep describing the raw values pushed so far
// and are unaffected. ref is read-only and may not be h itself mid-mutation.
//
// Reshaping onto a reference with no buckets fails with ErrEmptyReference.
func (h *StreamingHistogram) Reshape(ref *StreamingHistogram) error {
	k := len(ref.buckets)
	if k == 0 {
		return ErrEmptyReference
	}

	// Interval boundaries are the reference centroids fenced by ±Inf, so
	// that every finite centroid falls into exactly one interval.
	boundaries := make([]float64, 0, k+2)
	boundaries = append(boundaries, math.Inf(-1))
	for _, b := range ref.buckets {
		boundaries = append(boundaries, b.Centroid)
	}
	boundaries = append(boundaries, math.Inf(1))

	target := make([]Bucket, k)
	for i, b := range ref.buckets {
		target[i] = Bucket{Centroid: b.Centroid}
	}

	for _, b := range h.buckets {
		// j is the interval with boundaries[j] <= centroid < boundaries[j+1]:
		// the first boundary strictly greater than the centroid, minus one.
		j := sort.Search(len(boundaries), func(i int) bool {
			return boundaries[i] > b.Centroid
		}) - 1
		switch {
		case j <= 0:
			target[0].Count += b.Count
		case j >= k:
			target[k-1].Count += b.Count
		default:
			left := b.Centroid - target[j-1].Centroid
			right := target[j].Centroid - b.Centroid
			if left < right {
				target[j-1].Count += b.Count
			} else {
				target[j].Count += b.Count
			}
		}
	}

	h.buckets = target
	return nil
}
