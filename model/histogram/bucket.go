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

import "fmt"

// Bucket is a single mass unit of a StreamingHistogram: a centroid
// approximating the location of the observations folded into it, and the
// number of those observations.
type Bucket struct {
	Centroid float64
	Count    uint64
}

// Area returns the first moment of the bucket, i.e. its centroid weighted by
// its count. It is the intermediate used when averaging two buckets into one.
func (b Bucket) Area() float64 {
	return b.Centroid * float64(b.Count)
}

// Combine folds other into b, summing the counts and moving the centroid to
// the counts-weighted average of the two. Every live bucket holds at least
// one observation, so combining two zero-count buckets is a programming
// error and panics.
func (b *Bucket) Combine(other Bucket) {
	newCount := b.Count + other.Count
	if newCount == 0 {
		panic("histogram: combining two zero-count buckets")
	}
	b.Centroid = (b.Area() + other.Area()) / float64(newCount)
	b.Count = newCount
}

// Equal reports whether centroid and count both match exactly.
func (b Bucket) Equal(other Bucket) bool {
	return b.Centroid == other.Centroid && b.Count == other.Count
}

// String returns a one-line representation of the bucket, aligned for the
// bucket-per-line dump of StreamingHistogram.String.
func (b Bucket) String() string {
	return fmt.Sprintf("Centroid: %10.4f Count: %5d", b.Centroid, b.Count)
}
