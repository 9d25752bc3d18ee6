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

import "math"

// ComparePSI computes the Population Stability Index between h and other.
// Zero means the binned distributions are identical; larger positive values
// mean greater divergence.
//
// When the two bucket layouts differ, a copy of other is reshaped onto h's
// layout first; the receiver's own binning is always authoritative and the
// receiver is never reshaped. Consequently swapping the operands is not
// guaranteed to give the exact same value whenever a reshape was needed.
// Bins where either side holds no mass are skipped, since their logarithm is
// undefined. Per-bin percentages use each operand's own total mass.
//
// Comparing histograms where either total count is zero fails with
// ErrNoObservations.
func (h *StreamingHistogram) ComparePSI(other *StreamingHistogram) (float64, error) {
	if h.total == 0 || other.total == 0 {
		return 0, ErrNoObservations
	}

	cmp := other
	if !h.alignedWith(other) {
		cmp = other.Copy()
		if err := cmp.Reshape(h); err != nil {
			return 0, err
		}
	}

	var psi float64
	for i, rb := range h.buckets {
		refPct := float64(rb.Count) / float64(h.total)
		cmpPct := float64(cmp.buckets[i].Count) / float64(cmp.total)
		if refPct == 0 || cmpPct == 0 {
			continue
		}
		psi += (cmpPct - refPct) * math.Log(cmpPct/refPct)
	}
	return psi, nil
}

// alignedWith reports whether both histograms already share the same bucket
// layout: equal length with identical centroids in the same order.
func (h *StreamingHistogram) alignedWith(other *StreamingHistogram) bool {
	if len(h.buckets) != len(other.buckets) {
		return false
	}
	for i := range h.buckets {
		if h.buckets[i].Centroid != other.buckets[i].Centroid {
			return false
		}
	}
	return true
}
