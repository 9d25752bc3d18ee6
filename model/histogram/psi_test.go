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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComparePSIIdenticalBuilds(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	values := make([]float64, 1000)
	for i := range values {
		values[i] = r.Float64()*65535 - 32767
	}
	training, err := NewFromValues(values, 10)
	require.NoError(t, err)
	inference, err := NewFromValues(values, 10)
	require.NoError(t, err)

	psi, err := training.ComparePSI(inference)
	require.NoError(t, err)
	require.Equal(t, 0.0, psi)
}

func TestComparePSIEmptyOperand(t *testing.T) {
	full, err := NewFromValues([]float64{1, 2, 3}, 5)
	require.NoError(t, err)
	empty, err := New(5)
	require.NoError(t, err)

	_, err = full.ComparePSI(empty)
	require.ErrorIs(t, err, ErrNoObservations)
	_, err = empty.ComparePSI(full)
	require.ErrorIs(t, err, ErrNoObservations)
}

func TestComparePSIAlignedKnownValue(t *testing.T) {
	ref, err := New(2)
	require.NoError(t, err)
	ref.PushBucket(Bucket{Centroid: 1, Count: 50})
	ref.PushBucket(Bucket{Centroid: 2, Count: 50})

	cmp, err := New(2)
	require.NoError(t, err)
	cmp.PushBucket(Bucket{Centroid: 1, Count: 30})
	cmp.PushBucket(Bucket{Centroid: 2, Count: 70})

	psi, err := ref.ComparePSI(cmp)
	require.NoError(t, err)

	expected := (0.3-0.5)*math.Log(0.3/0.5) + (0.7-0.5)*math.Log(0.7/0.5)
	require.InDelta(t, expected, psi, 1e-12)
}

func TestComparePSISkipsEmptyBins(t *testing.T) {
	ref, err := New(2)
	require.NoError(t, err)
	ref.PushBucket(Bucket{Centroid: 1, Count: 1})
	ref.PushBucket(Bucket{Centroid: 2, Count: 1})

	// All of the candidate's mass lands in the first reference bin after the
	// reshape, leaving the second bin empty on the candidate side.
	cand, err := New(1)
	require.NoError(t, err)
	cand.PushBucket(Bucket{Centroid: 1, Count: 5})

	psi, err := ref.ComparePSI(cand)
	require.NoError(t, err)

	expected := (1.0 - 0.5) * math.Log(1.0/0.5)
	require.InDelta(t, expected, psi, 1e-12)
	require.False(t, math.IsNaN(psi))
	require.False(t, math.IsInf(psi, 0))
}

func TestComparePSIReshapesArgumentCopy(t *testing.T) {
	r := rand.New(rand.NewSource(29))
	ref, err := New(10)
	require.NoError(t, err)
	cand, err := New(6)
	require.NoError(t, err)
	for i := 0; i < 2000; i++ {
		ref.PushValue(r.NormFloat64())
		cand.PushValue(r.NormFloat64() + 1)
	}
	candBefore := cand.Copy()

	psi, err := ref.ComparePSI(cand)
	require.NoError(t, err)
	require.Greater(t, psi, 0.0)

	// The argument is rebinned on a copy, never in place.
	require.True(t, cand.Equal(candBefore))

	// With different layouts the receiver's binning decides, so swapping the
	// operands is valid but not guaranteed to give the same number.
	swapped, err := cand.ComparePSI(ref)
	require.NoError(t, err)
	require.GreaterOrEqual(t, swapped, 0.0)
}
