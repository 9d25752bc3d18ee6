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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeValuesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadValues(t *testing.T) {
	path := writeValuesFile(t, "1.5\n\n# a comment\n  2\n-3e2\n")

	values, err := readValues(path)
	require.NoError(t, err)
	require.Equal(t, []float64{1.5, 2, -300}, values)
}

func TestReadValuesBadLine(t *testing.T) {
	path := writeValuesFile(t, "1\ntwo\n3\n")

	_, err := readValues(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), ":2:")
}

func TestReadValuesMissingFile(t *testing.T) {
	_, err := readValues(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestBuildFromFile(t *testing.T) {
	path := writeValuesFile(t, "1\n2\n3\n4\n5\n")

	h, err := buildFromFile(path, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(5), h.Count())
	require.LessOrEqual(t, len(h.Buckets()), 3)
}

func TestComparePSIExitCodes(t *testing.T) {
	ref := writeValuesFile(t, "1\n2\n3\n4\n5\n")
	same := writeValuesFile(t, "1\n2\n3\n4\n5\n")
	shifted := writeValuesFile(t, "100\n200\n300\n400\n500\n")

	require.Equal(t, successExitCode, comparePSI(ref, same, 5, 0.1))
	require.Equal(t, driftExitCode, comparePSI(ref, shifted, 5, 0.1))
	require.Equal(t, failureExitCode, comparePSI(ref, filepath.Join(t.TempDir(), "missing.txt"), 5, 0.1))
}
