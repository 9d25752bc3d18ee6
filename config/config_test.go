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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load("reference_file: training.txt\ncandidate_file: live.txt\n")
	require.NoError(t, err)
	require.Equal(t, &Config{
		ReferenceFile: "training.txt",
		CandidateFile: "live.txt",
		MaxBuckets:    15,
		PSIThreshold:  0.2,
	}, cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(`
reference_file: training.txt
max_buckets: 30
psi_threshold: 0.05
`)
	require.NoError(t, err)
	require.Equal(t, 30, cfg.MaxBuckets)
	require.Equal(t, 0.05, cfg.PSIThreshold)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{
			name: "missing reference file",
			in:   "candidate_file: live.txt\n",
		},
		{
			name: "unknown field",
			in:   "reference_file: training.txt\nbuckets: 10\n",
		},
		{
			name: "non-positive max_buckets",
			in:   "reference_file: training.txt\nmax_buckets: 0\n",
		},
		{
			name: "negative psi_threshold",
			in:   "reference_file: training.txt\npsi_threshold: -1\n",
		},
		{
			name: "not yaml",
			in:   "{{",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.in)
			require.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driftmon.yml")
	require.NoError(t, os.WriteFile(path, []byte("reference_file: training.txt\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "training.txt", cfg.ReferenceFile)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
