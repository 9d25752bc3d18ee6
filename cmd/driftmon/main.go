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

// The main package for the driftmon command: tooling for detecting data
// drift between a reference and a candidate value distribution.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/common/promslog"
	promslogflag "github.com/prometheus/common/promslog/flag"

	"github.com/amar-mudrankit-v2/driftmon/model/histogram"
)

const (
	successExitCode = 0
	failureExitCode = 1
	// Exit code 3 means the comparison ran fine and found drift.
	driftExitCode = 3
)

func main() {
	app := kingpin.New(
		filepath.Base(os.Args[0]),
		"Tooling for drift detection over streaming value distributions.",
	).UsageWriter(os.Stdout)
	app.HelpFlag.Short('h')

	promslogConfig := &promslog.Config{}
	promslogflag.AddFlags(app, promslogConfig)

	dumpCmd := app.Command("dump", "Build a histogram from a values file and print its buckets.")
	dumpFile := dumpCmd.Arg("file", "File with one numeric value per line.").Required().ExistingFile()
	dumpMaxBuckets := dumpCmd.Flag("histogram.max-buckets", "Maximum number of histogram buckets.").
		Default("15").Int()

	compareCmd := app.Command("compare", "Compute the PSI of a candidate values file against a reference.")
	compareRef := compareCmd.Arg("reference", "Reference values file.").Required().ExistingFile()
	compareCand := compareCmd.Arg("candidate", "Candidate values file.").Required().ExistingFile()
	compareMaxBuckets := compareCmd.Flag("histogram.max-buckets", "Maximum number of histogram buckets.").
		Default("15").Int()
	compareThreshold := compareCmd.Flag("psi.threshold", "Exit with code 3 when the PSI exceeds this value. 0 disables the check.").
		Default("0").Float64()

	serveCmd := app.Command("serve", "Watch a candidate values file and export drift metrics.")
	configFile := serveCmd.Flag("config.file", "Driftmon configuration file path.").
		Default("driftmon.yml").String()
	listenAddress := serveCmd.Flag("web.listen-address", "Address to listen on for the metrics endpoint.").
		Default(":9789").String()

	parsed := kingpin.MustParse(app.Parse(os.Args[1:]))
	logger := promslog.New(promslogConfig)

	switch parsed {
	case dumpCmd.FullCommand():
		os.Exit(dumpHistogram(*dumpFile, *dumpMaxBuckets))
	case compareCmd.FullCommand():
		os.Exit(comparePSI(*compareRef, *compareCand, *compareMaxBuckets, *compareThreshold))
	case serveCmd.FullCommand():
		os.Exit(serve(logger, *configFile, *listenAddress))
	}
}

// buildFromFile reads a values file and folds it into a fresh histogram.
func buildFromFile(filename string, maxBuckets int) (*histogram.StreamingHistogram, error) {
	values, err := readValues(filename)
	if err != nil {
		return nil, err
	}
	return histogram.NewFromValues(values, maxBuckets)
}

// readValues parses a newline-separated list of numeric values. Blank lines
// and lines starting with '#' are skipped.
func readValues(filename string) ([]float64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var values []float64
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, line, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func dumpHistogram(filename string, maxBuckets int) int {
	h, err := buildFromFile(filename, maxBuckets)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return failureExitCode
	}
	fmt.Print(h.String())
	fmt.Printf("Observations: %d\n", h.Count())
	if mean, err := h.Mean(); err == nil {
		fmt.Printf("Mean: %g\n", mean)
	}
	return successExitCode
}

func comparePSI(refFile, candFile string, maxBuckets int, threshold float64) int {
	ref, err := buildFromFile(refFile, maxBuckets)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return failureExitCode
	}
	cand, err := buildFromFile(candFile, maxBuckets)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return failureExitCode
	}

	psi, err := ref.ComparePSI(cand)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return failureExitCode
	}
	fmt.Printf("PSI: %g\n", psi)
	if threshold > 0 && psi > threshold {
		fmt.Printf("drift detected: PSI %g exceeds threshold %g\n", psi, threshold)
		return driftExitCode
	}
	return successExitCode
}
