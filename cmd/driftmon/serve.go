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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amar-mudrankit-v2/driftmon/config"
	"github.com/amar-mudrankit-v2/driftmon/model/histogram"
)

// driftMonitor holds the fixed reference histogram and the metrics derived
// from the latest candidate build. It is only ever driven from the watcher
// goroutine, so no locking is needed around refresh.
type driftMonitor struct {
	logger *slog.Logger
	cfg    *config.Config
	ref    *histogram.StreamingHistogram

	psi             prometheus.Gauge
	observations    prometheus.Gauge
	lastRefresh     prometheus.Gauge
	refreshFailures prometheus.Counter
}

func newDriftMonitor(logger *slog.Logger, cfg *config.Config) (*driftMonitor, error) {
	ref, err := buildFromFile(cfg.ReferenceFile, cfg.MaxBuckets)
	if err != nil {
		return nil, fmt.Errorf("building reference histogram: %w", err)
	}
	return &driftMonitor{
		logger: logger,
		cfg:    cfg,
		ref:    ref,
		psi: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "driftmon",
			Name:      "psi",
			Help:      "Population Stability Index of the candidate distribution against the reference.",
		}),
		observations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "driftmon",
			Name:      "candidate_observations",
			Help:      "Number of observations in the candidate histogram.",
		}),
		lastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "driftmon",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Timestamp of the last successful candidate refresh.",
		}),
		refreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "driftmon",
			Name:      "refresh_failures_total",
			Help:      "Number of candidate refreshes that failed.",
		}),
	}, nil
}

func (m *driftMonitor) register(reg prometheus.Registerer) {
	reg.MustRegister(m.psi, m.observations, m.lastRefresh, m.refreshFailures)
}

// refresh rebuilds the candidate histogram and updates the exported metrics.
func (m *driftMonitor) refresh() {
	cand, err := buildFromFile(m.cfg.CandidateFile, m.cfg.MaxBuckets)
	if err != nil {
		m.refreshFailures.Inc()
		m.logger.Warn("Rebuilding candidate histogram failed", "err", err)
		return
	}
	psi, err := m.ref.ComparePSI(cand)
	if err != nil {
		m.refreshFailures.Inc()
		m.logger.Warn("PSI comparison failed", "err", err)
		return
	}
	m.psi.Set(psi)
	m.observations.Set(float64(cand.Count()))
	m.lastRefresh.SetToCurrentTime()
	if m.cfg.PSIThreshold > 0 && psi > m.cfg.PSIThreshold {
		m.logger.Warn("Drift detected", "psi", psi, "threshold", m.cfg.PSIThreshold)
		return
	}
	m.logger.Debug("Candidate refreshed", "psi", psi, "observations", cand.Count())
}

func serve(logger *slog.Logger, configFile, listenAddress string) int {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		logger.Error("Loading configuration failed", "file", configFile, "err", err)
		return failureExitCode
	}
	if cfg.CandidateFile == "" {
		logger.Error("candidate_file must be set in serve mode", "file", configFile)
		return failureExitCode
	}

	monitor, err := newDriftMonitor(logger, cfg)
	if err != nil {
		logger.Error("Starting drift monitor failed", "err", err)
		return failureExitCode
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	monitor.register(registry)
	monitor.refresh()

	candidate := filepath.Clean(cfg.CandidateFile)

	var g run.Group
	g.Add(run.SignalHandler(context.Background(), os.Interrupt, syscall.SIGTERM))
	{
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Error("Creating file watcher failed", "err", err)
			return failureExitCode
		}
		// Watch the directory: editors and atomic writers replace the file
		// instead of writing it in place.
		if err := watcher.Add(filepath.Dir(candidate)); err != nil {
			logger.Error("Watching candidate directory failed", "err", err)
			watcher.Close()
			return failureExitCode
		}
		stop := make(chan struct{})
		g.Add(func() error {
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != candidate {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
						continue
					}
					monitor.refresh()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Warn("Watching candidate file failed", "err", err)
				case <-stop:
					return nil
				}
			}
		}, func(error) {
			close(stop)
			watcher.Close()
		})
	}
	{
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		server := &http.Server{
			Addr:              listenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Add(func() error {
			logger.Info("Listening for metrics requests", "address", listenAddress)
			return server.ListenAndServe()
		}, func(error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		})
	}

	if err := g.Run(); err != nil {
		var se run.SignalError
		if errors.As(err, &se) {
			logger.Info("Received signal, exiting", "signal", se.Signal.String())
			return successExitCode
		}
		logger.Error("Serving failed", "err", err)
		return failureExitCode
	}
	return successExitCode
}
