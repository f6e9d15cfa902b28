// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app wires the resolved configuration, the provider registry and
// the local cluster together.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/go-pyleus/internal/bolts"
	"github.com/MKhiriev/go-pyleus/internal/cluster"
	"github.com/MKhiriev/go-pyleus/internal/config"
	"github.com/MKhiriev/go-pyleus/internal/logger"
	"github.com/MKhiriev/go-pyleus/internal/provider"
	"github.com/MKhiriev/go-pyleus/internal/server"
	"github.com/MKhiriev/go-pyleus/internal/spouts"
	"github.com/MKhiriev/go-pyleus/internal/topology"
	"github.com/MKhiriev/go-pyleus/internal/workers"
)

// NewRegistry returns a registry holding the built-in providers and
// modules. The plugins of cfg are declared first and providerArgs after
// them, so a command-line declaration wins over the configuration.
func NewRegistry(cfg config.Configuration, providerArgs []string, log *logger.Logger) (*provider.Registry, error) {
	if log == nil {
		log = logger.Nop()
	}

	r := provider.NewDefaultRegistry()
	if err := errors.Join(spouts.Register(r, log), bolts.Register(r)); err != nil {
		return nil, fmt.Errorf("error registering built-in components: %w", err)
	}

	r.RegisterPlugins(cfg.Plugins)
	if err := r.ApplyProviderArgs(providerArgs); err != nil {
		return nil, err
	}

	log.Debug().
		Strs("plugins", cfg.PluginAliases()).
		Strs("aliases", r.Aliases()).
		Strs("modules", r.Modules()).
		Msg("components registered")

	return r, nil
}

// LocalOptions select what RunLocal runs.
type LocalOptions struct {
	// TopologyPath overrides the topology path of the configuration.
	TopologyPath string
	ProviderArgs []string
	QueueSize    int
	// MetricsAddr serves the topology metrics over HTTP when set.
	MetricsAddr string
	// Registry receives the topology metrics. One is created when
	// MetricsAddr is set and Registry is nil.
	Registry *prometheus.Registry
}

// LoadTopology loads the topology definition at path, or at the topology
// path of cfg when path is empty, and applies the topology name of cfg.
func LoadTopology(cfg config.Configuration, path string) (*topology.Spec, error) {
	if path == "" {
		path = cfg.TopologyPath
	}

	spec, err := topology.Load(path)
	if err != nil {
		return nil, err
	}

	if cfg.TopologyName != "" {
		spec.Name = cfg.TopologyName
	}
	return spec, nil
}

// RunLocal builds the topology in process and runs it, along with the
// metrics server when one is configured, until ctx is done.
func RunLocal(ctx context.Context, cfg config.Configuration, opts LocalOptions, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}

	spec, err := LoadTopology(cfg, opts.TopologyPath)
	if err != nil {
		return err
	}

	components, err := NewRegistry(cfg, opts.ProviderArgs, log)
	if err != nil {
		return err
	}

	registry := opts.Registry
	if registry == nil && opts.MetricsAddr != "" {
		registry = prometheus.NewRegistry()
	}

	var registerer prometheus.Registerer
	if registry != nil {
		registerer = registry
	}
	metrics, err := cluster.NewMetrics(registerer)
	if err != nil {
		return fmt.Errorf("error registering metrics: %w", err)
	}

	topo, err := cluster.Build(spec, components, log, cluster.Options{
		Conf:      spec.LocalOptions(cfg.Debug),
		QueueSize: opts.QueueSize,
		Metrics:   metrics,
	})
	if err != nil {
		return err
	}

	ws := workers.New(topo)
	if opts.MetricsAddr != "" {
		ws.Add(server.NewMetricsServer(opts.MetricsAddr, registry, log))
	}
	return ws.Run(ctx)
}
