// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package provider maps spout types and component modules named in a
// topology definition to the Go implementations that run them.
package provider

//go:generate mockgen -source=interfaces.go -destination=../mock/spout_provider_mock.go -package=mock

import (
	"github.com/MKhiriev/go-pyleus/internal/stream"
	"github.com/MKhiriev/go-pyleus/internal/topology"
)

// SpoutProvider builds a spout from a spout definition whose type names the
// provider.
type SpoutProvider interface {
	Provide(spec topology.ComponentSpec) (stream.Spout, error)
}

// SpoutProviderFunc adapts a function to [SpoutProvider].
type SpoutProviderFunc func(spec topology.ComponentSpec) (stream.Spout, error)

func (f SpoutProviderFunc) Provide(spec topology.ComponentSpec) (stream.Spout, error) {
	return f(spec)
}

// ComponentFactory builds the in-process implementation of a module. The
// returned value must implement [stream.Bolt] or [stream.Spout].
type ComponentFactory func(spec topology.ComponentSpec) (any, error)
