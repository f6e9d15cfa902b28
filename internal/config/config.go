// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "slices"

// BaseJarPath is the default location of the topology base jar that
// topology jars are built on top of.
const BaseJarPath = "/usr/share/pyleus/pyleus-base.jar"

// Serializers understood by the multi-lang runtime.
const (
	SerializerMsgpack = "msgpack"
	SerializerJSON    = "json"
)

// PluginDeclaration registers an extension implementation under a short
// alias. Name is the fully-qualified identifier of the implementation.
type PluginDeclaration struct {
	Alias string `json:"alias"`
	Name  string `json:"name"`
}

// Configuration is the resolved configuration of the toolkit. It holds one
// field per recognized option.
//
// A Configuration is a value: every resolution produces a fresh one and
// callers must never mutate a shared value in place. Use
// [UpdateConfiguration] to derive a new value.
//
// Struct tags:
//   - ini  - option name inside the [storm] and [build] sections and the
//     key used in [Overrides].
//   - env  - environment variable name (prefixed with PYLEUS_).
type Configuration struct {
	// BaseJar is the jar the topology jar is built from.
	// Env: PYLEUS_BASE_JAR
	BaseJar string `ini:"base_jar" env:"BASE_JAR" json:"base_jar"`

	// ConfigFile is the command-line configuration file the value was
	// resolved from. Empty when only defaults and the user file were used.
	ConfigFile string `ini:"config_file" env:"CONFIG" json:"config_file"`

	// Debug enables debug output of the local runner.
	Debug bool `ini:"debug" env:"DEBUG" json:"debug"`

	// Func is the name of the CLI command the configuration was resolved for.
	Func string `ini:"func" env:"-" json:"func"`

	// IncludePackages lists extra packages bundled into the topology.
	// Comma separated in files and environment.
	IncludePackages []string `ini:"include_packages" env:"INCLUDE_PACKAGES" json:"include_packages"`

	// OutputJar is where the built topology jar is written.
	OutputJar string `ini:"output_jar" env:"OUTPUT_JAR" json:"output_jar"`

	// PypiIndexURL is the package index used when building the topology
	// virtualenv. Empty means absent: the default index is used.
	// Env: PYLEUS_PYPI_INDEX_URL
	PypiIndexURL string `ini:"pypi_index_url" env:"PYPI_INDEX_URL" json:"pypi_index_url"`

	// VirtualenvPath is the virtualenv binary used for the build.
	VirtualenvPath string `ini:"virtualenv_path" env:"VIRTUALENV_PATH" json:"virtualenv_path"`

	// NimbusHost and NimbusPort locate the cluster master.
	NimbusHost string `ini:"nimbus_host" env:"NIMBUS_HOST" json:"nimbus_host"`
	NimbusPort int    `ini:"nimbus_port" env:"NIMBUS_PORT" json:"nimbus_port"`

	// StormCmdPath is the path of the storm command line tool.
	StormCmdPath string `ini:"storm_cmd_path" env:"STORM_CMD_PATH" json:"storm_cmd_path"`

	// SystemSitePackages gives the topology virtualenv access to the
	// system site packages.
	SystemSitePackages bool `ini:"system_site_packages" env:"SYSTEM_SITE_PACKAGES" json:"system_site_packages"`

	// TopologyPath is the topology definition file.
	TopologyPath string `ini:"topology_path" env:"TOPOLOGY_PATH" json:"topology_path"`

	// TopologyJar is a prebuilt topology jar.
	TopologyJar string `ini:"topology_jar" env:"TOPOLOGY_JAR" json:"topology_jar"`

	// TopologyName overrides the name declared by the topology definition.
	TopologyName string `ini:"topology_name" env:"TOPOLOGY_NAME" json:"topology_name"`

	// Verbose enables verbose logging.
	Verbose bool `ini:"verbose" env:"VERBOSE" json:"verbose"`

	// WaitTime is how long, in seconds, to wait for a topology to drain
	// before it is killed. Zero means the cluster default.
	WaitTime int `ini:"wait_time" env:"WAIT_TIME" json:"wait_time"`

	// JVMOpts are extra options passed to the JVM of the storm tool.
	JVMOpts string `ini:"jvm_opts" env:"JVM_OPTS" json:"jvm_opts"`

	// ZookeeperConnect is the zookeeper connection string used by
	// provided spouts that keep offsets there.
	ZookeeperConnect string `ini:"zookeeper_connect" env:"ZOOKEEPER_CONNECT" json:"zookeeper_connect"`

	// Serializer selects the multi-lang serializer: msgpack or json.
	Serializer string `ini:"serializer" env:"SERIALIZER" json:"serializer"`

	// Plugins is the ordered list of plugin declarations. Duplicated
	// aliases are kept in order.
	Plugins []PluginDeclaration `ini:"plugins" env:"-" json:"plugins"`
}

// Defaults returns the default configuration. Each call constructs a new
// value so no caller can corrupt the defaults seen by another.
func Defaults() Configuration {
	return Configuration{
		BaseJar:      BaseJarPath,
		TopologyPath: "pyleus_topology.yaml",
		Serializer:   SerializerMsgpack,
		Plugins:      []PluginDeclaration{},
	}
}

// Clone returns a deep copy of c. Slices of the copy never share backing
// arrays with c.
func (c Configuration) Clone() Configuration {
	out := c
	out.IncludePackages = slices.Clone(c.IncludePackages)
	if c.Plugins != nil {
		out.Plugins = make([]PluginDeclaration, len(c.Plugins))
		copy(out.Plugins, c.Plugins)
	}
	return out
}

// PluginAliases returns the plugin aliases in declaration order.
func (c Configuration) PluginAliases() []string {
	aliases := make([]string, 0, len(c.Plugins))
	for _, p := range c.Plugins {
		aliases = append(aliases, p.Alias)
	}
	return aliases
}
