package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds the command-line flags that feed the configuration. Only
// flags explicitly set on the command line override other sources.
//
// Flags:
//
//	-c/--config        INI configuration file path
//	--verbose          verbose logging
//	--debug            debug output of the local runner
//	--nimbus-host      cluster master host
//	--nimbus-port      cluster master port
//	--pypi-index-url   package index used to build the virtualenv
//	--serializer       multi-lang serializer (msgpack or json)
//	--topology-name    topology name override
//	--wait-time        seconds to wait before killing a topology
//	--plugin           plugin declaration alias=name, repeatable
type Flags struct {
	fs *pflag.FlagSet

	configFile   string
	verbose      bool
	debug        bool
	nimbusHost   string
	nimbusPort   int
	pypiIndexURL string
	serializer   string
	topologyName string
	waitTime     int
	plugins      []string
}

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}

	fs.StringVarP(&f.configFile, "config", "c", "", "INI configuration file path")
	fs.BoolVar(&f.verbose, "verbose", false, "Verbose logging")
	fs.BoolVar(&f.debug, "debug", false, "Debug output of the local runner")
	fs.StringVar(&f.nimbusHost, "nimbus-host", "", "Nimbus host")
	fs.IntVar(&f.nimbusPort, "nimbus-port", 0, "Nimbus port")
	fs.StringVar(&f.pypiIndexURL, "pypi-index-url", "", "Package index URL")
	fs.StringVar(&f.serializer, "serializer", "", "Serializer (msgpack or json)")
	fs.StringVar(&f.topologyName, "topology-name", "", "Topology name override")
	fs.IntVar(&f.waitTime, "wait-time", 0, "Seconds to wait before killing a topology")
	fs.StringArrayVar(&f.plugins, "plugin", nil, "Plugin declaration alias=name (repeatable)")

	return f
}

// ConfigFile returns the value of the --config flag.
func (f *Flags) ConfigFile() string {
	if f == nil {
		return ""
	}
	return f.configFile
}

// Configuration returns the configuration layer made of the flags that
// were set. Plugin declarations given with --plugin replace the whole
// plugin list, in command-line order.
func (f *Flags) Configuration() (*Configuration, error) {
	cfg := &Configuration{}
	if f == nil || f.fs == nil {
		return cfg, nil
	}

	changed := f.fs.Changed
	if changed("config") {
		cfg.ConfigFile = f.configFile
	}
	if changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if changed("debug") {
		cfg.Debug = f.debug
	}
	if changed("nimbus-host") {
		cfg.NimbusHost = f.nimbusHost
	}
	if changed("nimbus-port") {
		cfg.NimbusPort = f.nimbusPort
	}
	if changed("pypi-index-url") {
		cfg.PypiIndexURL = f.pypiIndexURL
	}
	if changed("serializer") {
		cfg.Serializer = f.serializer
	}
	if changed("topology-name") {
		cfg.TopologyName = f.topologyName
	}
	if changed("wait-time") {
		cfg.WaitTime = f.waitTime
	}

	for _, p := range f.plugins {
		decl, err := ParsePluginDeclaration(p)
		if err != nil {
			return nil, err
		}
		cfg.Plugins = append(cfg.Plugins, decl)
	}

	return cfg, nil
}

// ParsePluginDeclaration parses "alias=name".
func ParsePluginDeclaration(s string) (PluginDeclaration, error) {
	alias, name, ok := strings.Cut(s, "=")
	alias, name = strings.TrimSpace(alias), strings.TrimSpace(name)
	if !ok || alias == "" || name == "" {
		return PluginDeclaration{}, fmt.Errorf("plugin declaration must be in a form `alias=name`, got %q", s)
	}
	return PluginDeclaration{Alias: alias, Name: name}, nil
}
