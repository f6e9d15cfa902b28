// Package config provides configuration loading, merging, and validation
// facilities for the topology toolkit.
//
// A [Configuration] is resolved from the following sources, later sources
// overriding earlier ones:
//  1. [Defaults]
//  2. the user file ~/.pyleus.conf, when present
//  3. the command-line INI file
//  4. environment variables prefixed with PYLEUS_
//  5. command-line flags
//
// Files are INI documents. Options live in the [storm] and [build]
// sections; the [plugins] section maps plugin aliases to fully-qualified
// implementation names and is kept in file order:
//
//	[build]
//	pypi_index_url: http://pypi.example.com/simple
//
//	[plugins]
//	sentence: pyleus.example.ExampleSpoutProvider
//
// The main entry points are [LoadConfiguration], which resolves the files
// only, and [GetConfiguration], which layers environment and flags on top.
package config
