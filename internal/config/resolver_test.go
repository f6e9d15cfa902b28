package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-pyleus/internal/config"
	"github.com/MKhiriev/go-pyleus/internal/mock"
)

func writeConf(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newTestResolver - helper that builds a Resolver over a mocked parser
// with the user file disabled.
func newTestResolver(t *testing.T) (*config.Resolver, *mock.MockParser) {
	t.Helper()
	ctrl := gomock.NewController(t)
	parser := mock.NewMockParser(ctrl)
	return config.NewResolver(config.Defaults(), parser, nil).WithUserFile(""), parser
}

// ── Load with a mocked parser ─────────────────────────────────────────────────

func TestResolver_Load_WithPlugins(t *testing.T) {
	resolver, parser := newTestResolver(t)
	path := writeConf(t, t.TempDir(), "pyleus.conf", "")

	parser.EXPECT().Parse(path).Return([]config.Section{
		{Name: config.SectionPlugins, Items: []config.Item{
			{Key: "alias1", Value: "java.class.named.Alias1"},
			{Key: "alias2", Value: "java.class.named.Alias2"},
		}},
	}, nil)

	cfg, err := resolver.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []config.PluginDeclaration{
		{Alias: "alias1", Name: "java.class.named.Alias1"},
		{Alias: "alias2", Name: "java.class.named.Alias2"},
	}, cfg.Plugins)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestResolver_Load_NoPluginsSection(t *testing.T) {
	resolver, parser := newTestResolver(t)
	path := writeConf(t, t.TempDir(), "pyleus.conf", "")

	parser.EXPECT().Parse(path).Return([]config.Section{
		{Name: config.SectionBuild, Items: []config.Item{{Key: "pypi_index_url", Value: "http://x"}}},
	}, nil)

	cfg, err := resolver.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []config.PluginDeclaration{}, cfg.Plugins)
	assert.Equal(t, "http://x", cfg.PypiIndexURL)
}

// TestResolver_Load_OnlyOptionSections verifies that options outside the
// [storm] and [build] sections are not applied and that [build] wins over
// [storm] for the same key.
func TestResolver_Load_OnlyOptionSections(t *testing.T) {
	resolver, parser := newTestResolver(t)
	path := writeConf(t, t.TempDir(), "pyleus.conf", "")

	parser.EXPECT().Parse(path).Return([]config.Section{
		{Name: "other", Items: []config.Item{{Key: "nimbus_host", Value: "ignored"}}},
		{Name: config.SectionBuild, Items: []config.Item{{Key: "jvm_opts", Value: "-Xmx1g"}}},
		{Name: config.SectionStorm, Items: []config.Item{
			{Key: "nimbus_host", Value: "nimbus"},
			{Key: "jvm_opts", Value: "-Xmx512m"},
			{Key: "plugins", Value: "not.a.list"},
		}},
	}, nil)

	cfg, err := resolver.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nimbus", cfg.NimbusHost)
	assert.Equal(t, "-Xmx1g", cfg.JVMOpts)
	assert.Empty(t, cfg.Plugins)
}

func TestResolver_Load_ParseError(t *testing.T) {
	resolver, parser := newTestResolver(t)
	path := writeConf(t, t.TempDir(), "pyleus.conf", "")

	parser.EXPECT().Parse(path).Return(nil, errors.New("boom"))

	_, err := resolver.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigParse)

	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, path, cfgErr.Path)
}

func TestResolver_Load_MissingFile(t *testing.T) {
	resolver, _ := newTestResolver(t)

	_, err := resolver.Load(filepath.Join(t.TempDir(), "missing.conf"))
	assert.ErrorIs(t, err, config.ErrConfigNotFound)
}

func TestResolver_Load_Directory(t *testing.T) {
	resolver, _ := newTestResolver(t)

	_, err := resolver.Load(t.TempDir())
	assert.ErrorIs(t, err, config.ErrConfigNotAFile)
}

// TestResolver_Load_EmptyPath verifies that an empty path without a user
// file resolves to the defaults without invoking the parser.
func TestResolver_Load_EmptyPath(t *testing.T) {
	resolver, _ := newTestResolver(t)

	cfg, err := resolver.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

// TestResolver_Load_DefaultsUntouched verifies that resolving never alters
// the defaults the resolver was built with.
func TestResolver_Load_DefaultsUntouched(t *testing.T) {
	defaults := config.Defaults()
	ctrl := gomock.NewController(t)
	parser := mock.NewMockParser(ctrl)
	resolver := config.NewResolver(defaults, parser, nil).WithUserFile("")
	path := writeConf(t, t.TempDir(), "pyleus.conf", "")

	parser.EXPECT().Parse(path).Return([]config.Section{
		{Name: config.SectionPlugins, Items: []config.Item{{Key: "a", Value: "x.A"}}},
	}, nil).Times(2)

	first, err := resolver.Load(path)
	require.NoError(t, err)
	first.Plugins[0].Name = "mutated"

	second, err := resolver.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "x.A", second.Plugins[0].Name)
	assert.Empty(t, defaults.Plugins)
}

// ── Load with real files ──────────────────────────────────────────────────────

func TestLoadConfiguration_INIFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConf(t, t.TempDir(), "pyleus.conf", `
[storm]
storm_cmd_path: /usr/share/storm/bin/storm
nimbus_host: 10.11.12.13
nimbus_port: 6627
jvm_opts: -Djava.io.tmpdir=/home/myuser/tmp

[build]
pypi_index_url: http://pypi.ninjacorp.com/simple/
system_site_packages: true

[plugins]
alias1: java.class.named.Alias1
alias2: java.class.named.Alias2
`)

	cfg, err := config.LoadConfiguration(path)
	require.NoError(t, err)

	assert.Equal(t, "/usr/share/storm/bin/storm", cfg.StormCmdPath)
	assert.Equal(t, "10.11.12.13", cfg.NimbusHost)
	assert.Equal(t, 6627, cfg.NimbusPort)
	assert.Equal(t, "-Djava.io.tmpdir=/home/myuser/tmp", cfg.JVMOpts)
	assert.Equal(t, "http://pypi.ninjacorp.com/simple/", cfg.PypiIndexURL)
	assert.True(t, cfg.SystemSitePackages)
	assert.Equal(t, config.SerializerMsgpack, cfg.Serializer)
	assert.Equal(t, []config.PluginDeclaration{
		{Alias: "alias1", Name: "java.class.named.Alias1"},
		{Alias: "alias2", Name: "java.class.named.Alias2"},
	}, cfg.Plugins)
}

// TestLoadConfiguration_UserFile verifies that the user file is read first
// and the command-line file overrides it.
func TestLoadConfiguration_UserFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConf(t, home, config.UserConfigFile, "[storm]\nnimbus_host = user-host\nstorm_cmd_path = /opt/storm\n")
	path := writeConf(t, t.TempDir(), "pyleus.conf", "[storm]\nnimbus_host = cmd-host\n")

	cfg, err := config.LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, "cmd-host", cfg.NimbusHost)
	assert.Equal(t, "/opt/storm", cfg.StormCmdPath)

	cfg, err = config.LoadConfiguration("")
	require.NoError(t, err)
	assert.Equal(t, "user-host", cfg.NimbusHost)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadConfiguration_INIBooleanWords(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConf(t, t.TempDir(), "pyleus.conf", "[build]\nsystem_site_packages = yes\nverbose = on\n")

	cfg, err := config.LoadConfiguration(path)
	require.NoError(t, err)
	assert.True(t, cfg.SystemSitePackages)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfiguration_Malformed(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConf(t, t.TempDir(), "pyleus.conf", "[storm\nnimbus_host\n")

	_, err := config.LoadConfiguration(path)
	assert.ErrorIs(t, err, config.ErrConfigParse)
}
