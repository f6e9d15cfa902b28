package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-pyleus/internal/config"
	"github.com/MKhiriev/go-pyleus/internal/mock"
	"github.com/MKhiriev/go-pyleus/internal/provider"
	"github.com/MKhiriev/go-pyleus/internal/stream"
	"github.com/MKhiriev/go-pyleus/internal/topology"
)

type idleSpout struct{}

func (idleSpout) Open(stream.Context) error                       { return nil }
func (idleSpout) NextTuple(context.Context, stream.Emitter) error { return nil }
func (idleSpout) Close() error                                    { return nil }

func TestDefaultRegistry_Kafka(t *testing.T) {
	r := provider.NewDefaultRegistry()

	assert.True(t, r.Has(provider.KafkaAlias))
	assert.Equal(t, []string{provider.KafkaAlias}, r.Aliases())

	// the alias is declared but nothing implements it yet
	_, err := r.Lookup(provider.KafkaAlias)
	require.ErrorIs(t, err, provider.ErrProviderNotFound)
	assert.Contains(t, err.Error(), provider.KafkaProvider)
}

func TestRegistry_Lookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mock.NewMockSpoutProvider(ctrl)

	spec := topology.ComponentSpec{Name: "kafka-spout", Type: provider.KafkaAlias}
	p.EXPECT().Provide(spec).Return(idleSpout{}, nil)

	r := provider.NewDefaultRegistry()
	require.NoError(t, r.Register(provider.KafkaProvider, p))

	got, err := r.Lookup(provider.KafkaAlias)
	require.NoError(t, err)

	spout, err := got.Provide(spec)
	require.NoError(t, err)
	assert.Equal(t, idleSpout{}, spout)
}

func TestRegistry_LookupUnknownAlias(t *testing.T) {
	r := provider.NewRegistry()

	_, err := r.Lookup("nope")
	assert.ErrorIs(t, err, provider.ErrProviderNotFound)
	assert.False(t, r.Has("nope"))
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := provider.NewRegistry()
	p := provider.SpoutProviderFunc(func(topology.ComponentSpec) (stream.Spout, error) {
		return idleSpout{}, nil
	})

	require.NoError(t, r.Register("a.B", p))
	assert.ErrorIs(t, r.Register("a.B", p), provider.ErrProviderExists)
	assert.ErrorIs(t, r.Register("", p), provider.ErrInvalidProviderArg)
	assert.ErrorIs(t, r.Register("a.C", nil), provider.ErrInvalidProviderArg)
}

// TestRegistry_RegisterPlugins verifies that declarations apply in order:
// a repeated alias keeps its first position but takes the last name.
func TestRegistry_RegisterPlugins(t *testing.T) {
	r := provider.NewDefaultRegistry()
	r.RegisterPlugins([]config.PluginDeclaration{
		{Alias: "custom", Name: "com.example.First"},
		{Alias: "other", Name: "com.example.Other"},
		{Alias: "custom", Name: "com.example.Second"},
	})

	p := provider.SpoutProviderFunc(func(topology.ComponentSpec) (stream.Spout, error) {
		return idleSpout{}, nil
	})
	require.NoError(t, r.Register("com.example.Second", p))

	assert.Equal(t, []string{provider.KafkaAlias, "custom", "other"}, r.Aliases())

	_, err := r.Lookup("custom")
	assert.NoError(t, err)

	_, err = r.Lookup("other")
	assert.ErrorIs(t, err, provider.ErrProviderNotFound)
}

func TestRegistry_PluginsOverrideKafka(t *testing.T) {
	r := provider.NewDefaultRegistry()
	r.RegisterPlugins([]config.PluginDeclaration{{Alias: "kafka", Name: "com.example.Kafka"}})

	_, err := r.Lookup("kafka")
	require.ErrorIs(t, err, provider.ErrProviderNotFound)
	assert.Contains(t, err.Error(), "com.example.Kafka")
}

func TestRegistry_ApplyProviderArgs(t *testing.T) {
	r := provider.NewDefaultRegistry()

	err := r.ApplyProviderArgs([]string{
		"--provider.sentence=" + provider.ExampleProvider,
		"--provider.kafka=com.example.Kafka",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka", "sentence"}, r.Aliases())
	assert.True(t, r.Has("sentence"))
}

func TestParseProviderArg(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    config.PluginDeclaration
		wantErr bool
	}{
		{name: "valid", arg: "--provider.foo=com.example.Foo", want: config.PluginDeclaration{Alias: "foo", Name: "com.example.Foo"}},
		{name: "wrong prefix", arg: "--plugin.foo=bar", wantErr: true},
		{name: "no value", arg: "--provider.foo", wantErr: true},
		{name: "empty alias", arg: "--provider.=bar", wantErr: true},
		{name: "empty name", arg: "--provider.foo=", wantErr: true},
		{name: "two separators", arg: "--provider.foo=bar=baz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := provider.ParseProviderArg(tt.arg)
			if tt.wantErr {
				assert.ErrorIs(t, err, provider.ErrInvalidProviderArg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_ApplyProviderArgs_Invalid(t *testing.T) {
	r := provider.NewRegistry()

	err := r.ApplyProviderArgs([]string{"--provider.ok=a.B", "--local"})
	assert.ErrorIs(t, err, provider.ErrInvalidProviderArg)
	assert.True(t, r.Has("ok"))
}

func TestRegistry_Modules(t *testing.T) {
	r := provider.NewRegistry()
	boom := errors.New("boom")

	require.NoError(t, r.RegisterModule("b.mod", func(topology.ComponentSpec) (any, error) { return nil, boom }))
	require.NoError(t, r.RegisterModule("a.mod", func(topology.ComponentSpec) (any, error) { return idleSpout{}, nil }))
	assert.ErrorIs(t, r.RegisterModule("a.mod", func(topology.ComponentSpec) (any, error) { return nil, nil }), provider.ErrModuleExists)

	assert.Equal(t, []string{"a.mod", "b.mod"}, r.Modules())

	f, err := r.Module("b.mod")
	require.NoError(t, err)
	_, err = f(topology.ComponentSpec{})
	assert.ErrorIs(t, err, boom)

	_, err = r.Module("missing")
	assert.ErrorIs(t, err, provider.ErrModuleNotFound)
}
