package provider

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/MKhiriev/go-pyleus/internal/config"
)

// ArgPrefix starts a provider declaration on the command line:
// --provider.alias=name.
const ArgPrefix = "--provider."

// Qualified names of the built-in providers.
const (
	KafkaProvider   = "pyleus.kafka.KafkaSpoutProvider"
	ExampleProvider = "pyleus.example.ExampleSpoutProvider"
	KafkaAlias      = "kafka"
)

// Registry resolves spout types through aliases to qualified provider names
// and component modules to factories. It is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	providers map[string]SpoutProvider
	aliases   map[string]string
	order     []string
	modules   map[string]ComponentFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]SpoutProvider),
		aliases:   make(map[string]string),
		modules:   make(map[string]ComponentFactory),
	}
}

// NewDefaultRegistry returns a registry whose only alias is kafka.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Alias(KafkaAlias, KafkaProvider)
	return r
}

// Register adds a provider under its qualified name.
func (r *Registry) Register(name string, p SpoutProvider) error {
	if name == "" || p == nil {
		return fmt.Errorf("%w: empty provider name or nil provider", ErrInvalidProviderArg)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("%w: %s", ErrProviderExists, name)
	}
	r.providers[name] = p
	return nil
}

// Alias points alias at the qualified provider name. Re-aliasing keeps the
// alias at its original position.
func (r *Registry) Alias(alias, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.aliases[alias]; !exists {
		r.order = append(r.order, alias)
	}
	r.aliases[alias] = name
}

// RegisterPlugins aliases every plugin declaration in order, so a later
// declaration of the same alias wins.
func (r *Registry) RegisterPlugins(plugins []config.PluginDeclaration) {
	for _, p := range plugins {
		r.Alias(p.Alias, p.Name)
	}
}

// ApplyProviderArgs aliases every --provider.alias=name argument.
func (r *Registry) ApplyProviderArgs(args []string) error {
	for _, arg := range args {
		decl, err := ParseProviderArg(arg)
		if err != nil {
			return err
		}
		r.Alias(decl.Alias, decl.Name)
	}
	return nil
}

// ParseProviderArg parses --provider.alias=name.
func ParseProviderArg(arg string) (config.PluginDeclaration, error) {
	rest, ok := strings.CutPrefix(arg, ArgPrefix)
	if !ok {
		return config.PluginDeclaration{}, fmt.Errorf("%w: %q", ErrInvalidProviderArg, arg)
	}

	alias, name, ok := strings.Cut(rest, "=")
	if !ok || alias == "" || name == "" || strings.Contains(name, "=") {
		return config.PluginDeclaration{}, fmt.Errorf("%w: %q", ErrInvalidProviderArg, arg)
	}
	return config.PluginDeclaration{Alias: alias, Name: name}, nil
}

// Has reports whether alias is declared.
func (r *Registry) Has(alias string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.aliases[alias]
	return ok
}

// Aliases returns the declared aliases in declaration order.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// Lookup resolves alias to its provider.
func (r *Registry) Lookup(alias string) (SpoutProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.aliases[alias]
	if !ok {
		return nil, fmt.Errorf("%w: unknown spout type %q", ErrProviderNotFound, alias)
	}

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (declared as %q)", ErrProviderNotFound, name, alias)
	}
	return p, nil
}

// RegisterModule adds a component factory under its module name.
func (r *Registry) RegisterModule(module string, f ComponentFactory) error {
	if module == "" || f == nil {
		return fmt.Errorf("%w: empty module name or nil factory", ErrModuleNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[module]; exists {
		return fmt.Errorf("%w: %s", ErrModuleExists, module)
	}
	r.modules[module] = f
	return nil
}

// Module returns the factory registered for module.
func (r *Registry) Module(module string) (ComponentFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.modules[module]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, module)
	}
	return f, nil
}

// Modules returns the registered module names sorted.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
