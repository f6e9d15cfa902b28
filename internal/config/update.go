package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Overrides maps option names (the ini tag of a [Configuration] field) to
// new values. Values may be typed (bool, int, []string, ...) or raw strings
// as read from a file; booleans accept the INI words 1/yes/true/on and
// 0/no/false/off. "plugins" accepts []PluginDeclaration, [][2]string,
// [][]string or []any of (alias, name) pairs.
type Overrides map[string]any

// optionTypes indexes Configuration fields by option name.
var optionTypes = func() map[string]reflect.Type {
	t := reflect.TypeOf(Configuration{})
	types := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if name := f.Tag.Get("ini"); name != "" && name != "-" {
			types[name] = f.Type
		}
	}
	return types
}()

// UpdateConfiguration returns a new Configuration in which every option
// present in overrides replaces the corresponding field of base. Fields
// absent from overrides keep base's value. base is never mutated and the
// result shares no slice with base or overrides.
//
// "plugins" is a full replacement, not an additive merge. Unknown keys and
// values that cannot be converted to the option's type are ignored; use
// [UpdateConfigurationWithUnused] to learn which keys were skipped.
func UpdateConfiguration(base Configuration, overrides Overrides) Configuration {
	cfg, _ := UpdateConfigurationWithUnused(base, overrides)
	return cfg
}

// UpdateConfigurationWithUnused behaves like [UpdateConfiguration] and also
// returns the sorted list of override keys that were not applied.
func UpdateConfigurationWithUnused(base Configuration, overrides Overrides) (Configuration, []string) {
	cfg := base.Clone()
	var unused []string

	for key, value := range overrides {
		typ, ok := optionTypes[key]
		if !ok {
			unused = append(unused, key)
			continue
		}

		if value == nil {
			value = reflect.Zero(typ).Interface()
		}

		next := cfg.Clone()
		if key == "plugins" {
			next.Plugins = nil
		}
		if err := decodeOption(&next, key, value); err != nil {
			unused = append(unused, key)
			continue
		}
		cfg = next
	}

	if cfg.Plugins == nil {
		cfg.Plugins = []PluginDeclaration{}
	}

	sort.Strings(unused)
	return cfg, unused
}

func decodeOption(dst *Configuration, key string, value any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			pluginPairsHook,
			iniBoolHook,
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		TagName:          "ini",
		Result:           dst,
	})
	if err != nil {
		return fmt.Errorf("error creating decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any{key: value}); err != nil {
		return fmt.Errorf("error decoding option %q: %w", key, err)
	}
	return nil
}

var pluginSliceType = reflect.TypeOf([]PluginDeclaration{})

// pluginPairsHook converts (alias, name) pairs into plugin declarations.
func pluginPairsHook(from, to reflect.Type, data any) (any, error) {
	if to != pluginSliceType {
		return data, nil
	}

	switch pairs := data.(type) {
	case [][2]string:
		out := make([]PluginDeclaration, 0, len(pairs))
		for _, p := range pairs {
			out = append(out, PluginDeclaration{Alias: p[0], Name: p[1]})
		}
		return out, nil
	case [][]string:
		out := make([]PluginDeclaration, 0, len(pairs))
		for _, p := range pairs {
			if len(p) != 2 {
				return nil, fmt.Errorf("plugin declaration must be an (alias, name) pair, got %d values", len(p))
			}
			out = append(out, PluginDeclaration{Alias: p[0], Name: p[1]})
		}
		return out, nil
	case []Item:
		out := make([]PluginDeclaration, 0, len(pairs))
		for _, item := range pairs {
			out = append(out, PluginDeclaration{Alias: item.Key, Name: item.Value})
		}
		return out, nil
	case []any:
		out := make([]PluginDeclaration, 0, len(pairs))
		for _, p := range pairs {
			decl, err := pluginPair(p)
			if err != nil {
				return nil, err
			}
			out = append(out, decl)
		}
		return out, nil
	}

	return data, nil
}

// pluginPair converts one loosely typed (alias, name) pair, as decoded
// from JSON or YAML.
func pluginPair(pair any) (PluginDeclaration, error) {
	switch p := pair.(type) {
	case PluginDeclaration:
		return p, nil
	case [2]string:
		return PluginDeclaration{Alias: p[0], Name: p[1]}, nil
	case []string:
		if len(p) == 2 {
			return PluginDeclaration{Alias: p[0], Name: p[1]}, nil
		}
		return PluginDeclaration{}, fmt.Errorf("plugin declaration must be an (alias, name) pair, got %d values", len(p))
	case []any:
		if len(p) != 2 {
			return PluginDeclaration{}, fmt.Errorf("plugin declaration must be an (alias, name) pair, got %d values", len(p))
		}
		alias, aliasOK := p[0].(string)
		name, nameOK := p[1].(string)
		if !aliasOK || !nameOK {
			return PluginDeclaration{}, fmt.Errorf("plugin declaration must be a pair of strings, got (%T, %T)", p[0], p[1])
		}
		return PluginDeclaration{Alias: alias, Name: name}, nil
	}
	return PluginDeclaration{}, fmt.Errorf("plugin declaration must be an (alias, name) pair, got %T", pair)
}

// iniBoolHook accepts the boolean words of INI files, case-insensitively.
func iniBoolHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}

	word := strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String()))
	switch word {
	case "1", "yes", "true", "on":
		return true, nil
	case "0", "no", "false", "off":
		return false, nil
	}
	return nil, fmt.Errorf("%q is not a boolean", word)
}
