package config

//go:generate mockgen -source=parser.go -destination=../mock/config_parser_mock.go -package=mock

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Sections that hold recognized scalar options.
const (
	SectionStorm   = "storm"
	SectionBuild   = "build"
	SectionPlugins = "plugins"
)

// Item is a single key/value entry of a section. Order of items inside a
// section follows the source.
type Item struct {
	Key   string
	Value string
}

// Section is a named group of items.
type Section struct {
	Name  string
	Items []Item
}

// Parser reads sectioned key/value sources. Sources are applied in order:
// a key present in a later source overrides the same key of an earlier one.
type Parser interface {
	Parse(sources ...string) ([]Section, error)
}

// Lookup returns the items of the named section and whether it exists.
func Lookup(sections []Section, name string) ([]Item, bool) {
	for _, s := range sections {
		if s.Name == name {
			return s.Items, true
		}
	}
	return nil, false
}

type iniParser struct {
	opts ini.LoadOptions
}

// NewINIParser returns a [Parser] for INI files. Key names are lower-cased,
// both "=" and ":" separate keys from values and indented continuation
// lines extend the previous value.
func NewINIParser() Parser {
	return &iniParser{
		opts: ini.LoadOptions{
			InsensitiveKeys:            true,
			AllowPythonMultilineValues: true,
			SpaceBeforeInlineComment:   true,
			KeyValueDelimiters:         "=:",
		},
	}
}

func (p *iniParser) Parse(sources ...string) ([]Section, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	others := make([]any, 0, len(sources)-1)
	for _, s := range sources[1:] {
		others = append(others, s)
	}

	file, err := ini.LoadSources(p.opts, sources[0], others...)
	if err != nil {
		return nil, fmt.Errorf("error loading ini sources: %w", err)
	}

	sections := make([]Section, 0, len(file.Sections()))
	for _, s := range file.Sections() {
		if s.Name() == ini.DefaultSection && len(s.Keys()) == 0 {
			continue
		}

		section := Section{Name: s.Name(), Items: make([]Item, 0, len(s.Keys()))}
		for _, k := range s.Keys() {
			section.Items = append(section.Items, Item{Key: k.Name(), Value: k.String()})
		}
		sections = append(sections, section)
	}

	return sections, nil
}
