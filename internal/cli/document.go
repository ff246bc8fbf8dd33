package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/fastsets"
)

var (
	// ErrUnknownElement is returned when a document names an element that is
	// not listed under elements.
	ErrUnknownElement = errors.New("unknown element")

	// ErrNoImage is returned when a live element has no mapping entry.
	ErrNoImage = errors.New("no image for element")
)

// Document is the YAML input of the apply and validate commands.
type Document struct {
	Domain   string            `yaml:"domain"`
	Elements []string          `yaml:"elements"`
	Removed  []string          `yaml:"removed,omitempty"`
	Mapping  map[string]string `yaml:"mapping"`
	Sets     []NamedSet        `yaml:"sets,omitempty"`
}

// NamedSet is a set of element names.
type NamedSet struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// LoadDocument reads a document from path.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseDocument(f)
}

// ParseDocument decodes a document. Unknown fields are rejected.
func ParseDocument(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if doc.Domain == "" {
		doc.Domain = "domain"
	}
	return &doc, nil
}

// Model is a document materialized into a domain.
type Model struct {
	Domain *fastsets.Domain[string]

	doc    *Document
	byName map[string]*fastsets.Member[string]
}

// Build registers the document elements in a new domain and removes the ones
// listed under removed.
func (d *Document) Build() (*Model, error) {
	m := &Model{
		Domain: fastsets.NewDomain[string](d.Domain),
		doc:    d,
		byName: make(map[string]*fastsets.Member[string], len(d.Elements)),
	}

	for _, name := range d.Elements {
		if _, dup := m.byName[name]; dup {
			return nil, fmt.Errorf("duplicate element %q", name)
		}
		member, err := m.Domain.Add(name)
		if err != nil {
			return nil, err
		}
		m.byName[name] = member
	}

	for _, name := range d.Removed {
		member, ok := m.byName[name]
		if !ok {
			return nil, fmt.Errorf("removed: %w %q", ErrUnknownElement, name)
		}
		if err := m.Domain.Remove(member); err != nil {
			return nil, fmt.Errorf("removed %q: %w", name, err)
		}
	}
	return m, nil
}

// Func returns the document mapping as a transform function.
func (m *Model) Func() fastsets.Func[string] {
	return fastsets.MapFunc[string](func(src *fastsets.Member[string]) (*fastsets.Member[string], error) {
		img, ok := m.doc.Mapping[src.Value()]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrNoImage, src.Value())
		}
		dst, ok := m.byName[img]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownElement, img)
		}
		return dst, nil
	})
}

// Set resolves a named set against the domain.
func (m *Model) Set(ns NamedSet) (*fastsets.Set[string], error) {
	s, err := m.Domain.NewSet()
	if err != nil {
		return nil, err
	}
	for _, name := range ns.Members {
		member, ok := m.byName[name]
		if !ok {
			return nil, fmt.Errorf("set %q: %w %q", ns.Name, ErrUnknownElement, name)
		}
		if err := s.Add(member); err != nil {
			return nil, fmt.Errorf("set %q: member %q: %w", ns.Name, name, err)
		}
	}
	return s, nil
}

// Transform builds the transform described by the document mapping.
func (m *Model) Transform(opts ...fastsets.Option) (*fastsets.Transform[string], error) {
	return fastsets.NewTransform[string](m.Domain, m.Func(), opts...)
}
