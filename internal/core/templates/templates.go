// Package templates holds named chart-of-accounts forests that can be applied
// to a company.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed charts/*.yaml
var chartFS embed.FS

// Node is one account of a template.
type Node struct {
	Code        string             `yaml:"code"`
	Name        string             `yaml:"name"`
	Type        domain.AccountType `yaml:"type"`
	Group       bool               `yaml:"group"`
	Description string             `yaml:"description"`
	Children    []Node             `yaml:"children"`
}

// Template is a named chart-of-accounts forest.
type Template struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Currency    string `yaml:"currency"`
	Accounts    []Node `yaml:"accounts"`
}

// Walk visits every node depth-first, parents before children. parent is nil for roots.
func (t Template) Walk(fn func(node Node, parent *Node) error) error {
	var visit func(nodes []Node, parent *Node) error
	visit = func(nodes []Node, parent *Node) error {
		for i := range nodes {
			if err := fn(nodes[i], parent); err != nil {
				return err
			}
			if err := visit(nodes[i].Children, &nodes[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(t.Accounts, nil)
}

// Size returns the number of nodes in the template.
func (t Template) Size() int {
	n := 0
	_ = t.Walk(func(Node, *Node) error { n++; return nil })
	return n
}

// Parse decodes and validates a YAML template.
func Parse(data []byte) (Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("decoding template: %w", err)
	}
	if t.Name == "" {
		return Template{}, fmt.Errorf("template has no name")
	}
	if t.Currency == "" {
		t.Currency = "USD"
	}
	seen := make(map[string]bool)
	err := t.Walk(func(node Node, parent *Node) error {
		if node.Code == "" || node.Name == "" {
			return fmt.Errorf("template %s: node without code or name", t.Name)
		}
		if !node.Type.IsValid() {
			return fmt.Errorf("template %s: account %s has invalid type %q", t.Name, node.Code, node.Type)
		}
		if seen[node.Code] {
			return fmt.Errorf("template %s: duplicate code %s", t.Name, node.Code)
		}
		seen[node.Code] = true
		if len(node.Children) > 0 && !node.Group {
			return fmt.Errorf("template %s: leaf %s has children", t.Name, node.Code)
		}
		if parent != nil && parent.Type != node.Type {
			return fmt.Errorf("template %s: %s is %s under %s parent %s", t.Name, node.Code, node.Type, parent.Type, parent.Code)
		}
		return nil
	})
	if err != nil {
		return Template{}, err
	}
	return t, nil
}

// Registry indexes templates by name.
type Registry struct {
	byName map[string]Template
}

// NewRegistry builds a registry from already parsed templates.
func NewRegistry(ts ...Template) *Registry {
	r := &Registry{byName: make(map[string]Template, len(ts))}
	for _, t := range ts {
		r.byName[t.Name] = t
	}
	return r
}

// LoadEmbedded parses every template shipped with the binary.
func LoadEmbedded() (*Registry, error) {
	files, err := fs.Glob(chartFS, "charts/*.yaml")
	if err != nil {
		return nil, err
	}
	ts := make([]Template, 0, len(files))
	for _, f := range files {
		data, err := chartFS.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path.Base(f), err)
		}
		t, err := Parse(data)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return NewRegistry(ts...), nil
}

// Get looks a template up by name.
func (r *Registry) Get(name string) (Template, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// List returns all templates ordered by name.
func (r *Registry) List() []Template {
	out := make([]Template, 0, len(r.byName))
	for _, t := range r.byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
