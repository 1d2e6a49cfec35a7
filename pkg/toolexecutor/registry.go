package toolexecutor

import (
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// Registry maps tool names to tools. It is not safe for concurrent mutation.
type Registry struct {
	tools   map[string]Tool
	schemas map[string]*gojsonschema.Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// Register inserts or replaces a tool. Tools implementing Describer get their
// context schema compiled here.
func (r *Registry) Register(name string, tool Tool) error {
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if tool == nil {
		return fmt.Errorf("tool %s cannot be nil", name)
	}

	var schema *gojsonschema.Schema
	if d, ok := tool.(Describer); ok {
		var err error
		schema, err = buildSchema(d.Definition().ContextSchema)
		if err != nil {
			return fmt.Errorf("failed to generate schema for %s: %w", name, err)
		}
	}

	r.tools[name] = tool
	r.schemas[name] = schema
	return nil
}

// Get looks up a tool. A missing tool is not an error.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Has reports whether a tool is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns metadata for every registered tool, sorted by name.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.tools))
	for _, name := range r.Names() {
		def := Definition{Name: name}
		if d, ok := r.tools[name].(Describer); ok {
			def = d.Definition()
			def.Name = name
		}
		defs = append(defs, def)
	}
	return defs
}

func (r *Registry) schema(name string) *gojsonschema.Schema {
	return r.schemas[name]
}
