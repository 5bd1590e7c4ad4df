package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/rfmkit-dev/rfmkit/internal/model"
)

// Parser converts a tabular input into raw transaction rows.
// Rows are returned unvalidated; the cleaner decides what survives.
type Parser interface {
	Parse(r io.Reader) ([]model.RawRow, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers, each
// reading through the given column mapping.
func DefaultRegistry(m Mapping) *Registry {
	r := NewRegistry()
	r.Register(NewCSVParser(m))
	return r
}

// SchemaError reports required columns missing from the input header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input schema missing required columns: %s", strings.Join(e.Missing, ", "))
}
