package metadata

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Sentinel errors for table loading.
var (
	errUnknownSourceKind = errors.New("unknown extraction source kind")

	// ErrVersionMismatch indicates the artifact was generated for a
	// different table format version. This is the one fatal configuration
	// error in the subsystem: a mismatched table cannot be trusted.
	ErrVersionMismatch = errors.New("metadata table version mismatch")

	// ErrSchemaViolation indicates the artifact failed JSON Schema validation.
	ErrSchemaViolation = errors.New("metadata table schema violation")
)

// TableVersion is the artifact format version this build reads.
const TableVersion = 1

//go:embed widgets.json table-schema.json
var tableFS embed.FS

// Embedded artifact paths.
const (
	defaultTablePath = "widgets.json"
	schemaPath       = "table-schema.json"
)

// Table is the read-only known-widget metadata table.
type Table struct {
	records map[string]Record
}

// tableArtifact is the wire form of a table file.
type tableArtifact struct {
	Version int               `json:"version"`
	Widgets map[string]Record `json:"widgets"`
}

// Lookup returns the record for the widget type name, if present.
func (t *Table) Lookup(typeName string) (Record, bool) {
	record, ok := t.records[typeName]

	return record, ok
}

// Len returns the number of known widget types.
func (t *Table) Len() int {
	return len(t.records)
}

// TypeNames returns all known widget type names in sorted order.
func (t *Table) TypeNames() []string {
	names := make([]string, 0, len(t.records))

	for name := range t.records {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Default returns the compiled-in table covering the common framework
// widget set. The embedded artifact is validated at startup; a corrupt
// embed is a build defect, so failures panic.
func Default() *Table {
	data, err := tableFS.ReadFile(defaultTablePath)
	if err != nil {
		panic(fmt.Sprintf("embedded metadata table missing: %v", err))
	}

	table, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("embedded metadata table corrupt: %v", err))
	}

	return table
}

// LoadFile reads, validates, and parses a table artifact from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from operator configuration.
	if err != nil {
		return nil, fmt.Errorf("read metadata table: %w", err)
	}

	return Parse(data)
}

// Parse validates raw artifact bytes against the table JSON Schema and
// decodes them into a Table.
func Parse(data []byte) (*Table, error) {
	err := validateAgainstSchema(data)
	if err != nil {
		return nil, err
	}

	var artifact tableArtifact

	err = json.Unmarshal(data, &artifact)
	if err != nil {
		return nil, fmt.Errorf("decode metadata table: %w", err)
	}

	if artifact.Version != TableVersion {
		return nil, fmt.Errorf("%w: artifact=%d expected=%d",
			ErrVersionMismatch, artifact.Version, TableVersion)
	}

	return &Table{records: artifact.Widgets}, nil
}

func validateAgainstSchema(data []byte) error {
	schemaBytes, err := tableFS.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read embedded table schema: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate metadata table: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var issues strings.Builder

	for idx, desc := range result.Errors() {
		if idx > 0 {
			issues.WriteString("; ")
		}

		issues.WriteString(desc.String())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, issues.String())
}
