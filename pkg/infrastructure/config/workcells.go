// Package config loads the static work-cell catalog. The catalog is an
// immutable value constructed once at startup and handed to the readiness
// engine; there is no process-wide singleton.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// defaultFinishingExclusion is the op code whose backflush materials are
// never folded into a countable operation
const defaultFinishingExclusion = "PAINT"

// Workcell is one production station: a named grouping of operation codes
type Workcell struct {
	ID      string
	Name    string
	OpCodes []string
}

// WorkcellCatalog is the immutable set of configured work cells
type WorkcellCatalog struct {
	cells              map[string]Workcell
	order              []string
	finishingExclusion string
}

type catalogFile struct {
	Workcells map[string]struct {
		Name string   `yaml:"name"`
		Ops  []string `yaml:"ops"`
	} `yaml:"workcells"`
	FinishingExclusion string `yaml:"finishing_exclusion"`
}

// LoadCatalog reads and parses the work-cell catalog from a YAML file
func LoadCatalog(path string) (*WorkcellCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workcell catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses a work-cell catalog from YAML bytes
func ParseCatalog(data []byte) (*WorkcellCatalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse workcell catalog: %w", err)
	}

	catalog := &WorkcellCatalog{
		cells:              make(map[string]Workcell, len(file.Workcells)),
		finishingExclusion: file.FinishingExclusion,
	}
	if catalog.finishingExclusion == "" {
		catalog.finishingExclusion = defaultFinishingExclusion
	}

	for id, cell := range file.Workcells {
		codes := make([]string, len(cell.Ops))
		copy(codes, cell.Ops)
		catalog.cells[id] = Workcell{ID: id, Name: cell.Name, OpCodes: codes}
		catalog.order = append(catalog.order, id)
	}
	sort.Strings(catalog.order)

	return catalog, nil
}

// Workcells returns all configured cells in stable (id) order
func (c *WorkcellCatalog) Workcells() []Workcell {
	cells := make([]Workcell, 0, len(c.order))
	for _, id := range c.order {
		cells = append(cells, c.copyCell(id))
	}
	return cells
}

// Lookup returns the cell with the given id
func (c *WorkcellCatalog) Lookup(id string) (Workcell, bool) {
	if _, ok := c.cells[id]; !ok {
		return Workcell{}, false
	}
	return c.copyCell(id), true
}

// OpCodes returns the operation codes configured for a cell. An unknown
// cell yields nil, which the readiness engine treats as an empty queue,
// not an error.
func (c *WorkcellCatalog) OpCodes(id string) []string {
	cell, ok := c.cells[id]
	if !ok {
		return nil
	}
	codes := make([]string, len(cell.OpCodes))
	copy(codes, cell.OpCodes)
	return codes
}

// FinishingExclusion returns the op code excluded from material ownership
func (c *WorkcellCatalog) FinishingExclusion() string {
	return c.finishingExclusion
}

func (c *WorkcellCatalog) copyCell(id string) Workcell {
	cell := c.cells[id]
	codes := make([]string, len(cell.OpCodes))
	copy(codes, cell.OpCodes)
	return Workcell{ID: cell.ID, Name: cell.Name, OpCodes: codes}
}
