package parking

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SlotSpec struct {
	Size      Size      `yaml:"size" json:"size"`
	Distances []float64 `yaml:"distances" json:"distances"`
}

// slotSpecFields mirrors SlotSpec with an optional size, so a slot that omits
// its size is rejected instead of decoding as Small.
type slotSpecFields struct {
	Size      *Size     `yaml:"size" json:"size"`
	Distances []float64 `yaml:"distances" json:"distances"`
}

func (s *SlotSpec) UnmarshalYAML(node *yaml.Node) error {
	var fields slotSpecFields
	if err := node.Decode(&fields); err != nil {
		return err
	}
	return s.set(fields)
}

func (s *SlotSpec) UnmarshalJSON(data []byte) error {
	var fields slotSpecFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	return s.set(fields)
}

func (s *SlotSpec) set(fields slotSpecFields) error {
	if fields.Size == nil {
		return &ConfigurationError{Reason: "slot size is required"}
	}
	*s = SlotSpec{Size: *fields.Size, Distances: fields.Distances}
	return nil
}

// Layout describes a lot: how many entry points it has and, per slot, its size
// and its distance from each entry point.
type Layout struct {
	EntryPoints int        `yaml:"entry_points" json:"entry_points"`
	Slots       []SlotSpec `yaml:"slots" json:"slots"`
}

// DefaultLayout is the sample lot: three entry points and ten mixed slots.
func DefaultLayout() Layout {
	distances := [][]float64{
		{1, 4, 5},
		{2, 3, 4},
		{3, 2, 3},
		{4, 1, 2},
		{5, 2, 1},
		{2, 5, 4},
		{3, 4, 3},
		{1, 6, 5},
		{4, 3, 2},
		{5, 1, 3},
	}
	sizes := []Size{Small, Medium, Large, Small, Medium, Large, Small, Medium, Large, Medium}

	layout := Layout{EntryPoints: 3, Slots: make([]SlotSpec, len(sizes))}
	for i := range sizes {
		layout.Slots[i] = SlotSpec{Size: sizes[i], Distances: distances[i]}
	}
	return layout
}

func (l Layout) columns() ([][]float64, []Size) {
	distances := make([][]float64, len(l.Slots))
	sizes := make([]Size, len(l.Slots))
	for i, spec := range l.Slots {
		distances[i] = spec.Distances
		sizes[i] = spec.Size
	}
	return distances, sizes
}

func ParseLayout(data []byte) (Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return Layout{}, cfgErr
		}
		return Layout{}, &ConfigurationError{Reason: fmt.Sprintf("decode layout: %v", err)}
	}
	return layout, nil
}

func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout file: %w", err)
	}
	return ParseLayout(data)
}
