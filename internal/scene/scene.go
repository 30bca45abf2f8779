// Package scene provides named charge layouts, a noise-driven generator and
// JSON persistence for charge sets.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/olivierh59500/gauss-field/internal/field"
)

// ErrUnknownPreset is returned for a preset name that is not registered.
var ErrUnknownPreset = errors.New("unknown preset")

// Scene is the on-disk form of a charge set.
type Scene struct {
	Name    string          `json:"name"`
	Charges field.ChargeSet `json:"charges"`
}

var presets = map[string]field.ChargeSet{
	"single": {
		{Pos: field.Vec2{X: 0, Y: 0}, Strength: 60},
	},
	"like-pair": {
		{Pos: field.Vec2{X: -60, Y: 0}, Strength: -60},
		{Pos: field.Vec2{X: 60, Y: 0}, Strength: -60},
	},
	"dipole": {
		{Pos: field.Vec2{X: -60, Y: 0}, Strength: 60},
		{Pos: field.Vec2{X: 60, Y: 0}, Strength: -60},
	},
	"triple": {
		{Pos: field.Vec2{X: -60, Y: 0}, Strength: -20},
		{Pos: field.Vec2{X: 60, Y: 0}, Strength: -20},
		{Pos: field.Vec2{X: 0, Y: 60}, Strength: 20},
	},
}

// DefaultPreset is the layout used when nothing else is configured.
const DefaultPreset = "like-pair"

// Presets lists the registered preset names in order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh copy of the named layout.
func Preset(name string) (field.ChargeSet, error) {
	cs, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownPreset, name, Presets())
	}
	return cs.Clone(), nil
}

// Load reads a scene written by Save.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scene %s: %w", path, err)
	}
	return &s, nil
}

// Save writes s as indented JSON.
func Save(path string, s *Scene) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
