package seatmap

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultOccupied is the occupied set shown when no inventory is configured.
var DefaultOccupied = []string{
	"1A", "2B", "3C", "5A", "5F", "7B", "7E", "9A", "9F", "10C", "10D",
	"12A", "12F", "14B", "14E", "16A", "16F", "18C", "18D", "20A", "20F",
	"22B", "22E", "24A", "24F",
}

// Inventory is the set of seats that cannot be picked.
type Inventory struct {
	occupied map[Seat]struct{}
}

// NewInventory builds an inventory from designators. Malformed entries and
// seats outside the default cabin are reported together.
func NewInventory(occupied []string) (Inventory, error) {
	layout := DefaultLayout()
	inv := Inventory{occupied: make(map[Seat]struct{}, len(occupied))}
	var bad []string
	for _, d := range occupied {
		seat, err := ParseDesignator(d)
		if err != nil || !layout.Contains(seat) {
			bad = append(bad, d)
			continue
		}
		inv.occupied[seat] = struct{}{}
	}
	if len(bad) > 0 {
		return Inventory{}, fmt.Errorf("invalid occupied seats: %s", strings.Join(bad, ", "))
	}
	return inv, nil
}

// DefaultInventory returns the built-in occupied set.
func DefaultInventory() Inventory {
	inv, _ := NewInventory(DefaultOccupied)
	return inv
}

// IsOccupied reports whether seat is taken.
func (i Inventory) IsOccupied(seat Seat) bool {
	_, ok := i.occupied[seat]
	return ok
}

// Len returns the number of occupied seats.
func (i Inventory) Len() int {
	return len(i.occupied)
}

// Occupied returns the occupied designators in row/column order.
func (i Inventory) Occupied() []string {
	seats := make([]Seat, 0, len(i.occupied))
	for s := range i.occupied {
		seats = append(seats, s)
	}
	slices.SortFunc(seats, func(a, b Seat) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		return strings.Compare(a.Column, b.Column)
	})
	out := make([]string, len(seats))
	for n, s := range seats {
		out[n] = s.String()
	}
	return out
}

// inventoryFile is the on-disk YAML shape.
type inventoryFile struct {
	Occupied []string `yaml:"occupied"`
}

// LoadInventoryFile reads an inventory file of the form
//
//	occupied: [1A, 2B, 12F]
func LoadInventoryFile(path string) (Inventory, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user config
	if err != nil {
		return Inventory{}, fmt.Errorf("read inventory: %w", err)
	}
	var f inventoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Inventory{}, fmt.Errorf("parse inventory %s: %w", path, err)
	}
	return NewInventory(f.Occupied)
}
