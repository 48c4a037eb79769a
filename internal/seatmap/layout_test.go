package seatmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDesignator(t *testing.T) {
	tests := []struct {
		in      string
		want    Seat
		wantErr bool
	}{
		{in: "12C", want: Seat{Row: 12, Column: "C"}},
		{in: " 1a ", want: Seat{Row: 1, Column: "A"}},
		{in: "24F", want: Seat{Row: 24, Column: "F"}},
		{in: "C12", wantErr: true},
		{in: "12", wantErr: true},
		{in: "A", wantErr: true},
		{in: "0A", wantErr: true},
		{in: "-1A", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDesignator(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()

	require.True(t, l.Contains(Seat{Row: 1, Column: "D"}))
	require.False(t, l.Contains(Seat{Row: 1, Column: "E"}), "business is 2-2")
	require.True(t, l.Contains(Seat{Row: 8, Column: "F"}))
	require.True(t, l.Contains(Seat{Row: 24, Column: "A"}))
	require.False(t, l.Contains(Seat{Row: 25, Column: "A"}))

	require.True(t, l.IsExitRow(4))
	require.True(t, l.IsExitRow(16))
	require.False(t, l.IsExitRow(5))

	s, ok := l.Section(6)
	require.True(t, ok)
	require.Equal(t, ClassEconomyPlus, s.Class)

	require.Len(t, l.Seats(), 4*4+4*6+16*6)
}

func TestDefaultInventory(t *testing.T) {
	inv := DefaultInventory()
	require.Equal(t, len(DefaultOccupied), inv.Len())
	require.True(t, inv.IsOccupied(Seat{Row: 5, Column: "A"}))
	require.False(t, inv.IsOccupied(Seat{Row: 12, Column: "C"}))
	require.Equal(t, DefaultOccupied, inv.Occupied())
}

func TestNewInventory_RejectsInvalid(t *testing.T) {
	_, err := NewInventory([]string{"1A", "ZZ", "3"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "ZZ")
	require.Contains(t, err.Error(), "3")
}

func TestNewInventory_RejectsSeatsOutsideCabin(t *testing.T) {
	_, err := NewInventory([]string{"1A", "99Z", "2E", "25A"})
	require.ErrorContains(t, err, "99Z")
	require.ErrorContains(t, err, "2E", "business rows have no E seat")
	require.ErrorContains(t, err, "25A")
	require.NotContains(t, err.Error(), "1A,")
}

func TestLoadInventoryFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("occupied:\n  - 12c\n  - 3A\n"), 0o600))

	inv, err := LoadInventoryFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"3A", "12C"}, inv.Occupied())

	_, err = LoadInventoryFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("occupied: [12C, 40A]\n"), 0o600))
	_, err = LoadInventoryFile(path)
	require.ErrorContains(t, err, "40A")

	require.NoError(t, os.WriteFile(path, []byte("occupied: [\n"), 0o600))
	_, err = LoadInventoryFile(path)
	require.Error(t, err)
}
