package holdem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionLabel_headsUp(t *testing.T) {
	a := assert.New(t)

	label, err := PositionLabel(2, 0, 0)
	a.NoError(err)
	a.Equal("BTN/SB", label)

	label, err = PositionLabel(2, 0, 1)
	a.NoError(err)
	a.Equal("BB", label)

	label, err = PositionLabel(2, 1, 0)
	a.NoError(err)
	a.Equal("BB", label)
}

func TestPositionLabel_fullRing(t *testing.T) {
	a := assert.New(t)

	want := []string{"BTN", "SB", "BB", "UTG", "UTG+1", "UTG+2", "MP", "HJ", "CO"}
	seen := make(map[string]bool)
	for seat := 0; seat < 9; seat++ {
		label, err := PositionLabel(9, 0, seat)
		a.NoError(err)
		a.Equal(want[seat], label)
		a.False(seen[label])
		seen[label] = true
	}

	// labels rotate with the button
	label, err := PositionLabel(9, 4, 4)
	a.NoError(err)
	a.Equal("BTN", label)

	label, err = PositionLabel(9, 4, 3)
	a.NoError(err)
	a.Equal("CO", label)
}

func TestPositionLabel_tableSizes(t *testing.T) {
	a := assert.New(t)

	for _, tc := range []struct {
		seatCount int
		want      []string
	}{
		{3, []string{"BTN", "SB", "BB"}},
		{4, []string{"BTN", "SB", "BB", "UTG"}},
		{5, []string{"BTN", "SB", "BB", "UTG", "CO"}},
		{6, []string{"BTN", "SB", "BB", "UTG", "MP", "CO"}},
		{7, []string{"BTN", "SB", "BB", "UTG", "UTG+1", "MP", "CO"}},
		{8, []string{"BTN", "SB", "BB", "UTG", "UTG+1", "UTG+2", "MP", "CO"}},
	} {
		for seat, want := range tc.want {
			label, err := PositionLabel(tc.seatCount, 0, seat)
			a.NoError(err)
			a.Equal(want, label, "seatCount=%d seat=%d", tc.seatCount, seat)
		}
	}
}

func TestPositionLabel_unsupportedSizes(t *testing.T) {
	a := assert.New(t)

	_, err := PositionLabel(1, 0, 0)
	a.Equal(ErrUnsupportedTableSize, err)

	_, err = PositionLabel(10, 0, 0)
	a.Equal(ErrUnsupportedTableSize, err)
}

func TestBlindIndexes(t *testing.T) {
	a := assert.New(t)

	// heads-up the button posts the small blind
	a.Equal(0, smallBlindIndex(2, 0))
	a.Equal(1, bigBlindIndex(2, 0))
	a.Equal(1, smallBlindIndex(2, 1))
	a.Equal(0, bigBlindIndex(2, 1))

	a.Equal(1, smallBlindIndex(3, 0))
	a.Equal(2, bigBlindIndex(3, 0))

	// wrap around the table
	a.Equal(0, smallBlindIndex(3, 2))
	a.Equal(1, bigBlindIndex(3, 2))
	a.Equal(0, bigBlindIndex(4, 2))
}
