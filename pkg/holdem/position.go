package holdem

// positionsBySeatCount maps a table size to position labels indexed by the
// seat's offset from the button
var positionsBySeatCount = map[int][]string{
	2: {"BTN/SB", "BB"},
	3: {"BTN", "SB", "BB"},
	4: {"BTN", "SB", "BB", "UTG"},
	5: {"BTN", "SB", "BB", "UTG", "CO"},
	6: {"BTN", "SB", "BB", "UTG", "MP", "CO"},
	7: {"BTN", "SB", "BB", "UTG", "UTG+1", "MP", "CO"},
	8: {"BTN", "SB", "BB", "UTG", "UTG+1", "UTG+2", "MP", "CO"},
	9: {"BTN", "SB", "BB", "UTG", "UTG+1", "UTG+2", "MP", "HJ", "CO"},
}

// PositionLabel returns the poker position of a seat relative to the button.
// Heads-up the button also posts the small blind, so it is labeled "BTN/SB".
func PositionLabel(seatCount, button, seat int) (string, error) {
	labels, ok := positionsBySeatCount[seatCount]
	if !ok {
		return "", ErrUnsupportedTableSize
	}

	return labels[(seat-button+seatCount)%seatCount], nil
}

// smallBlindIndex returns the seat posting the small blind.
// Heads-up the button posts it.
func smallBlindIndex(seatCount, button int) int {
	if seatCount == 2 {
		return button
	}

	return (button + 1) % seatCount
}

// bigBlindIndex returns the seat posting the big blind
func bigBlindIndex(seatCount, button int) int {
	if seatCount == 2 {
		return (button + 1) % seatCount
	}

	return (button + 2) % seatCount
}
