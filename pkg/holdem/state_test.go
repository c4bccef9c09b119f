package holdem

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHand_State(t *testing.T) {
	a := assert.New(t)

	h, err := New(3, testSeats(1000, 1000, 1000), 0, 10, 20, at)
	require.NoError(t, err)

	require.NoError(t, h.Raise("player-1", 40, at))
	require.NoError(t, h.Fold("player-2", at))

	state := h.State()
	a.Equal(3, state.Number)
	a.Equal(RoundPreflop, state.Round)
	a.Equal(StatusPlaying, state.Status)
	a.Equal(70, state.Pot)
	a.Equal(40, state.MaxBet)
	a.Empty(state.Community)
	a.Nil(state.Results)

	btn := state.Seats[0]
	a.Equal("BTN", btn.Position)
	a.Equal(960, btn.Chips)
	a.Equal(40, btn.Contributed)
	a.Equal(ActionRaise, btn.LastAction.Type)
	a.False(btn.Current)

	sb := state.Seats[1]
	a.True(sb.Folded)
	a.Equal(ActionFold, sb.LastAction.Type)

	bb := state.Seats[2]
	a.True(bb.Current)
	a.Equal(20, bb.Contributed)
	a.Equal(ActionBigBlind, bb.LastAction.Type)

	// hole cards never leak through the snapshot's JSON
	b, err := json.Marshal(state)
	require.NoError(t, err)
	a.NotContains(string(b), "holeCards")
}

func TestHand_jsonRoundTrip(t *testing.T) {
	a := assert.New(t)

	h, err := New(1, testSeats(100, 100, 100), 0, 1, 2, at)
	require.NoError(t, err)

	require.NoError(t, h.Call("player-1", at))
	require.NoError(t, h.Raise("player-2", 8, at))

	first, err := json.Marshal(h)
	require.NoError(t, err)

	var decoded Hand
	require.NoError(t, json.Unmarshal(first, &decoded))

	second, err := json.Marshal(&decoded)
	require.NoError(t, err)
	a.JSONEq(string(first), string(second))

	// the decoded hand keeps playing
	a.Equal(2, decoded.currentStreet().CurrentIndex)
	require.NoError(t, decoded.Call("player-3", at))
	require.NoError(t, decoded.Call("player-1", at))
	a.Equal(RoundFlop, decoded.currentStreet().Round)
}
