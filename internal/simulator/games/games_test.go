package games

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

func TestResolveCoinflip(t *testing.T) {
	out := resolveCoinflip("heads", "heads", 20)
	assert.True(t, out.Win)
	assert.Equal(t, 39.0, out.Winnings)
	assert.Equal(t, "heads", out.Result)

	out = resolveCoinflip("heads", "tails", 20)
	assert.False(t, out.Win)
	assert.Equal(t, 0.0, out.Winnings)
}

func TestResolveDice_Ranges(t *testing.T) {
	for v := 1; v <= 3; v++ {
		assert.True(t, resolveDice("low", v, 10).Win, "low cobre %d", v)
		assert.False(t, resolveDice("high", v, 10).Win)
	}
	for v := 4; v <= 6; v++ {
		assert.True(t, resolveDice("high", v, 10).Win, "high cobre %d", v)
		assert.False(t, resolveDice("low", v, 10).Win)
	}
	assert.Equal(t, 19.5, resolveDice("low", 2, 10).Winnings)
}

func TestResolveDice_ExactNumber(t *testing.T) {
	out := resolveDice("4", 4, 10)
	assert.True(t, out.Win)
	assert.Equal(t, 55.0, out.Winnings)

	out = resolveDice("4", 3, 10)
	assert.False(t, out.Win)
	assert.Equal(t, "3", out.Result)
}

func TestResolveRoulette_Colors(t *testing.T) {
	// Amostras de cada conjunto, mais o zero que só o green paga.
	assert.True(t, resolveRoulette("red", 1, 10).Win)
	assert.True(t, resolveRoulette("red", 36, 10).Win)
	assert.False(t, resolveRoulette("red", 2, 10).Win)
	assert.False(t, resolveRoulette("red", 0, 10).Win)

	assert.True(t, resolveRoulette("black", 2, 10).Win)
	assert.True(t, resolveRoulette("black", 35, 10).Win)
	assert.False(t, resolveRoulette("black", 0, 10).Win)

	assert.Equal(t, 20.0, resolveRoulette("black", 17, 10).Winnings)
	green := resolveRoulette("green", 0, 10)
	assert.True(t, green.Win)
	assert.Equal(t, 350.0, green.Winnings)
	assert.False(t, resolveRoulette("green", 5, 10).Win)
}

func TestRouletteSets_PartitionWheel(t *testing.T) {
	assert.Len(t, rouletteRed, 18)
	assert.Len(t, rouletteBlack, 18)
	for n := 1; n <= 36; n++ {
		_, red := rouletteRed[n]
		_, black := rouletteBlack[n]
		assert.True(t, red != black, "número %d precisa ter exatamente uma cor", n)
	}
}

func TestCashoutOffer(t *testing.T) {
	assert.Equal(t, 25.0, CashoutOffer(20, 2.5))
	assert.Equal(t, 10.5, CashoutOffer(10, 2.1))
	assert.Equal(t, 17.34, CashoutOffer(10.2, 3.4))
}

func TestResolver_Play(t *testing.T) {
	r := NewResolver(1)

	_, err := r.Play("slots", "7", 10)
	require.Error(t, err)

	for i := 0; i < 50; i++ {
		out, err := r.Play(capi.GameCoinflip, "heads", 10)
		require.NoError(t, err)
		assert.Contains(t, []string{"heads", "tails"}, out.Result)

		out, err = r.Play(capi.GameDice, "low", 10)
		require.NoError(t, err)
		v, convErr := strconv.Atoi(out.Result)
		require.NoError(t, convErr)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)

		out, err = r.Play(capi.GameRoulette, "red", 10)
		require.NoError(t, err)
		v, convErr = strconv.Atoi(out.Result)
		require.NoError(t, convErr)
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 36)
	}
}
