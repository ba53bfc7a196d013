package games

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

// Multiplicadores de payout dos jogos rápidos, iguais aos do
// colaborador de referência.
const (
	coinflipPayout  = 1.95
	diceRangePayout = 1.95
	diceExactPayout = 5.5
	colorPayout     = 2.0
	greenPayout     = 35.0
)

// Fator da oferta de cashout sobre o ganho potencial. Regra interna do
// simulador; o cliente nunca a conhece.
const cashoutFactor = 0.5

var (
	rouletteRed = map[int]struct{}{
		1: {}, 3: {}, 5: {}, 7: {}, 9: {}, 12: {}, 14: {}, 16: {}, 18: {},
		19: {}, 21: {}, 23: {}, 25: {}, 27: {}, 30: {}, 32: {}, 34: {}, 36: {},
	}
	rouletteBlack = map[int]struct{}{
		2: {}, 4: {}, 6: {}, 8: {}, 10: {}, 11: {}, 13: {}, 15: {}, 17: {},
		20: {}, 22: {}, 24: {}, 26: {}, 28: {}, 29: {}, 31: {}, 33: {}, 35: {},
	}
)

// Outcome é o resultado resolvido de uma rodada.
type Outcome struct {
	Result   string
	Win      bool
	Winnings float64
}

// Resolver sorteia e resolve rodadas de jogo rápido.
type Resolver struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewResolver(seed int64) *Resolver {
	return &Resolver{rnd: rand.New(rand.NewSource(seed))}
}

// Play sorteia o resultado do jogo e aplica a regra de payout.
func (r *Resolver) Play(game, pick string, amount float64) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch game {
	case capi.GameCoinflip:
		flip := "heads"
		if r.rnd.Intn(2) == 1 {
			flip = "tails"
		}
		return resolveCoinflip(pick, flip, amount), nil
	case capi.GameDice:
		return resolveDice(pick, 1+r.rnd.Intn(6), amount), nil
	case capi.GameRoulette:
		return resolveRoulette(pick, r.rnd.Intn(37), amount), nil
	default:
		return Outcome{}, fmt.Errorf("unknown game %q", game)
	}
}

func resolveCoinflip(pick, flip string, amount float64) Outcome {
	out := Outcome{Result: flip}
	if pick == flip {
		out.Win = true
		out.Winnings = round2(amount * coinflipPayout)
	}
	return out
}

// resolveDice aceita pick por faixa ("low" 1-3, "high" 4-6) ou número
// exato "1".."6", com payouts distintos.
func resolveDice(pick string, value int, amount float64) Outcome {
	out := Outcome{Result: fmt.Sprintf("%d", value)}
	switch pick {
	case "low":
		if value <= 3 {
			out.Win = true
			out.Winnings = round2(amount * diceRangePayout)
		}
	case "high":
		if value >= 4 {
			out.Win = true
			out.Winnings = round2(amount * diceRangePayout)
		}
	default:
		if pick == out.Result {
			out.Win = true
			out.Winnings = round2(amount * diceExactPayout)
		}
	}
	return out
}

func resolveRoulette(pick string, number int, amount float64) Outcome {
	out := Outcome{Result: fmt.Sprintf("%d", number)}
	switch pick {
	case "red":
		if _, ok := rouletteRed[number]; ok {
			out.Win = true
			out.Winnings = round2(amount * colorPayout)
		}
	case "black":
		if _, ok := rouletteBlack[number]; ok {
			out.Win = true
			out.Winnings = round2(amount * colorPayout)
		}
	case "green":
		if number == 0 {
			out.Win = true
			out.Winnings = round2(amount * greenPayout)
		}
	}
	return out
}

// CashoutOffer valora a liquidação antecipada de uma aposta pendente.
func CashoutOffer(amount, odds float64) float64 {
	return round2(amount * odds * cashoutFactor)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
