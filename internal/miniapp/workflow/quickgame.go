package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

// Tempo que o resultado de uma rodada fica visível antes de sumir.
const resultDisplayFor = 3500 * time.Millisecond

// QuickAPI é o recorte do cliente HTTP usado pelos jogos rápidos.
type QuickAPI interface {
	QuickBet(ctx context.Context, req capi.QuickBetRequest) (*capi.QuickBetResponse, error)
}

// ResultPresenter exibe e limpa o resultado transiente de cada jogo.
type ResultPresenter interface {
	ShowResult(game string, text string, win bool)
	ClearResult(game string)
}

// slot é o estado de um jogo: pick corrente, guarda de requisição em
// voo e o timer de limpeza do resultado. Cada jogo tem o seu; reiniciar
// o timer de um jogo nunca cancela o de outro.
type slot struct {
	pick     string
	inFlight bool
	timer    *time.Timer
}

// QuickGames gerencia os três jogos de resolução imediata. Os picks
// persistem entre rodadas: repetir a mesma jogada é intencional.
type QuickGames struct {
	api     QuickAPI
	sess    Session
	notify  Notifier
	present ResultPresenter
	log     *zap.Logger

	displayFor time.Duration

	mu    sync.Mutex
	slots map[string]*slot
}

func NewQuickGames(api QuickAPI, sess Session, notify Notifier, present ResultPresenter, log *zap.Logger) *QuickGames {
	return &QuickGames{
		api:        api,
		sess:       sess,
		notify:     notify,
		present:    present,
		log:        log,
		displayFor: resultDisplayFor,
		slots: map[string]*slot{
			capi.GameCoinflip: {},
			capi.GameDice:     {},
			capi.GameRoulette: {},
		},
	}
}

// SelectPick registra o pick do jogo. Não é limpo após a rodada.
func (q *QuickGames) SelectPick(game, pick string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	sl, ok := q.slots[game]
	if !ok {
		return ErrUnknownGame
	}
	sl.pick = pick
	return nil
}

// Pick devolve o pick corrente do jogo, se houver.
func (q *QuickGames) Pick(game string) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	sl, ok := q.slots[game]
	if !ok || sl.pick == "" {
		return "", false
	}
	return sl.pick, true
}

// Play valida localmente e joga uma rodada. Em falha de rede ou do
// servidor nada muda: saldo e pick ficam como estavam e o usuário pode
// tentar de novo na hora.
func (q *QuickGames) Play(ctx context.Context, game string, amount float64) error {
	q.mu.Lock()
	sl, ok := q.slots[game]
	if !ok {
		q.mu.Unlock()
		q.notify.Error(ErrUnknownGame.Error())
		return ErrUnknownGame
	}
	if sl.inFlight {
		q.mu.Unlock()
		q.notify.Error(ErrSubmitInFlight.Error())
		return ErrSubmitInFlight
	}
	if sl.pick == "" {
		q.mu.Unlock()
		q.notify.Error(ErrNoSelection.Error())
		return ErrNoSelection
	}
	if amount < capi.MinStake {
		q.mu.Unlock()
		q.notify.Error(ErrMinimumStake.Error())
		return ErrMinimumStake
	}
	if amount > q.sess.Balance() {
		q.mu.Unlock()
		q.notify.Error(ErrInsufficientBalance.Error())
		return ErrInsufficientBalance
	}

	pick := sl.pick
	sl.inFlight = true
	q.mu.Unlock()

	res, err := q.api.QuickBet(ctx, capi.QuickBetRequest{
		UserID: q.sess.UserID(),
		Game:   game,
		Pick:   pick,
		Amount: amount,
	})

	q.mu.Lock()
	defer q.mu.Unlock()
	sl.inFlight = false

	if err != nil {
		q.log.Warn("quick bet failed", zap.String("game", game), zap.Error(err))
		q.notify.Error(err.Error())
		return err
	}

	q.sess.ApplyBalance(res.NewBalance)
	q.present.ShowResult(game, resultText(game, res), res.Win)

	// Reinicia só o timer deste jogo; os demais continuam correndo.
	if sl.timer != nil {
		sl.timer.Stop()
	}
	sl.timer = time.AfterFunc(q.displayFor, func() {
		q.present.ClearResult(game)
	})
	return nil
}

// resultText monta o rótulo do resultado da rodada.
func resultText(game string, res *capi.QuickBetResponse) string {
	var text string
	switch game {
	case capi.GameCoinflip:
		if res.Result == "heads" {
			text = "👑 Heads"
		} else {
			text = "🔢 Tails"
		}
	case capi.GameDice:
		text = "🎲 Rolled: " + res.Result
	default:
		text = "🎡 Number: " + res.Result
	}

	if res.Win {
		return fmt.Sprintf("%s — Win! +%.2f🪙", text, res.Winnings)
	}
	return text + " — Miss 😔"
}
