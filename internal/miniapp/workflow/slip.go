package workflow

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

// SlipAPI é o recorte do cliente HTTP usado pelo fluxo de slip.
type SlipAPI interface {
	PlaceBet(ctx context.Context, req capi.PlaceBetRequest) (*capi.PlaceBetResponse, error)
}

type SlipState int

const (
	SlipIdle SlipState = iota
	SlipStaged
	SlipSubmitting
)

// Stage captura o contexto completo do pick selecionado. É a única
// fonte de verdade na confirmação, inclusive a odd numérica usada na
// projeção de ganho.
type Stage struct {
	EventID   string
	Title     string
	Pick      string
	PickLabel string
	Odds      float64
}

// Slip é a máquina de estados da aposta de evento:
// Idle → Staged → Submitting → (Idle | Staged com erro).
// Só existe um slip por vez; selecionar outro resultado substitui o
// anterior em silêncio (last-selection-wins).
type Slip struct {
	api    SlipAPI
	sess   Session
	notify Notifier
	log    *zap.Logger

	mu     sync.Mutex
	state  SlipState
	staged Stage
}

func NewSlip(api SlipAPI, sess Session, notify Notifier, log *zap.Logger) *Slip {
	return &Slip{api: api, sess: sess, notify: notify, log: log}
}

// SelectOutcome estagia um pick, sobrescrevendo qualquer slip anterior.
func (s *Slip) SelectOutcome(eventID, title, pick, pickLabel string, odds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SlipSubmitting {
		// Uma confirmação em andamento não pode ser atropelada.
		s.notify.Error(ErrSubmitInFlight.Error())
		return
	}
	s.staged = Stage{EventID: eventID, Title: title, Pick: pick, PickLabel: pickLabel, Odds: odds}
	s.state = SlipStaged
}

// Staged devolve o slip corrente, se houver.
func (s *Slip) Staged() (Stage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged, s.state != SlipIdle
}

func (s *Slip) State() SlipState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ProjectWinnings recalcula o ganho projetado a cada mudança do campo
// de valor: amount × odd estagiada. Entrada inválida ou vazia projeta 0;
// nunca falha nem bloqueia a digitação.
func (s *Slip) ProjectWinnings(raw string) float64 {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || amount < 0 {
		amount = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SlipIdle {
		return 0
	}
	return amount * s.staged.Odds
}

// Confirm valida localmente e, só então, envia a aposta. Falha local
// não gera chamada de rede. Falha de rede ou do servidor mantém o slip
// estagiado para ajuste e nova tentativa.
func (s *Slip) Confirm(ctx context.Context, amount float64) error {
	s.mu.Lock()
	if s.state == SlipSubmitting {
		s.mu.Unlock()
		s.notify.Error(ErrSubmitInFlight.Error())
		return ErrSubmitInFlight
	}
	if s.state == SlipIdle {
		s.mu.Unlock()
		s.notify.Error(ErrNothingStaged.Error())
		return ErrNothingStaged
	}
	if amount < capi.MinStake {
		s.mu.Unlock()
		s.notify.Error(ErrMinimumStake.Error())
		return ErrMinimumStake
	}
	if amount > s.sess.Balance() {
		s.mu.Unlock()
		s.notify.Error(ErrInsufficientBalance.Error())
		return ErrInsufficientBalance
	}

	stage := s.staged
	s.state = SlipSubmitting
	s.mu.Unlock()

	res, err := s.api.PlaceBet(ctx, capi.PlaceBetRequest{
		UserID:     s.sess.UserID(),
		EventID:    stage.EventID,
		EventTitle: stage.Title,
		Pick:       stage.Pick,
		PickLabel:  stage.PickLabel,
		Odds:       stage.Odds,
		Amount:     amount,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		// O slip fica aberto; a mensagem do servidor vai literal pro usuário.
		s.state = SlipStaged
		s.log.Warn("place bet failed", zap.String("event_id", stage.EventID), zap.Error(err))
		s.notify.Error(err.Error())
		return err
	}

	s.sess.ApplyBalance(res.NewBalance)
	s.staged = Stage{}
	s.state = SlipIdle
	s.notify.Success("Bet accepted! ✅")
	return nil
}

// Cancel descarta o slip incondicionalmente, sem chamada de rede.
func (s *Slip) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SlipSubmitting {
		return
	}
	s.staged = Stage{}
	s.state = SlipIdle
}
