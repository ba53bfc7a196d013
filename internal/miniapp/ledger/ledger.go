package ledger

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

// Cashout só é oferecido para apostas pendentes; o resto é somente leitura.
var ErrNotPending = errors.New("only pending bets can be cashed out")

// API é o recorte do cliente HTTP usado pelo ledger.
type API interface {
	ListBets(ctx context.Context, userID int64) ([]capi.Bet, error)
	Cashout(ctx context.Context, req capi.CashoutRequest) (*capi.CashoutResponse, error)
}

// Session é o recorte do tracker que o ledger usa.
type Session interface {
	UserID() int64
	ApplyBalance(newBalance float64)
}

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Ledger renderiza a lista de apostas do servidor, na ordem do servidor.
// O cliente nunca constrói nem remenda registros: depois de um cashout
// a lista inteira é rebuscada, porque a valoração pós-cashout é regra
// opaca do colaborador.
type Ledger struct {
	api    API
	sess   Session
	notify Notifier
	log    *zap.Logger

	bets []capi.Bet
}

func New(api API, sess Session, notify Notifier, log *zap.Logger) *Ledger {
	return &Ledger{api: api, sess: sess, notify: notify, log: log}
}

// Refresh rebusca a lista completa de apostas.
func (l *Ledger) Refresh(ctx context.Context) error {
	bets, err := l.api.ListBets(ctx, l.sess.UserID())
	if err != nil {
		return fmt.Errorf("refresh ledger: %w", err)
	}
	l.bets = bets
	return nil
}

// Bets devolve o snapshot corrente; vazio renderiza estado vazio
// explícito, nunca área em branco.
func (l *Ledger) Bets() []capi.Bet { return l.bets }

// Cashout liquida uma aposta pendente pelo valor do servidor, aplica o
// novo saldo e rebusca o ledger.
func (l *Ledger) Cashout(ctx context.Context, betID string) error {
	var target *capi.Bet
	for i := range l.bets {
		if l.bets[i].ID == betID {
			target = &l.bets[i]
			break
		}
	}
	if target == nil {
		l.notify.Error("bet not found")
		return fmt.Errorf("cashout: bet %s not found", betID)
	}
	if target.Result != capi.ResultPending {
		l.notify.Error(ErrNotPending.Error())
		return ErrNotPending
	}

	res, err := l.api.Cashout(ctx, capi.CashoutRequest{UserID: l.sess.UserID(), BetID: betID})
	if err != nil {
		l.log.Warn("cashout failed", zap.String("bet_id", betID), zap.Error(err))
		l.notify.Error(err.Error())
		return err
	}

	l.sess.ApplyBalance(res.NewBalance)
	l.notify.Success(fmt.Sprintf("Cashed out +%.2f🪙", res.Cashout.CashoutAmount))

	if err := l.Refresh(ctx); err != nil {
		// O saldo já está certo; só a lista ficou defasada.
		l.log.Warn("ledger refresh after cashout failed", zap.Error(err))
		return err
	}
	return nil
}
