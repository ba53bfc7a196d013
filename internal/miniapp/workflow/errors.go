package workflow

import "errors"

// Falhas de validação local. Nenhuma delas gera chamada de rede:
// a requisição só sai depois que todas passam.
var (
	ErrMinimumStake        = errors.New("minimum stake is 10 coins")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoSelection         = errors.New("pick an outcome first")
	ErrNothingStaged       = errors.New("no outcome staged")
	ErrSubmitInFlight      = errors.New("previous request still in flight")
	ErrUnknownGame         = errors.New("unknown quick game")
)

// Notifier recebe as notificações transientes (toasts) dos fluxos.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Session é o recorte do tracker de sessão que os fluxos usam:
// leitura do saldo conhecido e aplicação do saldo devolvido pelo servidor.
type Session interface {
	UserID() int64
	Balance() float64
	ApplyBalance(newBalance float64)
}
