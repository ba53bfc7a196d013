package session

import (
	"context"
	"fmt"
	"sync"

	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

// API é o recorte do cliente HTTP que o tracker precisa.
type API interface {
	GetUser(ctx context.Context, userID int64, username string) (*capi.User, error)
}

// Surface é qualquer ponto da interface que exibe o saldo corrente.
// Todas as surfaces registradas são atualizadas na mesma chamada;
// atualização parcial é defeito.
type Surface interface {
	ShowBalance(balance float64)
}

// Tracker guarda a sessão do usuário autenticado. O saldo nunca é
// derivado localmente: só entra aqui valor devolvido pelo servidor.
type Tracker struct {
	api      API
	userID   int64
	username string

	mu       sync.Mutex
	balance  float64
	profile  capi.User
	surfaces []Surface
}

func New(api API, userID int64, username string) *Tracker {
	return &Tracker{api: api, userID: userID, username: username}
}

func (t *Tracker) UserID() int64 { return t.userID }

// Register adiciona surfaces de exibição de saldo. Surfaces registradas
// após o load recebem o valor corrente imediatamente.
func (t *Tracker) Register(surfaces ...Surface) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.surfaces = append(t.surfaces, surfaces...)
	for _, s := range surfaces {
		s.ShowBalance(t.balance)
	}
}

// Load busca o perfil no colaborador e substitui o estado da sessão.
func (t *Tracker) Load(ctx context.Context) (capi.User, error) {
	user, err := t.api.GetUser(ctx, t.userID, t.username)
	if err != nil {
		return capi.User{}, fmt.Errorf("load session: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.profile = *user
	t.balance = user.Balance
	t.refreshLocked()
	return t.profile, nil
}

// ApplyBalance sobrescreve o saldo com o valor autoritativo do servidor
// e atualiza todas as surfaces antes de retornar.
func (t *Tracker) ApplyBalance(newBalance float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balance = newBalance
	t.profile.Balance = newBalance
	t.refreshLocked()
}

func (t *Tracker) Balance() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balance
}

func (t *Tracker) Profile() capi.User {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.profile
}

// refreshLocked propaga o saldo corrente para todas as surfaces.
// Chamado sob o mutex para que nenhuma atualização intercale outra.
func (t *Tracker) refreshLocked() {
	for _, s := range t.surfaces {
		s.ShowBalance(t.balance)
	}
}
