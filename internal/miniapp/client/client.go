package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

// Client fala o contrato JSON/HTTP do serviço colaborador.
// Uma chamada por ação do usuário, sem retry e sem batching; o timeout
// do transporte garante que nenhuma requisição pendurada prenda a UI.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// APIError representa uma resposta não-2xx do colaborador.
// Detail, quando presente, é exibido literalmente ao usuário.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed (status %d)", e.Status)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in any, out any) error {
	body, _ := json.Marshal(in)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var er capi.ErrorResponse
		_ = json.NewDecoder(res.Body).Decode(&er)
		return &APIError{Status: res.StatusCode, Detail: er.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetUser busca saldo e contadores do perfil, criando o usuário no
// primeiro acesso.
func (c *Client) GetUser(ctx context.Context, userID int64, username string) (*capi.User, error) {
	var out capi.User
	path := fmt.Sprintf("/api/user/%d?username=%s", userID, username)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &out, nil
}

// ListEvents devolve o catálogo de eventos abertos, uma vez por visita.
func (c *Client) ListEvents(ctx context.Context) ([]capi.Event, error) {
	var out capi.EventsResponse
	if err := c.get(ctx, "/api/events", &out); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out.Events, nil
}

// ListBets devolve as apostas do usuário na ordem do servidor.
func (c *Client) ListBets(ctx context.Context, userID int64) ([]capi.Bet, error) {
	var out capi.BetsResponse
	if err := c.get(ctx, fmt.Sprintf("/api/bets/%d", userID), &out); err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}
	return out.Bets, nil
}

// PlaceBet registra uma aposta de evento.
func (c *Client) PlaceBet(ctx context.Context, req capi.PlaceBetRequest) (*capi.PlaceBetResponse, error) {
	var out capi.PlaceBetResponse
	if err := c.post(ctx, "/api/bet", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QuickBet joga uma rodada de jogo rápido, resolvida em um round trip.
func (c *Client) QuickBet(ctx context.Context, req capi.QuickBetRequest) (*capi.QuickBetResponse, error) {
	var out capi.QuickBetResponse
	if err := c.post(ctx, "/api/quick-bet", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Cashout liquida antecipadamente uma aposta pendente pelo valor
// calculado no servidor.
func (c *Client) Cashout(ctx context.Context, req capi.CashoutRequest) (*capi.CashoutResponse, error) {
	var out capi.CashoutResponse
	if err := c.post(ctx, "/api/cashout", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Leaderboard devolve o ranking já ordenado pelo servidor.
func (c *Client) Leaderboard(ctx context.Context) ([]capi.LeaderboardEntry, error) {
	var out capi.LeaderboardResponse
	if err := c.get(ctx, "/api/leaderboard", &out); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return out.Leaderboard, nil
}
