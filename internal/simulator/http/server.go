package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ovchar/miniapp-bet-client/internal/simulator/cache"
	"github.com/ovchar/miniapp-bet-client/internal/simulator/games"
	"github.com/ovchar/miniapp-bet-client/internal/simulator/repo"
	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
	"github.com/ovchar/miniapp-bet-client/pkg/contracts/events"
)

const (
	listLimit   = 20
	eventsTTL   = 30 * time.Second
	detailMin   = "Minimum stake is 10 coins"
	detailFunds = "Insufficient balance"
)

// Métricas registradas no main do simulador.
var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulator_requests_total",
		Help: "Requisições por operação e desfecho",
	}, []string{"op", "outcome"})
	WagersAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulator_wagers_accepted_total",
		Help: "Apostas de evento aceitas",
	})
	QuickRounds = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulator_quick_rounds_total",
		Help: "Rodadas de jogo rápido resolvidas",
	})
)

// Repo define as operações de persistência usadas pelos handlers.
type Repo interface {
	GetOrCreateUser(ctx context.Context, userID int64, username string) (capi.User, error)
	ListOpenEvents(ctx context.Context) ([]capi.Event, error)
	ListBets(ctx context.Context, userID int64, limit int) ([]capi.Bet, error)
	PlaceBet(ctx context.Context, req capi.PlaceBetRequest) (capi.Bet, float64, error)
	SettleQuick(ctx context.Context, userID int64, stake, winnings float64, win bool) (float64, error)
	Cashout(ctx context.Context, userID int64, betID string, value func(amount, odds float64) float64) (offer, newBalance float64, err error)
	Leaderboard(ctx context.Context, limit int) ([]capi.LeaderboardEntry, error)
}

// Publisher emite eventos de aposta no broker, best-effort.
type Publisher interface {
	PublishWagerPlaced(ctx context.Context, e events.WagerPlaced) error
	PublishWagerSettled(ctx context.Context, e events.WagerSettled) error
}

// Server implementa o contrato JSON/HTTP do colaborador para
// desenvolvimento local do cliente.
type Server struct {
	log   *zap.Logger
	repo  Repo
	cache *cache.EventsCache // opcional; nil desliga o cache
	games *games.Resolver
	publ  Publisher
}

func NewServer(log *zap.Logger, r Repo, c *cache.EventsCache, g *games.Resolver, p Publisher) *Server {
	return &Server{log: log, repo: r, cache: c, games: g, publ: p}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(withCORS)
	r.Get("/api/user/{userID}", s.getUser)
	r.Get("/api/events", s.listEvents)
	r.Get("/api/bets/{userID}", s.listBets)
	r.Post("/api/bet", s.placeBet)
	r.Post("/api/quick-bet", s.quickBet)
	r.Post("/api/cashout", s.cashout)
	r.Get("/api/leaderboard", s.leaderboard)
	return r
}

// withCORS libera o contrato para o webapp, como o colaborador original.
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail envia o envelope de erro do contrato; o cliente exibe
// detail literalmente.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, capi.ErrorResponse{Detail: detail})
}

func pathUserID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	return id, err == nil
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid user id")
		return
	}
	username := r.URL.Query().Get("username")

	user, err := s.repo.GetOrCreateUser(r.Context(), id, username)
	if err != nil {
		RequestsTotal.WithLabelValues("get_user", "error").Inc()
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	RequestsTotal.WithLabelValues("get_user", "ok").Inc()
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	if s.cache != nil {
		if ev, hit, err := s.cache.Get(r.Context()); err == nil && hit {
			RequestsTotal.WithLabelValues("list_events", "cache_hit").Inc()
			writeJSON(w, http.StatusOK, capi.EventsResponse{Events: ev})
			return
		}
	}

	ev, err := s.repo.ListOpenEvents(r.Context())
	if err != nil {
		RequestsTotal.WithLabelValues("list_events", "error").Inc()
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ev == nil {
		ev = []capi.Event{}
	}
	if s.cache != nil {
		_ = s.cache.Set(r.Context(), ev, eventsTTL)
	}
	RequestsTotal.WithLabelValues("list_events", "ok").Inc()
	writeJSON(w, http.StatusOK, capi.EventsResponse{Events: ev})
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid user id")
		return
	}
	bets, err := s.repo.ListBets(r.Context(), id, listLimit)
	if err != nil {
		RequestsTotal.WithLabelValues("list_bets", "error").Inc()
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if bets == nil {
		bets = []capi.Bet{}
	}
	RequestsTotal.WithLabelValues("list_bets", "ok").Inc()
	writeJSON(w, http.StatusOK, capi.BetsResponse{Bets: bets})
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req capi.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == 0 || req.EventID == "" || req.Pick == "" || req.Odds <= 0 || req.Amount <= 0 {
		writeDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Amount < capi.MinStake {
		RequestsTotal.WithLabelValues("place_bet", "rejected").Inc()
		writeDetail(w, http.StatusBadRequest, detailMin)
		return
	}

	bet, newBalance, err := s.repo.PlaceBet(r.Context(), req)
	switch {
	case err == repo.ErrInsufficientFunds:
		RequestsTotal.WithLabelValues("place_bet", "rejected").Inc()
		writeDetail(w, http.StatusBadRequest, detailFunds)
		return
	case err == repo.ErrNotFound:
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		RequestsTotal.WithLabelValues("place_bet", "error").Inc()
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = s.publ.PublishWagerPlaced(r.Context(), events.WagerPlaced{
		BetID:      bet.ID,
		UserID:     req.UserID,
		EventID:    req.EventID,
		Pick:       req.Pick,
		Odds:       req.Odds,
		Amount:     req.Amount,
		NewBalance: newBalance,
	})

	RequestsTotal.WithLabelValues("place_bet", "ok").Inc()
	WagersAccepted.Inc()
	writeJSON(w, http.StatusOK, capi.PlaceBetResponse{Bet: &bet, NewBalance: newBalance})
}

func (s *Server) quickBet(w http.ResponseWriter, r *http.Request) {
	var req capi.QuickBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == 0 || req.Game == "" || req.Pick == "" || req.Amount <= 0 {
		writeDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Amount < capi.MinStake {
		RequestsTotal.WithLabelValues("quick_bet", "rejected").Inc()
		writeDetail(w, http.StatusBadRequest, detailMin)
		return
	}

	outcome, err := s.games.Play(req.Game, req.Pick, req.Amount)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	newBalance, err := s.repo.SettleQuick(r.Context(), req.UserID, req.Amount, outcome.Winnings, outcome.Win)
	switch {
	case err == repo.ErrInsufficientFunds:
		RequestsTotal.WithLabelValues("quick_bet", "rejected").Inc()
		writeDetail(w, http.StatusBadRequest, detailFunds)
		return
	case err == repo.ErrNotFound:
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		RequestsTotal.WithLabelValues("quick_bet", "error").Inc()
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = s.publ.PublishWagerSettled(r.Context(), events.WagerSettled{
		UserID:     req.UserID,
		Kind:       "quick_bet",
		Game:       req.Game,
		Pick:       req.Pick,
		Result:     outcome.Result,
		Win:        outcome.Win,
		Payout:     outcome.Winnings,
		NewBalance: newBalance,
	})

	RequestsTotal.WithLabelValues("quick_bet", "ok").Inc()
	QuickRounds.Inc()
	writeJSON(w, http.StatusOK, capi.QuickBetResponse{
		Game:       req.Game,
		Pick:       req.Pick,
		Result:     outcome.Result,
		Win:        outcome.Win,
		Winnings:   outcome.Winnings,
		NewBalance: newBalance,
	})
}

func (s *Server) cashout(w http.ResponseWriter, r *http.Request) {
	var req capi.CashoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == 0 || req.BetID == "" {
		writeDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}

	offer, newBalance, err := s.repo.Cashout(r.Context(), req.UserID, req.BetID, games.CashoutOffer)
	switch {
	case err == repo.ErrNotFound:
		RequestsTotal.WithLabelValues("cashout", "rejected").Inc()
		writeDetail(w, http.StatusNotFound, "Bet not found")
		return
	case err == repo.ErrNotPending:
		RequestsTotal.WithLabelValues("cashout", "rejected").Inc()
		writeDetail(w, http.StatusConflict, "Bet is not pending")
		return
	case err != nil:
		RequestsTotal.WithLabelValues("cashout", "error").Inc()
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = s.publ.PublishWagerSettled(r.Context(), events.WagerSettled{
		UserID:     req.UserID,
		Kind:       "cashout",
		Win:        true,
		Payout:     offer,
		NewBalance: newBalance,
	})

	RequestsTotal.WithLabelValues("cashout", "ok").Inc()
	writeJSON(w, http.StatusOK, capi.CashoutResponse{
		NewBalance: newBalance,
		Cashout:    capi.CashoutDetail{BetID: req.BetID, CashoutAmount: offer},
	})
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.repo.Leaderboard(r.Context(), listLimit)
	if err != nil {
		RequestsTotal.WithLabelValues("leaderboard", "error").Inc()
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []capi.LeaderboardEntry{}
	}
	RequestsTotal.WithLabelValues("leaderboard", "ok").Inc()
	writeJSON(w, http.StatusOK, capi.LeaderboardResponse{Leaderboard: entries})
}
