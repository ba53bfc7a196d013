package repo

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/google/uuid"

	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

// Saldo inicial de contas novas, igual ao colaborador de referência.
const startBalance = 1000

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
	ErrNotPending        = errors.New("bet is not pending")
)

// Postgres implementa a persistência do simulador: usuários, catálogo
// de eventos e apostas.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// EnsureSchema cria as tabelas na subida, como o colaborador de
// referência faz no startup.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id BIGINT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT 'player',
			balance DOUBLE PRECISION NOT NULL DEFAULT 1000,
			total_bets INT NOT NULL DEFAULT 0,
			total_wins INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			team_a TEXT NOT NULL,
			team_b TEXT NOT NULL,
			commence_time TIMESTAMPTZ NOT NULL,
			odds_a DOUBLE PRECISION NOT NULL,
			odds_draw DOUBLE PRECISION NOT NULL DEFAULT 0,
			odds_b DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL DEFAULT 'open'
		)`,
		`CREATE TABLE IF NOT EXISTS bets (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			event_id TEXT NOT NULL,
			event_title TEXT NOT NULL,
			pick TEXT NOT NULL,
			pick_label TEXT NOT NULL DEFAULT '',
			odds DOUBLE PRECISION NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			potential_win DOUBLE PRECISION NOT NULL,
			result TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, q := range stmts {
		if _, err := p.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// GetOrCreateUser devolve o perfil, criando a conta com saldo inicial
// no primeiro acesso.
func (p *Postgres) GetOrCreateUser(ctx context.Context, userID int64, username string) (capi.User, error) {
	var u capi.User
	err := p.db.QueryRowContext(ctx,
		`SELECT user_id, username, balance, total_bets, total_wins FROM users WHERE user_id=$1`, userID).
		Scan(&u.UserID, &u.Username, &u.Balance, &u.TotalBets, &u.TotalWins)
	if err == sql.ErrNoRows {
		if username == "" {
			username = "player"
		}
		_, err = p.db.ExecContext(ctx,
			`INSERT INTO users(user_id, username, balance) VALUES($1,$2,$3) ON CONFLICT (user_id) DO NOTHING`,
			userID, username, float64(startBalance))
		if err != nil {
			return capi.User{}, err
		}
		return capi.User{UserID: userID, Username: username, Balance: startBalance}, nil
	}
	if err != nil {
		return capi.User{}, err
	}
	return u, nil
}

// PlaceBet insere a aposta e debita o stake na mesma transação, com
// lock pessimista na linha do usuário.
func (p *Postgres) PlaceBet(ctx context.Context, req capi.PlaceBetRequest) (capi.Bet, float64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return capi.Bet{}, 0, err
	}
	defer tx.Rollback()

	var balance float64
	if err = tx.QueryRowContext(ctx,
		`SELECT balance FROM users WHERE user_id=$1 FOR UPDATE`, req.UserID).Scan(&balance); err != nil {
		if err == sql.ErrNoRows {
			return capi.Bet{}, 0, ErrNotFound
		}
		return capi.Bet{}, 0, err
	}
	if balance < req.Amount {
		return capi.Bet{}, 0, ErrInsufficientFunds
	}

	bet := capi.Bet{
		ID:           uuid.NewString(),
		EventTitle:   req.EventTitle,
		Pick:         req.Pick,
		PickLabel:    req.PickLabel,
		Amount:       req.Amount,
		Odds:         req.Odds,
		PotentialWin: round2(req.Amount * req.Odds),
		Result:       capi.ResultPending,
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO bets(id, user_id, event_id, event_title, pick, pick_label, odds, amount, potential_win)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		bet.ID, req.UserID, req.EventID, req.EventTitle, req.Pick, req.PickLabel,
		req.Odds, req.Amount, bet.PotentialWin); err != nil {
		return capi.Bet{}, 0, err
	}

	var newBalance float64
	if err = tx.QueryRowContext(ctx,
		`UPDATE users SET balance = balance - $1, total_bets = total_bets + 1 WHERE user_id=$2 RETURNING balance`,
		req.Amount, req.UserID).Scan(&newBalance); err != nil {
		return capi.Bet{}, 0, err
	}

	if err = tx.Commit(); err != nil {
		return capi.Bet{}, 0, err
	}
	return bet, newBalance, nil
}

// SettleQuick debita o stake e credita o prêmio (se houver) de uma
// rodada de jogo rápido, numa transação só.
func (p *Postgres) SettleQuick(ctx context.Context, userID int64, stake, winnings float64, win bool) (float64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var balance float64
	if err = tx.QueryRowContext(ctx,
		`SELECT balance FROM users WHERE user_id=$1 FOR UPDATE`, userID).Scan(&balance); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if balance < stake {
		return 0, ErrInsufficientFunds
	}

	delta := -stake
	winInc := 0
	if win {
		delta += winnings
		winInc = 1
	}

	var newBalance float64
	if err = tx.QueryRowContext(ctx,
		`UPDATE users SET balance = round((balance + $1)::numeric, 2),
			total_bets = total_bets + 1, total_wins = total_wins + $2
		 WHERE user_id=$3 RETURNING balance`,
		delta, winInc, userID).Scan(&newBalance); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// Cashout liquida antecipadamente uma aposta pendente. A valoração vem
// de fora (função value), mantendo a regra fora da camada de banco.
func (p *Postgres) Cashout(ctx context.Context, userID int64, betID string, value func(amount, odds float64) float64) (offer, newBalance float64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	var amount, odds float64
	var result string
	if err = tx.QueryRowContext(ctx,
		`SELECT amount, odds, result FROM bets WHERE id=$1 AND user_id=$2 FOR UPDATE`,
		betID, userID).Scan(&amount, &odds, &result); err != nil {
		if err == sql.ErrNoRows {
			return 0, 0, ErrNotFound
		}
		return 0, 0, err
	}
	if result != capi.ResultPending {
		return 0, 0, ErrNotPending
	}

	offer = value(amount, odds)

	if _, err = tx.ExecContext(ctx,
		`UPDATE bets SET result=$1 WHERE id=$2`, capi.ResultCashout, betID); err != nil {
		return 0, 0, err
	}
	if err = tx.QueryRowContext(ctx,
		`UPDATE users SET balance = round((balance + $1)::numeric, 2) WHERE user_id=$2 RETURNING balance`,
		offer, userID).Scan(&newBalance); err != nil {
		return 0, 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, err
	}
	return offer, newBalance, nil
}

// ListBets devolve as apostas do usuário, mais recentes primeiro.
func (p *Postgres) ListBets(ctx context.Context, userID int64, limit int) ([]capi.Bet, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, event_title, pick, pick_label, amount, odds, potential_win, result
		 FROM bets WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []capi.Bet
	for rows.Next() {
		var b capi.Bet
		if err := rows.Scan(&b.ID, &b.EventTitle, &b.Pick, &b.PickLabel,
			&b.Amount, &b.Odds, &b.PotentialWin, &b.Result); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListOpenEvents devolve o catálogo de eventos abertos.
func (p *Postgres) ListOpenEvents(ctx context.Context) ([]capi.Event, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, title, category, team_a, team_b,
			to_char(commence_time, 'YYYY-MM-DD"T"HH24:MI:SSZ'),
			odds_a, odds_draw, odds_b
		 FROM events WHERE status='open' ORDER BY commence_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []capi.Event
	for rows.Next() {
		var e capi.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Category, &e.TeamA, &e.TeamB,
			&e.CommenceTime, &e.OddsA, &e.OddsDraw, &e.OddsB); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SeedEvents faz upsert do catálogo semente.
func (p *Postgres) SeedEvents(ctx context.Context, events []capi.Event) error {
	for _, e := range events {
		if _, err := p.db.ExecContext(ctx,
			`INSERT INTO events(id, title, category, team_a, team_b, commence_time, odds_a, odds_draw, odds_b)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)
			 ON CONFLICT (id) DO UPDATE SET
				title=EXCLUDED.title, category=EXCLUDED.category,
				team_a=EXCLUDED.team_a, team_b=EXCLUDED.team_b,
				commence_time=EXCLUDED.commence_time,
				odds_a=EXCLUDED.odds_a, odds_draw=EXCLUDED.odds_draw, odds_b=EXCLUDED.odds_b`,
			e.ID, e.Title, e.Category, e.TeamA, e.TeamB, e.CommenceTime,
			e.OddsA, e.OddsDraw, e.OddsB); err != nil {
			return err
		}
	}
	return nil
}

// Leaderboard devolve o ranking por saldo.
func (p *Postgres) Leaderboard(ctx context.Context, limit int) ([]capi.LeaderboardEntry, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT username, balance, total_bets, total_wins
		 FROM users ORDER BY balance DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []capi.LeaderboardEntry
	for rows.Next() {
		var e capi.LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Balance, &e.TotalBets, &e.TotalWins); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
