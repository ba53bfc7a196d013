package api

// Constantes do contrato com o serviço colaborador.
// O valor mínimo de aposta é validado tanto no cliente quanto no servidor;
// a palavra final é sempre do servidor.
const MinStake float64 = 10

// Picks possíveis para apostas em eventos.
const (
	PickTeamA = "team_a"
	PickDraw  = "draw"
	PickTeamB = "team_b"
)

// Jogos rápidos disponíveis.
const (
	GameCoinflip = "coinflip"
	GameDice     = "dice"
	GameRoulette = "roulette"
)

// Estados possíveis de uma aposta registrada.
const (
	ResultPending = "pending"
	ResultWin     = "win"
	ResultLose    = "lose"
	ResultCashout = "cashout"
)

// User representa o perfil retornado por GET /api/user/{userId}.
type User struct {
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	Balance   float64 `json:"balance"`
	TotalBets int     `json:"total_bets"`
	TotalWins int     `json:"total_wins"`
}

// Event é um snapshot imutável de evento com odds fixas.
// odds_draw <= 0 sinaliza que o mercado não oferece empate.
type Event struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Category     string  `json:"category"`
	TeamA        string  `json:"team_a"`
	TeamB        string  `json:"team_b"`
	CommenceTime string  `json:"commence_time"` // RFC3339
	OddsA        float64 `json:"odds_a"`
	OddsDraw     float64 `json:"odds_draw"`
	OddsB        float64 `json:"odds_b"`
}

// Bet é o registro de aposta mantido pelo colaborador.
// O cliente nunca constrói nem altera esses registros; só renderiza.
type Bet struct {
	ID           string  `json:"id"`
	EventTitle   string  `json:"event_title"`
	Pick         string  `json:"pick"`
	PickLabel    string  `json:"pick_label"`
	Amount       float64 `json:"amount"`
	Odds         float64 `json:"odds"`
	PotentialWin float64 `json:"potential_win"`
	Result       string  `json:"result"` // pending | win | lose | cashout
}

// LeaderboardEntry é uma linha do ranking por saldo.
type LeaderboardEntry struct {
	Username  string  `json:"username"`
	Balance   float64 `json:"balance"`
	TotalBets int     `json:"total_bets"`
	TotalWins int     `json:"total_wins"`
}
