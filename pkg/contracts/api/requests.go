package api

// PlaceBetRequest é o payload de POST /api/bet.
type PlaceBetRequest struct {
	UserID     int64   `json:"user_id"`
	EventID    string  `json:"event_id"`
	EventTitle string  `json:"event_title"`
	Pick       string  `json:"pick"`       // team_a | draw | team_b
	PickLabel  string  `json:"pick_label"` // rótulo exibido ao usuário
	Odds       float64 `json:"odds"`       // odd que o cliente viu ao selecionar
	Amount     float64 `json:"amount"`
}

// QuickBetRequest é o payload de POST /api/quick-bet.
type QuickBetRequest struct {
	UserID int64   `json:"user_id"`
	Game   string  `json:"game"` // coinflip | dice | roulette
	Pick   string  `json:"pick"`
	Amount float64 `json:"amount"`
}

// CashoutRequest é o payload de POST /api/cashout.
type CashoutRequest struct {
	UserID int64  `json:"user_id"`
	BetID  string `json:"bet_id"`
}
