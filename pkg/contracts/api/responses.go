package api

// ErrorResponse é o envelope de erro para respostas não-2xx.
// O campo detail é exibido literalmente ao usuário quando presente.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type EventsResponse struct {
	Events []Event `json:"events"`
}

type BetsResponse struct {
	Bets []Bet `json:"bets"`
}

// PlaceBetResponse devolve a aposta criada e o saldo autoritativo.
type PlaceBetResponse struct {
	Bet        *Bet    `json:"bet,omitempty"`
	NewBalance float64 `json:"new_balance"`
}

// QuickBetResponse devolve o resultado resolvido de um jogo rápido.
type QuickBetResponse struct {
	Game       string  `json:"game"`
	Pick       string  `json:"pick"`
	Result     string  `json:"result"` // "heads"/"tails", "1".."6", "0".."36"
	Win        bool    `json:"win"`
	Winnings   float64 `json:"winnings"`
	NewBalance float64 `json:"new_balance"`
}

// CashoutDetail descreve a liquidação antecipada calculada pelo servidor.
type CashoutDetail struct {
	BetID         string  `json:"bet_id"`
	CashoutAmount float64 `json:"cashout_amount"`
}

type CashoutResponse struct {
	NewBalance float64       `json:"new_balance"`
	Cashout    CashoutDetail `json:"cashout"`
}

type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
