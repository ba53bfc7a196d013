package events

// Evento publicado pelo simulador quando uma aposta de evento é aceita.
type WagerPlaced struct {
	BetID      string  `json:"bet_id"`
	UserID     int64   `json:"user_id"`
	EventID    string  `json:"event_id"`
	Pick       string  `json:"pick"`
	Odds       float64 `json:"odds"`
	Amount     float64 `json:"amount"`
	NewBalance float64 `json:"new_balance"`
	TsUnixMs   int64   `json:"ts_unix_ms"`
}
