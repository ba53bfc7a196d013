package events

// Evento publicado na resolução imediata de um jogo rápido
// e na liquidação antecipada (cashout) de uma aposta pendente.
type WagerSettled struct {
	UserID     int64   `json:"user_id"`
	Kind       string  `json:"kind"` // "quick_bet" | "cashout"
	Game       string  `json:"game,omitempty"`
	Pick       string  `json:"pick,omitempty"`
	Result     string  `json:"result,omitempty"`
	Win        bool    `json:"win"`
	Payout     float64 `json:"payout"`
	NewBalance float64 `json:"new_balance"`
	TsUnixMs   int64   `json:"ts_unix_ms"`
}
