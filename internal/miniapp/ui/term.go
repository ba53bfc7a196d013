package ui

import (
	"fmt"
	"io"
	"math"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/ovchar/miniapp-bet-client/internal/miniapp/catalog"
	"github.com/ovchar/miniapp-bet-client/internal/miniapp/workflow"
	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

// Term é a camada de apresentação em terminal. É detalhe substituível:
// a máquina de estados e o contrato com a API não dependem dela.
type Term struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerm(w io.Writer) *Term { return &Term{w: w} }

// ShowBalance implementa a surface de saldo. Exibe truncado, como o
// webapp de referência.
func (t *Term) ShowBalance(balance float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "💰 %d🪙\n", int64(math.Floor(balance)))
}

func (t *Term) Success(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "✅ %s\n", msg)
}

func (t *Term) Error(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "⚠️  %s\n", msg)
}

func (t *Term) ShowResult(game, text string, win bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	marker := "lose"
	if win {
		marker = "win"
	}
	fmt.Fprintf(t.w, "[%s] %s (%s)\n", game, text, marker)
}

func (t *Term) ClearResult(game string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "[%s] —\n", game)
}

// RenderEvents lista o catálogo com status live/upcoming avaliado agora.
func (t *Term) RenderEvents(events []capi.Event, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(events) == 0 {
		fmt.Fprintln(t.w, "No events available")
		return
	}
	tw := tabwriter.NewWriter(t.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tMATCH\t1\tX\t2\tSTATUS")
	for _, e := range events {
		draw := "-"
		if catalog.HasDraw(e) {
			draw = fmt.Sprintf("%.2f", e.OddsDraw)
		}
		status := "upcoming"
		if catalog.IsLive(e, now) {
			status = "live"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s vs %s\t%.2f\t%s\t%.2f\t%s\n",
			e.ID, e.Category, e.TeamA, e.TeamB, e.OddsA, draw, e.OddsB, status)
	}
	tw.Flush()
}

// RenderSlip mostra o slip estagiado e o ganho projetado.
func (t *Term) RenderSlip(stage workflow.Stage, projected float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "🎫 %s | %s @ %.2f | potential win: %.2f\n",
		stage.Title, stage.PickLabel, stage.Odds, projected)
}

// RenderBets lista o ledger na ordem do servidor.
func (t *Term) RenderBets(bets []capi.Bet) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(bets) == 0 {
		fmt.Fprintln(t.w, "No bets yet 🎰")
		return
	}
	status := map[string]string{
		capi.ResultPending: "⏳",
		capi.ResultWin:     "✅",
		capi.ResultLose:    "❌",
		capi.ResultCashout: "💸",
	}
	tw := tabwriter.NewWriter(t.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEVENT\tPICK\tSTAKE\tODDS\tWIN\t")
	for _, b := range bets {
		mark, ok := status[b.Result]
		if !ok {
			mark = "?"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f🪙\t%.2f\t%.2f🪙\t%s\n",
			b.ID, b.EventTitle, b.PickLabel, b.Amount, b.Odds, b.PotentialWin, mark)
	}
	tw.Flush()
}

func (t *Term) RenderLeaderboard(entries []capi.LeaderboardEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(entries) == 0 {
		fmt.Fprintln(t.w, "Leaderboard is empty")
		return
	}
	tw := tabwriter.NewWriter(t.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tBALANCE\tBETS\tWINS")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%.0f🪙\t%d\t%d\n", i+1, e.Username, e.Balance, e.TotalBets, e.TotalWins)
	}
	tw.Flush()
}
