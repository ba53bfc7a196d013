package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ovchar/miniapp-bet-client/internal/miniapp/catalog"
	"github.com/ovchar/miniapp-bet-client/internal/miniapp/client"
	"github.com/ovchar/miniapp-bet-client/internal/miniapp/ledger"
	"github.com/ovchar/miniapp-bet-client/internal/miniapp/session"
	"github.com/ovchar/miniapp-bet-client/internal/miniapp/ui"
	"github.com/ovchar/miniapp-bet-client/internal/miniapp/workflow"
	"github.com/ovchar/miniapp-bet-client/internal/shared/config"
	"github.com/ovchar/miniapp-bet-client/internal/shared/logger"
	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

const helpText = `commands:
  events [category|all]   list the event catalog
  live | upcoming         events by commence time
  pick <eventID> <1|x|2>  stage an outcome on the slip
  stake <amount>          project winnings for the staged slip
  confirm <amount>        place the staged bet
  cancel                  discard the slip
  quick <game> <pick>     select a quick game pick (coinflip/dice/roulette)
  play <game> <amount>    play a quick game round
  bets                    show the bets ledger
  cashout <betID>         cash out a pending bet
  top                     leaderboard
  balance                 show current balance
  quit`

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cli := client.New(cfg.APIBaseURL, cfg.RequestTimeout)
	term := ui.NewTerm(os.Stdout)

	sess := session.New(cli, cfg.UserID, cfg.Username)
	sess.Register(term)

	slip := workflow.NewSlip(cli, sess, term, log)
	quick := workflow.NewQuickGames(cli, sess, term, term, log)
	cat := catalog.New(cli)
	led := ledger.New(cli, sess, term, log)

	ctx := context.Background()

	// Mesma sequência de partida do webapp: sessão e catálogo.
	if _, err := sess.Load(ctx); err != nil {
		log.Fatal("load session", zap.Error(err))
	}
	if err := cat.Load(ctx); err != nil {
		log.Fatal("load events", zap.Error(err))
	}
	term.RenderEvents(cat.Events(), time.Now())
	fmt.Println(helpText)

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return
		}
		args := strings.Fields(sc.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit":
			return
		case "help":
			fmt.Println(helpText)
		case "balance":
			term.ShowBalance(sess.Balance())
		case "events":
			category := catalog.CategoryAll
			if len(args) > 1 {
				category = args[1]
			}
			term.RenderEvents(cat.FilterByCategory(category), time.Now())
		case "live":
			term.RenderEvents(cat.Live(time.Now()), time.Now())
		case "upcoming":
			term.RenderEvents(cat.Upcoming(time.Now()), time.Now())
		case "pick":
			if len(args) < 3 {
				term.Error("usage: pick <eventID> <1|x|2>")
				continue
			}
			stageOutcome(cat, slip, term, args[1], args[2])
		case "stake":
			if len(args) < 2 {
				term.Error("usage: stake <amount>")
				continue
			}
			stage, ok := slip.Staged()
			if !ok {
				term.Error(workflow.ErrNothingStaged.Error())
				continue
			}
			term.RenderSlip(stage, slip.ProjectWinnings(args[1]))
		case "confirm":
			if len(args) < 2 {
				term.Error("usage: confirm <amount>")
				continue
			}
			amount, _ := strconv.ParseFloat(args[1], 64)
			_ = slip.Confirm(ctx, amount)
		case "cancel":
			slip.Cancel()
		case "quick":
			if len(args) < 3 {
				term.Error("usage: quick <game> <pick>")
				continue
			}
			if err := quick.SelectPick(args[1], args[2]); err != nil {
				term.Error(err.Error())
			}
		case "play":
			if len(args) < 3 {
				term.Error("usage: play <game> <amount>")
				continue
			}
			amount, _ := strconv.ParseFloat(args[2], 64)
			_ = quick.Play(ctx, args[1], amount)
		case "bets":
			if err := led.Refresh(ctx); err != nil {
				term.Error(err.Error())
				continue
			}
			term.RenderBets(led.Bets())
		case "cashout":
			if len(args) < 2 {
				term.Error("usage: cashout <betID>")
				continue
			}
			if led.Cashout(ctx, args[1]) == nil {
				term.RenderBets(led.Bets())
			}
		case "top":
			entries, err := cli.Leaderboard(ctx)
			if err != nil {
				term.Error(err.Error())
				continue
			}
			term.RenderLeaderboard(entries)
		default:
			term.Error("unknown command; try help")
		}
	}
}

// stageOutcome traduz o atalho 1/x/2 para o pick do contrato e estagia
// o slip com o contexto completo do evento.
func stageOutcome(cat *catalog.Catalog, slip *workflow.Slip, term *ui.Term, eventID, outcome string) {
	var event *capi.Event
	for _, e := range cat.Events() {
		if e.ID == eventID {
			ev := e
			event = &ev
			break
		}
	}
	if event == nil {
		term.Error("event not found")
		return
	}

	var pick, label string
	var odds float64
	switch strings.ToLower(outcome) {
	case "1":
		pick, label, odds = capi.PickTeamA, event.TeamA, event.OddsA
	case "x":
		if !catalog.HasDraw(*event) {
			term.Error("draw is not offered for this event")
			return
		}
		pick, label, odds = capi.PickDraw, "Draw", event.OddsDraw
	case "2":
		pick, label, odds = capi.PickTeamB, event.TeamB, event.OddsB
	default:
		term.Error("outcome must be 1, x or 2")
		return
	}

	slip.SelectOutcome(event.ID, event.Title, pick, label, odds)
	if stage, ok := slip.Staged(); ok {
		term.RenderSlip(stage, 0)
	}
}
