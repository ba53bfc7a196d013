package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovchar/miniapp-bet-client/internal/simulator/games"
	"github.com/ovchar/miniapp-bet-client/internal/simulator/producer"
	"github.com/ovchar/miniapp-bet-client/internal/simulator/repo"
	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

type fakeRepo struct {
	user        capi.User
	userErr     error
	events      []capi.Event
	bets        []capi.Bet
	placeErr    error
	settleErr   error
	cashoutErr  error
	newBalance  float64
	settleCalls int
}

func (f *fakeRepo) GetOrCreateUser(ctx context.Context, userID int64, username string) (capi.User, error) {
	if f.userErr != nil {
		return capi.User{}, f.userErr
	}
	return f.user, nil
}

func (f *fakeRepo) ListOpenEvents(ctx context.Context) ([]capi.Event, error) {
	return f.events, nil
}

func (f *fakeRepo) ListBets(ctx context.Context, userID int64, limit int) ([]capi.Bet, error) {
	if len(f.bets) > limit {
		return f.bets[:limit], nil
	}
	return f.bets, nil
}

func (f *fakeRepo) PlaceBet(ctx context.Context, req capi.PlaceBetRequest) (capi.Bet, float64, error) {
	if f.placeErr != nil {
		return capi.Bet{}, 0, f.placeErr
	}
	return capi.Bet{
		ID: "bet_1", EventTitle: req.EventTitle, Pick: req.Pick,
		Amount: req.Amount, Odds: req.Odds, Result: capi.ResultPending,
	}, f.newBalance, nil
}

func (f *fakeRepo) SettleQuick(ctx context.Context, userID int64, stake, winnings float64, win bool) (float64, error) {
	f.settleCalls++
	if f.settleErr != nil {
		return 0, f.settleErr
	}
	return f.newBalance, nil
}

func (f *fakeRepo) Cashout(ctx context.Context, userID int64, betID string, value func(amount, odds float64) float64) (float64, float64, error) {
	if f.cashoutErr != nil {
		return 0, 0, f.cashoutErr
	}
	return value(20, 2.5), f.newBalance, nil
}

func (f *fakeRepo) Leaderboard(ctx context.Context, limit int) ([]capi.LeaderboardEntry, error) {
	return nil, nil
}

func newTestServer(r *fakeRepo) *httptest.Server {
	srv := NewServer(zap.NewNop(), r, nil, games.NewResolver(1), producer.NoopPublisher{})
	return httptest.NewServer(srv.Router())
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return res
}

func decodeDetail(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	var er capi.ErrorResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&er))
	return er.Detail
}

func TestGetUser(t *testing.T) {
	ts := newTestServer(&fakeRepo{user: capi.User{UserID: 42, Username: "olga", Balance: 1000}})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/user/42?username=olga")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var user capi.User
	require.NoError(t, json.NewDecoder(res.Body).Decode(&user))
	assert.Equal(t, 1000.0, user.Balance)
}

func TestGetUser_BadID(t *testing.T) {
	ts := newTestServer(&fakeRepo{})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/user/abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res.Body.Close()
}

// Lista vazia serializa como [], nunca null; o webapp itera direto.
func TestListEvents_EmptyEncodesAsArray(t *testing.T) {
	ts := newTestServer(&fakeRepo{})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/events")
	require.NoError(t, err)
	defer res.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"events":[]`)
}

func TestPlaceBet_MinimumStake(t *testing.T) {
	ts := newTestServer(&fakeRepo{newBalance: 990})
	defer ts.Close()

	res := postJSON(t, ts.URL+"/api/bet", capi.PlaceBetRequest{
		UserID: 42, EventID: "evt_1", Pick: capi.PickTeamA, Odds: 2.0, Amount: 5,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, detailMin, decodeDetail(t, res))
}

func TestPlaceBet_InsufficientFunds(t *testing.T) {
	ts := newTestServer(&fakeRepo{placeErr: repo.ErrInsufficientFunds})
	defer ts.Close()

	res := postJSON(t, ts.URL+"/api/bet", capi.PlaceBetRequest{
		UserID: 42, EventID: "evt_1", Pick: capi.PickTeamA, Odds: 2.0, Amount: 50,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, detailFunds, decodeDetail(t, res))
}

func TestPlaceBet_InvalidPayload(t *testing.T) {
	ts := newTestServer(&fakeRepo{})
	defer ts.Close()

	res := postJSON(t, ts.URL+"/api/bet", capi.PlaceBetRequest{UserID: 42})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "invalid payload", decodeDetail(t, res))
}

func TestPlaceBet_Accepted(t *testing.T) {
	ts := newTestServer(&fakeRepo{newBalance: 960})
	defer ts.Close()

	res := postJSON(t, ts.URL+"/api/bet", capi.PlaceBetRequest{
		UserID: 42, EventID: "evt_1", EventTitle: "A vs B",
		Pick: capi.PickTeamA, Odds: 2.5, Amount: 40,
	})
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out capi.PlaceBetResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, 960.0, out.NewBalance)
	require.NotNil(t, out.Bet)
	assert.Equal(t, capi.ResultPending, out.Bet.Result)
}

func TestQuickBet_Resolved(t *testing.T) {
	fr := &fakeRepo{newBalance: 1005}
	ts := newTestServer(fr)
	defer ts.Close()

	res := postJSON(t, ts.URL+"/api/quick-bet", capi.QuickBetRequest{
		UserID: 42, Game: capi.GameCoinflip, Pick: "heads", Amount: 10,
	})
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out capi.QuickBetResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Contains(t, []string{"heads", "tails"}, out.Result)
	assert.Equal(t, 1005.0, out.NewBalance)
	assert.Equal(t, 1, fr.settleCalls)
}

func TestQuickBet_UnknownGame(t *testing.T) {
	fr := &fakeRepo{}
	ts := newTestServer(fr)
	defer ts.Close()

	res := postJSON(t, ts.URL+"/api/quick-bet", capi.QuickBetRequest{
		UserID: 42, Game: "slots", Pick: "7", Amount: 10,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res.Body.Close()
	assert.Equal(t, 0, fr.settleCalls, "rodada inválida não toca o saldo")
}

func TestCashout_NotFoundAndConflict(t *testing.T) {
	ts := newTestServer(&fakeRepo{cashoutErr: repo.ErrNotFound})
	defer ts.Close()

	res := postJSON(t, ts.URL+"/api/cashout", capi.CashoutRequest{UserID: 42, BetID: "nope"})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Bet not found", decodeDetail(t, res))
	ts.Close()

	ts = newTestServer(&fakeRepo{cashoutErr: repo.ErrNotPending})
	defer ts.Close()

	res = postJSON(t, ts.URL+"/api/cashout", capi.CashoutRequest{UserID: 42, BetID: "bet_1"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "Bet is not pending", decodeDetail(t, res))
}

func TestCashout_OfferUsesValuationRule(t *testing.T) {
	ts := newTestServer(&fakeRepo{newBalance: 1025})
	defer ts.Close()

	res := postJSON(t, ts.URL+"/api/cashout", capi.CashoutRequest{UserID: 42, BetID: "bet_1"})
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out capi.CashoutResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	// amount 20, odds 2.5: oferta 20*2.5*0.5 = 25.
	assert.Equal(t, 25.0, out.Cashout.CashoutAmount)
	assert.Equal(t, 1025.0, out.NewBalance)
	assert.Equal(t, "bet_1", out.Cashout.BetID)
}

func TestLeaderboard_EmptyEncodesAsArray(t *testing.T) {
	ts := newTestServer(&fakeRepo{})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/leaderboard")
	require.NoError(t, err)
	defer res.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"leaderboard":[]`)
}
