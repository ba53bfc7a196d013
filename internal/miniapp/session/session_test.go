package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

type fakeAPI struct {
	user *capi.User
	err  error
}

func (f *fakeAPI) GetUser(ctx context.Context, userID int64, username string) (*capi.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeSurface struct {
	shown []float64
}

func (f *fakeSurface) ShowBalance(b float64) { f.shown = append(f.shown, b) }

func (f *fakeSurface) last() float64 {
	if len(f.shown) == 0 {
		return -1
	}
	return f.shown[len(f.shown)-1]
}

func TestLoad_ReplacesStateAndRefreshesSurfaces(t *testing.T) {
	api := &fakeAPI{user: &capi.User{UserID: 42, Username: "olga", Balance: 1000, TotalBets: 3, TotalWins: 1}}
	tr := New(api, 42, "olga")
	a, b := &fakeSurface{}, &fakeSurface{}
	tr.Register(a, b)

	user, err := tr.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1000.0, user.Balance)
	assert.Equal(t, 3, user.TotalBets)
	assert.Equal(t, 1000.0, tr.Balance())
	assert.Equal(t, 1000.0, a.last())
	assert.Equal(t, 1000.0, b.last())
}

func TestLoad_ErrorLeavesStateUntouched(t *testing.T) {
	api := &fakeAPI{err: assert.AnError}
	tr := New(api, 42, "olga")
	s := &fakeSurface{}
	tr.Register(s)

	_, err := tr.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0.0, tr.Balance())
	// Só o push do Register; nada na falha.
	assert.Len(t, s.shown, 1)
}

func TestApplyBalance_FansOutToEverySurface(t *testing.T) {
	tr := New(&fakeAPI{}, 42, "olga")
	a, b := &fakeSurface{}, &fakeSurface{}
	tr.Register(a, b)

	tr.ApplyBalance(57.25)
	assert.Equal(t, 57.25, tr.Balance())
	assert.Equal(t, 57.25, a.last())
	assert.Equal(t, 57.25, b.last())
	assert.Equal(t, 57.25, tr.Profile().Balance)
}

func TestRegister_AfterLoadPushesCurrentValue(t *testing.T) {
	api := &fakeAPI{user: &capi.User{UserID: 42, Balance: 500}}
	tr := New(api, 42, "olga")
	_, err := tr.Load(context.Background())
	require.NoError(t, err)

	late := &fakeSurface{}
	tr.Register(late)
	assert.Equal(t, 500.0, late.last())
}
