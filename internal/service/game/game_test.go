package game_test

import (
	"context"
	"testing"
	"time"

	"zoo_roulette/internal/middleware"
	"zoo_roulette/internal/model"
	"zoo_roulette/internal/service"
	"zoo_roulette/internal/service/game"
	"zoo_roulette/internal/service/settlement"
	"zoo_roulette/internal/service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type gameFixture struct {
	serv       service.GameService
	roundRepo  *testutil.RoundRepo
	wagerRepo  *testutil.WagerRepo
	resultRepo *testutil.ResultRepo
	userRepo   *testutil.UserRepo
	publisher  *testutil.Publisher
}

// newGameFixture - игровой сервис поверх in-memory хранилищ,
// розыгрыш зафиксирован на turtle
func newGameFixture() *gameFixture {
	f := &gameFixture{
		roundRepo:  testutil.NewRoundRepo(),
		wagerRepo:  testutil.NewWagerRepo(),
		resultRepo: testutil.NewResultRepo(),
		userRepo:   testutil.NewUserRepo(),
		publisher:  &testutil.Publisher{},
	}

	cfg := testutil.NewGameConfig()

	settleServ := settlement.NewSettlementService(
		cfg,
		f.roundRepo,
		f.wagerRepo,
		f.resultRepo,
		f.userRepo,
		testutil.TxManager{},
		f.publisher,
		zap.NewNop(),
		func() float64 { return 0.05 },
	)

	f.serv = game.NewGameService(
		cfg,
		f.roundRepo,
		f.wagerRepo,
		f.resultRepo,
		f.userRepo,
		settleServ,
		testutil.TxManager{},
		zap.NewNop(),
	)

	return f
}

func (f *gameFixture) addRoundEndingIn(id int64, untilEnd time.Duration) {
	now := time.Now()
	f.roundRepo.AddRound(model.Round{
		ID:        id,
		Status:    model.RoundStatusOpen,
		StartTime: now.Add(untilEnd - 30*time.Second),
		EndTime:   now.Add(untilEnd),
	})
}

func userCtx(userID int) context.Context {
	return middleware.ContextWithUserID(context.Background(), userID)
}

func TestPlaceWager(t *testing.T) {
	f := newGameFixture()
	f.addRoundEndingIn(1, 20*time.Second)
	userID := f.userRepo.AddUser("player", 1000)

	placed, err := f.serv.PlaceWager(userCtx(userID), model.PlaceWager{Outcome: "turtle", Amount: 100})
	require.NoError(t, err)

	assert.Equal(t, 900, placed.Balance)
	assert.Equal(t, "turtle", placed.Wager.Outcome)
	assert.Equal(t, 100, placed.Wager.Amount)

	wagers, err := f.wagerRepo.GetUserWagers(context.Background(), 1, userID)
	require.NoError(t, err)
	require.Len(t, wagers, 1)
	assert.Equal(t, 100, wagers[0].Amount)
}

func TestPlaceWagerValidation(t *testing.T) {
	f := newGameFixture()
	f.addRoundEndingIn(1, 20*time.Second)
	userID := f.userRepo.AddUser("player", 1000)

	_, err := f.serv.PlaceWager(userCtx(userID), model.PlaceWager{Outcome: "turtle", Amount: 0})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = f.serv.PlaceWager(userCtx(userID), model.PlaceWager{Outcome: "turtle", Amount: -5})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = f.serv.PlaceWager(userCtx(userID), model.PlaceWager{Outcome: "dragon", Amount: 10})
	assert.ErrorIs(t, err, model.ErrInvalidOutcome)
}

func TestPlaceWagerOnFestivalOutcome(t *testing.T) {
	f := newGameFixture()
	f.addRoundEndingIn(1, 20*time.Second)
	userID := f.userRepo.AddUser("player", 1000)

	// Одиночная ставка на фестивальный исход разрешена
	placed, err := f.serv.PlaceWager(userCtx(userID), model.PlaceWager{Outcome: "carnivorous_festival", Amount: 50})
	require.NoError(t, err)
	assert.Equal(t, 950, placed.Balance)
}

func TestPlaceWagerInsufficientBalance(t *testing.T) {
	f := newGameFixture()
	f.addRoundEndingIn(1, 20*time.Second)
	userID := f.userRepo.AddUser("player", 50)

	_, err := f.serv.PlaceWager(userCtx(userID), model.PlaceWager{Outcome: "turtle", Amount: 100})
	assert.ErrorIs(t, err, model.ErrInsufficientBalance)

	// Баланс и ставки не тронуты
	balance, err := f.userRepo.GetBalance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 50, balance)

	wagers, err := f.wagerRepo.GetUserWagers(context.Background(), 1, userID)
	require.NoError(t, err)
	assert.Empty(t, wagers)
}

func TestPlaceWagerNoActiveRound(t *testing.T) {
	f := newGameFixture()
	userID := f.userRepo.AddUser("player", 1000)

	_, err := f.serv.PlaceWager(userCtx(userID), model.PlaceWager{Outcome: "turtle", Amount: 100})
	assert.ErrorIs(t, err, model.ErrNoActiveRound)
}

func TestGraceWindows(t *testing.T) {
	// Раунд закрылся 2 секунды назад: одиночное окно (1с) истекло,
	// пакетное (3с) еще нет
	f := newGameFixture()
	f.addRoundEndingIn(1, -2*time.Second)
	userID := f.userRepo.AddUser("player", 1000)

	_, err := f.serv.PlaceWager(userCtx(userID), model.PlaceWager{Outcome: "turtle", Amount: 100})
	assert.ErrorIs(t, err, model.ErrRoundClosed)

	replaced, err := f.serv.ReplaceWagers(userCtx(userID), map[string]int{"turtle": 100})
	require.NoError(t, err)
	assert.Equal(t, 900, replaced.Balance)
}

func TestReplaceWagersAfterBatchGrace(t *testing.T) {
	f := newGameFixture()
	f.addRoundEndingIn(1, -5*time.Second)
	userID := f.userRepo.AddUser("player", 1000)

	_, err := f.serv.ReplaceWagers(userCtx(userID), map[string]int{"turtle": 100})
	assert.ErrorIs(t, err, model.ErrRoundClosed)
}

func TestReplaceWagersNetDebit(t *testing.T) {
	f := newGameFixture()
	f.addRoundEndingIn(1, 20*time.Second)
	userID := f.userRepo.AddUser("player", 1000)

	first, err := f.serv.ReplaceWagers(userCtx(userID), map[string]int{"turtle": 100, "cat": 50})
	require.NoError(t, err)
	assert.Equal(t, 150, first.TotalAmount)
	assert.Equal(t, 0, first.RefundAmount)
	assert.Equal(t, 150, first.NetAmount)
	assert.Equal(t, 850, first.Balance)

	// Повторная замена списывает только разницу сумм
	second, err := f.serv.ReplaceWagers(userCtx(userID), map[string]int{"turtle": 50})
	require.NoError(t, err)
	assert.Equal(t, 50, second.TotalAmount)
	assert.Equal(t, 150, second.RefundAmount)
	assert.Equal(t, -100, second.NetAmount)
	assert.Equal(t, 950, second.Balance)

	wagers, err := f.wagerRepo.GetUserWagers(context.Background(), 1, userID)
	require.NoError(t, err)
	require.Len(t, wagers, 1)
	assert.Equal(t, "turtle", wagers[0].Outcome)
	assert.Equal(t, 50, wagers[0].Amount)
}

func TestReplaceWagersSkipsZeroAmounts(t *testing.T) {
	f := newGameFixture()
	f.addRoundEndingIn(1, 20*time.Second)
	userID := f.userRepo.AddUser("player", 1000)

	replaced, err := f.serv.ReplaceWagers(userCtx(userID), map[string]int{"turtle": 100, "cat": 0})
	require.NoError(t, err)
	assert.Len(t, replaced.Wagers, 1)
	assert.Equal(t, 100, replaced.TotalAmount)
}

func TestReplaceWagersValidation(t *testing.T) {
	f := newGameFixture()
	f.addRoundEndingIn(1, 20*time.Second)
	userID := f.userRepo.AddUser("player", 1000)

	// Пакетные ставки на фестивальные исходы не принимаются
	_, err := f.serv.ReplaceWagers(userCtx(userID), map[string]int{"vegetarian_festival": 100})
	assert.ErrorIs(t, err, model.ErrInvalidOutcome)

	_, err = f.serv.ReplaceWagers(userCtx(userID), map[string]int{"unknown": 100})
	assert.ErrorIs(t, err, model.ErrInvalidOutcome)

	_, err = f.serv.ReplaceWagers(userCtx(userID), map[string]int{"turtle": -10})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = f.serv.ReplaceWagers(userCtx(userID), map[string]int{"turtle": 0})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = f.serv.ReplaceWagers(userCtx(userID), map[string]int{})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestReplaceWagersInsufficientBalance(t *testing.T) {
	f := newGameFixture()
	f.addRoundEndingIn(1, 20*time.Second)
	userID := f.userRepo.AddUser("player", 100)

	_, err := f.serv.ReplaceWagers(userCtx(userID), map[string]int{"turtle": 500})
	assert.ErrorIs(t, err, model.ErrInsufficientBalance)
}

func TestStateWaiting(t *testing.T) {
	f := newGameFixture()

	state, err := f.serv.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.RoundStateWaiting, state.Status)
	assert.Equal(t, 30, state.Countdown)
	assert.Nil(t, state.Round)
}

func TestStateActiveWithBets(t *testing.T) {
	f := newGameFixture()
	f.addRoundEndingIn(1, 20*time.Second)
	userID := f.userRepo.AddUser("player", 1000)

	_, err := f.serv.PlaceWager(userCtx(userID), model.PlaceWager{Outcome: "fox", Amount: 30})
	require.NoError(t, err)

	state, err := f.serv.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.RoundStateActive, state.Status)
	assert.NotNil(t, state.Round)
	assert.InDelta(t, 20, state.Countdown, 1)
	require.Len(t, state.Bets, 1)
	assert.Equal(t, "player", state.Bets[0].Username)
	assert.Equal(t, "fox", state.Bets[0].Outcome)
	assert.Equal(t, 30, state.Bets[0].Amount)
}

func TestStateSettlesExpiredRound(t *testing.T) {
	f := newGameFixture()
	f.addRoundEndingIn(1, -10*time.Second)
	userID := f.userRepo.AddUser("player", 1000)

	f.userRepo.AddUser("other", 1000)
	_, err := f.wagerRepo.CreateWager(context.Background(), &model.Wager{
		RoundID: 1, UserID: userID, Outcome: "turtle", Amount: 100,
	})
	require.NoError(t, err)

	// Истекший раунд досчитывается прямо при запросе состояния
	state, err := f.serv.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.RoundStateEnded, state.Status)
	assert.Equal(t, 0, state.Countdown)
	require.NotNil(t, state.Result)
	assert.Equal(t, "turtle", state.Result.ID)

	balance, err := f.userRepo.GetBalance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1500, balance)
}

func TestHistoryAnonymous(t *testing.T) {
	f := newGameFixture()

	result := "turtle"
	settledAt := time.Now().Add(-time.Minute)
	f.roundRepo.AddRound(model.Round{
		ID:        1,
		Status:    model.RoundStatusSettled,
		StartTime: settledAt.Add(-30 * time.Second),
		EndTime:   settledAt,
		Result:    &result,
		SettledAt: &settledAt,
	})

	history, err := f.serv.History(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(1), history[0].Round.ID)
	assert.Empty(t, history[0].UserWagers)
	assert.Zero(t, history[0].TotalBet)
}

func TestHistoryWithUserWagers(t *testing.T) {
	f := newGameFixture()
	f.addRoundEndingIn(1, -10*time.Second)
	userID := f.userRepo.AddUser("player", 1000)

	ctx := context.Background()
	_, err := f.wagerRepo.CreateWager(ctx, &model.Wager{
		RoundID: 1, UserID: userID, Outcome: "turtle", Amount: 100,
	})
	require.NoError(t, err)

	// Досчитываем раунд через запрос состояния
	_, err = f.serv.State(ctx)
	require.NoError(t, err)

	history, err := f.serv.History(userCtx(userID), 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)

	assert.Equal(t, 100, history[0].TotalBet)
	assert.Equal(t, 500, history[0].TotalWinnings)
	require.Len(t, history[0].UserWagers, 1)
	require.Len(t, history[0].UserResults, 1)
	assert.Equal(t, 500, history[0].UserResults[0].Payout)
}
