package settlement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"zoo_roulette/internal/model"
	"zoo_roulette/internal/notify"
	"zoo_roulette/internal/service"
	"zoo_roulette/internal/service/settlement"
	"zoo_roulette/internal/service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type settleFixture struct {
	serv       service.SettlementService
	roundRepo  *testutil.RoundRepo
	wagerRepo  *testutil.WagerRepo
	resultRepo *testutil.ResultRepo
	userRepo   *testutil.UserRepo
	publisher  *testutil.Publisher
}

// newSettleFixture - движок расчета с фиксированным розыгрышем:
// сэмпл 0.05 всегда выпадает в turtle
func newSettleFixture() *settleFixture {
	f := &settleFixture{
		roundRepo:  testutil.NewRoundRepo(),
		wagerRepo:  testutil.NewWagerRepo(),
		resultRepo: testutil.NewResultRepo(),
		userRepo:   testutil.NewUserRepo(),
		publisher:  &testutil.Publisher{},
	}

	f.serv = settlement.NewSettlementService(
		testutil.NewGameConfig(),
		f.roundRepo,
		f.wagerRepo,
		f.resultRepo,
		f.userRepo,
		testutil.TxManager{},
		f.publisher,
		zap.NewNop(),
		func() float64 { return 0.05 },
	)

	return f
}

func (f *settleFixture) addExpiredRound(id int64) {
	now := time.Now()
	f.roundRepo.AddRound(model.Round{
		ID:        id,
		Status:    model.RoundStatusOpen,
		StartTime: now.Add(-40 * time.Second),
		EndTime:   now.Add(-10 * time.Second),
	})
}

func TestSettleRoundPaysWinnerAndRecordsLoser(t *testing.T) {
	ctx := context.Background()
	f := newSettleFixture()
	f.addExpiredRound(1)

	winnerID := f.userRepo.AddUser("winner", 0)
	loserID := f.userRepo.AddUser("loser", 0)

	winnerWagerID, err := f.wagerRepo.CreateWager(ctx, &model.Wager{
		RoundID: 1, UserID: winnerID, Outcome: "turtle", Amount: 100,
	})
	require.NoError(t, err)

	loserWagerID, err := f.wagerRepo.CreateWager(ctx, &model.Wager{
		RoundID: 1, UserID: loserID, Outcome: "lion", Amount: 100,
	})
	require.NoError(t, err)

	outcome, err := f.serv.SettleRound(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "turtle", outcome.ID)

	// Выигрыш = ставка * множитель
	winnerBalance, err := f.userRepo.GetBalance(ctx, winnerID)
	require.NoError(t, err)
	assert.Equal(t, 500, winnerBalance)

	loserBalance, err := f.userRepo.GetBalance(ctx, loserID)
	require.NoError(t, err)
	assert.Equal(t, 0, loserBalance)

	// Запись о расчете создается и для проигравшей ставки
	results := f.resultRepo.Results()
	require.Len(t, results, 2)
	assert.Equal(t, winnerWagerID, results[0].WagerID)
	assert.Equal(t, 500, results[0].Payout)
	assert.Equal(t, loserWagerID, results[1].WagerID)
	assert.Equal(t, 0, results[1].Payout)

	round, err := f.roundRepo.GetRoundByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoundStatusSettled, round.Status)
	require.NotNil(t, round.Result)
	assert.Equal(t, "turtle", *round.Result)
	assert.NotNil(t, round.SettledAt)

	require.Len(t, f.publisher.Events, 1)
	assert.Equal(t, notify.EventRoundEnd, f.publisher.Events[0].Type)
}

func TestSettleRoundIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newSettleFixture()
	f.addExpiredRound(1)

	userID := f.userRepo.AddUser("player", 0)
	_, err := f.wagerRepo.CreateWager(ctx, &model.Wager{
		RoundID: 1, UserID: userID, Outcome: "turtle", Amount: 100,
	})
	require.NoError(t, err)

	first, err := f.serv.SettleRound(ctx, 1)
	require.NoError(t, err)

	second, err := f.serv.SettleRound(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Повторный расчет не удваивает выплату
	balance, err := f.userRepo.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 500, balance)

	assert.Len(t, f.resultRepo.Results(), 1)
}

func TestSettleRoundUnknownRound(t *testing.T) {
	f := newSettleFixture()

	_, err := f.serv.SettleRound(context.Background(), 99)
	assert.Error(t, err)
}

func TestSettleRoundContinuesAfterPayoutFailure(t *testing.T) {
	ctx := context.Background()
	f := newSettleFixture()
	f.addExpiredRound(1)

	firstID := f.userRepo.AddUser("first", 0)
	secondID := f.userRepo.AddUser("second", 0)

	failingWagerID, err := f.wagerRepo.CreateWager(ctx, &model.Wager{
		RoundID: 1, UserID: firstID, Outcome: "turtle", Amount: 100,
	})
	require.NoError(t, err)

	_, err = f.wagerRepo.CreateWager(ctx, &model.Wager{
		RoundID: 1, UserID: secondID, Outcome: "turtle", Amount: 200,
	})
	require.NoError(t, err)

	f.resultRepo.FailForWager = failingWagerID
	f.resultRepo.FailErr = errors.New("storage unavailable")

	// Падение расчета одной ставки не блокирует остальные
	outcome, err := f.serv.SettleRound(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "turtle", outcome.ID)

	firstBalance, err := f.userRepo.GetBalance(ctx, firstID)
	require.NoError(t, err)
	assert.Equal(t, 0, firstBalance)

	secondBalance, err := f.userRepo.GetBalance(ctx, secondID)
	require.NoError(t, err)
	assert.Equal(t, 1000, secondBalance)

	assert.Len(t, f.resultRepo.Results(), 1)
}
