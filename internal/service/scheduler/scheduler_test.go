package scheduler_test

import (
	"context"
	"testing"
	"time"

	"zoo_roulette/internal/model"
	"zoo_roulette/internal/notify"
	"zoo_roulette/internal/service"
	"zoo_roulette/internal/service/scheduler"
	"zoo_roulette/internal/service/settlement"
	"zoo_roulette/internal/service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type schedulerFixture struct {
	serv      service.SchedulerService
	roundRepo *testutil.RoundRepo
	userRepo  *testutil.UserRepo
	wagerRepo *testutil.WagerRepo
	publisher *testutil.Publisher
}

func newSchedulerFixture() *schedulerFixture {
	f := &schedulerFixture{
		roundRepo: testutil.NewRoundRepo(),
		userRepo:  testutil.NewUserRepo(),
		wagerRepo: testutil.NewWagerRepo(),
		publisher: &testutil.Publisher{},
	}

	cfg := testutil.NewGameConfig()

	settleServ := settlement.NewSettlementService(
		cfg,
		f.roundRepo,
		f.wagerRepo,
		testutil.NewResultRepo(),
		f.userRepo,
		testutil.TxManager{},
		f.publisher,
		zap.NewNop(),
		func() float64 { return 0.05 },
	)

	f.serv = scheduler.NewSchedulerService(
		cfg,
		f.roundRepo,
		settleServ,
		f.publisher,
		zap.NewNop(),
	)

	return f
}

func TestEnsureActiveRoundCreatesRound(t *testing.T) {
	f := newSchedulerFixture()

	round, err := f.serv.EnsureActiveRound(context.Background())
	require.NoError(t, err)
	require.NotNil(t, round)
	assert.Equal(t, model.RoundStatusOpen, round.Status)
	assert.InDelta(t, 30, round.EndTime.Sub(round.StartTime).Seconds(), 0.1)

	require.Len(t, f.publisher.Events, 1)
	assert.Equal(t, notify.EventRoundStart, f.publisher.Events[0].Type)
}

func TestEnsureActiveRoundKeepsFreshRound(t *testing.T) {
	f := newSchedulerFixture()

	first, err := f.serv.EnsureActiveRound(context.Background())
	require.NoError(t, err)

	second, err := f.serv.EnsureActiveRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Повторный вызов не публикует лишний round_start
	assert.Len(t, f.publisher.Events, 1)
}

func TestEnsureActiveRoundRolloverSettlesExpired(t *testing.T) {
	f := newSchedulerFixture()

	now := time.Now()
	f.roundRepo.AddRound(model.Round{
		ID:        1,
		Status:    model.RoundStatusOpen,
		StartTime: now.Add(-70 * time.Second),
		EndTime:   now.Add(-40 * time.Second),
	})

	round, err := f.serv.EnsureActiveRound(context.Background())
	require.NoError(t, err)
	require.NotNil(t, round)
	assert.NotEqual(t, int64(1), round.ID)

	old, err := f.roundRepo.GetRoundByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoundStatusSettled, old.Status)

	// Сначала round_end старого раунда, затем round_start нового
	require.Len(t, f.publisher.Events, 2)
	assert.Equal(t, notify.EventRoundEnd, f.publisher.Events[0].Type)
	assert.Equal(t, notify.EventRoundStart, f.publisher.Events[1].Type)
}

func TestProcessCycle(t *testing.T) {
	f := newSchedulerFixture()

	now := time.Now()
	f.roundRepo.AddRound(model.Round{
		ID:        1,
		Status:    model.RoundStatusOpen,
		StartTime: now.Add(-70 * time.Second),
		EndTime:   now.Add(-40 * time.Second),
	})

	err := f.serv.ProcessCycle(context.Background())
	require.NoError(t, err)

	old, err := f.roundRepo.GetRoundByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoundStatusSettled, old.Status)

	active, err := f.roundRepo.GetActiveRound(context.Background())
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.False(t, active.Expired(time.Now()))
}
