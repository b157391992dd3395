package settlement

import (
	"math/rand"

	"zoo_roulette/internal/config"
	"zoo_roulette/internal/notify"
	"zoo_roulette/internal/repository"
	"zoo_roulette/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

type serv struct {
	gameCfg    config.GameConfig
	roundRepo  repository.RoundRepository
	wagerRepo  repository.WagerRepository
	resultRepo repository.ResultRepository
	userRepo   repository.UserRepository
	txManager  trm.Manager
	publisher  notify.Publisher
	logger     *zap.Logger
	randFn     func() float64 // Подменяется в тестах для детерминизма
}

// NewSettlementService - движок расчета раундов. randFn == nil означает
// стандартный math/rand
func NewSettlementService(
	gameCfg config.GameConfig,
	roundRepo repository.RoundRepository,
	wagerRepo repository.WagerRepository,
	resultRepo repository.ResultRepository,
	userRepo repository.UserRepository,
	txManager trm.Manager,
	publisher notify.Publisher,
	logger *zap.Logger,
	randFn func() float64,
) service.SettlementService {
	if randFn == nil {
		randFn = rand.Float64
	}
	return &serv{
		gameCfg:    gameCfg,
		roundRepo:  roundRepo,
		wagerRepo:  wagerRepo,
		resultRepo: resultRepo,
		userRepo:   userRepo,
		txManager:  txManager,
		publisher:  publisher,
		logger:     logger,
		randFn:     randFn,
	}
}
