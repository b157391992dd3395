package game

import (
	"zoo_roulette/internal/config"
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
	settleServ service.SettlementService
	txManager  trm.Manager
	logger     *zap.Logger
}

// NewGameService - прием ставок и состояние текущего раунда
func NewGameService(
	gameCfg config.GameConfig,
	roundRepo repository.RoundRepository,
	wagerRepo repository.WagerRepository,
	resultRepo repository.ResultRepository,
	userRepo repository.UserRepository,
	settleServ service.SettlementService,
	txManager trm.Manager,
	logger *zap.Logger,
) service.GameService {
	return &serv{
		gameCfg:    gameCfg,
		roundRepo:  roundRepo,
		wagerRepo:  wagerRepo,
		resultRepo: resultRepo,
		userRepo:   userRepo,
		settleServ: settleServ,
		txManager:  txManager,
		logger:     logger,
	}
}
