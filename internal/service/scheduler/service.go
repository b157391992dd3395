package scheduler

import (
	"zoo_roulette/internal/config"
	"zoo_roulette/internal/notify"
	"zoo_roulette/internal/repository"
	"zoo_roulette/internal/service"

	"go.uber.org/zap"
)

type serv struct {
	gameCfg    config.GameConfig
	roundRepo  repository.RoundRepository
	settleServ service.SettlementService
	publisher  notify.Publisher
	logger     *zap.Logger
}

// NewSchedulerService - жизненный цикл раундов. Каждая операция идемпотентна
// и безопасна при конкурентных вызовах: планировщик может работать как
// фоновым циклом в долгоживущем процессе, так и дергаться heartbeat-запросами
// из serverless окружения.
func NewSchedulerService(
	gameCfg config.GameConfig,
	roundRepo repository.RoundRepository,
	settleServ service.SettlementService,
	publisher notify.Publisher,
	logger *zap.Logger,
) service.SchedulerService {
	return &serv{
		gameCfg:    gameCfg,
		roundRepo:  roundRepo,
		settleServ: settleServ,
		publisher:  publisher,
		logger:     logger,
	}
}
