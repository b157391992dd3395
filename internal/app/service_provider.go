package app

import (
	"context"
	"log"
	"os"

	apiauth "zoo_roulette/internal/api/auth"
	apigame "zoo_roulette/internal/api/game"
	apileaderboard "zoo_roulette/internal/api/leaderboard"
	"zoo_roulette/internal/config"
	"zoo_roulette/internal/config/env"
	"zoo_roulette/internal/middleware"
	"zoo_roulette/internal/notify"
	"zoo_roulette/internal/repository"
	"zoo_roulette/internal/repository/auth_repo"
	"zoo_roulette/internal/repository/result_repo"
	"zoo_roulette/internal/repository/round_repo"
	"zoo_roulette/internal/repository/user_repo"
	"zoo_roulette/internal/repository/wager_repo"
	"zoo_roulette/internal/service"
	authserv "zoo_roulette/internal/service/auth"
	gameserv "zoo_roulette/internal/service/game"
	lbserv "zoo_roulette/internal/service/leaderboard"
	schedulerserv "zoo_roulette/internal/service/scheduler"
	settlementserv "zoo_roulette/internal/service/settlement"
	"zoo_roulette/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	gameConfigPathEnvName = "GAME_CONFIG_PATH"
	defaultGameConfigPath = "config.yaml"
	serviceName           = "zoo_roulette"
)

type serviceProvider struct {
	pgConfig      config.PGConfig
	httpConfig    config.HTTPConfig
	jwtConfig     config.JWTConfig
	gameConfig    config.GameConfig
	redisConfig   config.RedisConfig
	metricsConfig config.MetricsConfig

	logger *zap.Logger

	dbc       *pgxpool.Pool
	ctxGetter *trmpgx.CtxGetter
	txManager trm.Manager
	publisher notify.Publisher

	roundRepository  repository.RoundRepository
	wagerRepository  repository.WagerRepository
	resultRepository repository.ResultRepository
	userRepository   repository.UserRepository
	authRepository   repository.AuthRepository

	gameService        service.GameService
	settlementService  service.SettlementService
	schedulerService   service.SchedulerService
	authService        service.AuthService
	leaderboardService service.LeaderboardService

	authMiddleware     *middleware.Auth
	gameHandler        *apigame.Handler
	authHandler        *apiauth.Handler
	leaderboardHandler *apileaderboard.Handler
}

func newServiceProvider() *serviceProvider {
	return &serviceProvider{}
}

func (s *serviceProvider) PGConfig() config.PGConfig {
	if s.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			log.Fatalf("failed to get pg config: %s", err.Error())
		}
		s.pgConfig = cfg
	}

	return s.pgConfig
}

func (s *serviceProvider) HTTPConfig() config.HTTPConfig {
	if s.httpConfig == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			log.Fatalf("failed to get http config: %s", err.Error())
		}
		s.httpConfig = cfg
	}

	return s.httpConfig
}

func (s *serviceProvider) JWTConfig() config.JWTConfig {
	if s.jwtConfig == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			log.Fatalf("failed to get jwt config: %s", err.Error())
		}
		s.jwtConfig = cfg
	}

	return s.jwtConfig
}

func (s *serviceProvider) GameConfig() config.GameConfig {
	if s.gameConfig == nil {
		path := os.Getenv(gameConfigPathEnvName)
		if len(path) == 0 {
			path = defaultGameConfigPath
		}

		cfg, err := env.NewGameConfigFromYAML(path)
		if err != nil {
			log.Fatalf("failed to get game config: %s", err.Error())
		}
		s.gameConfig = cfg
	}

	return s.gameConfig
}

func (s *serviceProvider) RedisConfig() config.RedisConfig {
	if s.redisConfig == nil {
		cfg, err := env.NewRedisConfig()
		if err != nil {
			log.Fatalf("failed to get redis config: %s", err.Error())
		}
		s.redisConfig = cfg
	}

	return s.redisConfig
}

func (s *serviceProvider) MetricsConfig() config.MetricsConfig {
	if s.metricsConfig == nil {
		cfg, err := env.NewMetricsConfig()
		if err != nil {
			log.Fatalf("failed to get metrics config: %s", err.Error())
		}
		s.metricsConfig = cfg
	}

	return s.metricsConfig
}

func (s *serviceProvider) Logger() *zap.Logger {
	if s.logger == nil {
		l, err := logger.New(serviceName, os.Getenv("APP_ENV"))
		if err != nil {
			log.Fatalf("failed to init logger: %s", err.Error())
		}
		s.logger = l
	}

	return s.logger
}

func (s *serviceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if s.dbc == nil {
		pool, err := pgxpool.New(ctx, s.PGConfig().DSN())
		if err != nil {
			log.Fatalf("failed to create db pool: %s", err.Error())
		}

		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("failed to ping db: %s", err.Error())
		}

		s.dbc = pool
	}

	return s.dbc
}

func (s *serviceProvider) CtxGetter() *trmpgx.CtxGetter {
	if s.ctxGetter == nil {
		s.ctxGetter = trmpgx.DefaultCtxGetter
	}

	return s.ctxGetter
}

func (s *serviceProvider) TxManager(ctx context.Context) trm.Manager {
	if s.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(s.DBClient(ctx)))
		if err != nil {
			log.Fatalf("failed to create tx manager: %s", err.Error())
		}
		s.txManager = m
	}

	return s.txManager
}

func (s *serviceProvider) Publisher(ctx context.Context) notify.Publisher {
	if s.publisher == nil {
		addr := s.RedisConfig().Addr()
		if len(addr) == 0 {
			s.publisher = notify.NoopPublisher{}
			return s.publisher
		}

		rdb, err := notify.Connect(addr)
		if err != nil {
			log.Fatalf("failed to connect redis: %s", err.Error())
		}

		s.publisher = notify.NewRedisPublisher(rdb, s.RedisConfig().EventsChannel())
	}

	return s.publisher
}

func (s *serviceProvider) RoundRepository(ctx context.Context) repository.RoundRepository {
	if s.roundRepository == nil {
		s.roundRepository = round_repo.NewRoundRepository(s.DBClient(ctx), s.CtxGetter())
	}

	return s.roundRepository
}

func (s *serviceProvider) WagerRepository(ctx context.Context) repository.WagerRepository {
	if s.wagerRepository == nil {
		s.wagerRepository = wager_repo.NewWagerRepository(s.DBClient(ctx), s.CtxGetter())
	}

	return s.wagerRepository
}

func (s *serviceProvider) ResultRepository(ctx context.Context) repository.ResultRepository {
	if s.resultRepository == nil {
		s.resultRepository = result_repo.NewResultRepository(s.DBClient(ctx), s.CtxGetter())
	}

	return s.resultRepository
}

func (s *serviceProvider) UserRepository(ctx context.Context) repository.UserRepository {
	if s.userRepository == nil {
		s.userRepository = user_repo.NewUserRepository(s.DBClient(ctx), s.CtxGetter())
	}

	return s.userRepository
}

func (s *serviceProvider) AuthRepository(ctx context.Context) repository.AuthRepository {
	if s.authRepository == nil {
		s.authRepository = auth_repo.NewAuthRepository(s.DBClient(ctx), s.CtxGetter())
	}

	return s.authRepository
}

func (s *serviceProvider) SettlementService(ctx context.Context) service.SettlementService {
	if s.settlementService == nil {
		s.settlementService = settlementserv.NewSettlementService(
			s.GameConfig(),
			s.RoundRepository(ctx),
			s.WagerRepository(ctx),
			s.ResultRepository(ctx),
			s.UserRepository(ctx),
			s.TxManager(ctx),
			s.Publisher(ctx),
			s.Logger(),
			nil,
		)
	}

	return s.settlementService
}

func (s *serviceProvider) GameService(ctx context.Context) service.GameService {
	if s.gameService == nil {
		s.gameService = gameserv.NewGameService(
			s.GameConfig(),
			s.RoundRepository(ctx),
			s.WagerRepository(ctx),
			s.ResultRepository(ctx),
			s.UserRepository(ctx),
			s.SettlementService(ctx),
			s.TxManager(ctx),
			s.Logger(),
		)
	}

	return s.gameService
}

func (s *serviceProvider) SchedulerService(ctx context.Context) service.SchedulerService {
	if s.schedulerService == nil {
		s.schedulerService = schedulerserv.NewSchedulerService(
			s.GameConfig(),
			s.RoundRepository(ctx),
			s.SettlementService(ctx),
			s.Publisher(ctx),
			s.Logger(),
		)
	}

	return s.schedulerService
}

func (s *serviceProvider) AuthService(ctx context.Context) service.AuthService {
	if s.authService == nil {
		s.authService = authserv.NewAuthService(
			s.TxManager(ctx),
			s.UserRepository(ctx),
			s.AuthRepository(ctx),
			s.JWTConfig(),
		)
	}

	return s.authService
}

func (s *serviceProvider) LeaderboardService(ctx context.Context) service.LeaderboardService {
	if s.leaderboardService == nil {
		s.leaderboardService = lbserv.NewLeaderboardService(s.UserRepository(ctx))
	}

	return s.leaderboardService
}

func (s *serviceProvider) AuthMiddleware() *middleware.Auth {
	if s.authMiddleware == nil {
		s.authMiddleware = middleware.NewAuth(s.JWTConfig())
	}

	return s.authMiddleware
}

func (s *serviceProvider) GameHandler(ctx context.Context) *apigame.Handler {
	if s.gameHandler == nil {
		s.gameHandler = apigame.NewHandler(
			s.GameService(ctx),
			s.SchedulerService(ctx),
			s.GameConfig(),
		)
	}

	return s.gameHandler
}

func (s *serviceProvider) AuthHandler(ctx context.Context) *apiauth.Handler {
	if s.authHandler == nil {
		s.authHandler = apiauth.NewHandler(s.AuthService(ctx), s.JWTConfig())
	}

	return s.authHandler
}

func (s *serviceProvider) LeaderboardHandler(ctx context.Context) *apileaderboard.Handler {
	if s.leaderboardHandler == nil {
		s.leaderboardHandler = apileaderboard.NewHandler(s.LeaderboardService(ctx))
	}

	return s.leaderboardHandler
}
