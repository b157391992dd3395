package service

import (
	"context"

	"zoo_roulette/internal/model"
)

type GameService interface {
	PlaceWager(ctx context.Context, req model.PlaceWager) (*model.PlacedWager, error)
	ReplaceWagers(ctx context.Context, betsByOutcome map[string]int) (*model.ReplacedWagers, error)
	State(ctx context.Context) (*model.RoundState, error)
	History(ctx context.Context, limit, page int) ([]model.RoundHistory, error)
}

type SettlementService interface {
	// SettleRound - идемпотентный расчет раунда, безопасен при
	// конкурентных вызовах из нескольких процессов
	SettleRound(ctx context.Context, roundID int64) (*model.Outcome, error)
	Draw() model.Outcome
}

type SchedulerService interface {
	EnsureActiveRound(ctx context.Context) (*model.Round, error)
	ProcessCycle(ctx context.Context) error
	Run(ctx context.Context)
}

type AuthService interface {
	Register(ctx context.Context, user *model.User) (*model.AuthData, error)
	Login(ctx context.Context, login, password string) (*model.AuthData, error)
	Refresh(ctx context.Context, sessionID, refreshToken string) (newAccessToken string, err error)
	Logout(ctx context.Context, sessionID string) error
	Profile(ctx context.Context) (*model.User, error)
}

type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]model.User, error)
	Rank(ctx context.Context, userID int) (rank int, total int, err error)
}
