package repository

import (
	"context"
	"time"

	"zoo_roulette/internal/model"
)

type RoundRepository interface {
	// CreateRound - создает открытый раунд. Если открытый раунд уже есть
	// (гонка конкурентных вызовов), возвращает существующий.
	CreateRound(ctx context.Context, start, end time.Time) (*model.Round, error)
	// GetActiveRound - самый свежий открытый раунд, nil если его нет
	GetActiveRound(ctx context.Context) (*model.Round, error)
	GetRoundByID(ctx context.Context, id int64) (*model.Round, error)
	// CloseRound - переводит раунд в settled. Возвращает false, если раунд
	// уже закрыл параллельный вызов.
	CloseRound(ctx context.Context, id int64, result string, settledAt time.Time) (bool, error)
	ListExpiredRounds(ctx context.Context, now time.Time) ([]model.Round, error)
	ListRecentRounds(ctx context.Context, limit, offset int) ([]model.Round, error)
}

type WagerRepository interface {
	CreateWager(ctx context.Context, wager *model.Wager) (int64, error)
	CreateWagers(ctx context.Context, wagers []model.Wager) error
	DeleteUserWagers(ctx context.Context, roundID int64, userID int) error
	GetWagersByRound(ctx context.Context, roundID int64) ([]model.Wager, error)
	GetUserWagers(ctx context.Context, roundID int64, userID int) ([]model.Wager, error)
	GetUserWagersForRounds(ctx context.Context, userID int, roundIDs []int64) ([]model.Wager, error)
}

type ResultRepository interface {
	// CreateResult - запись о расчете ставки, не более одной на ставку
	CreateResult(ctx context.Context, result *model.WagerResult) error
	GetUserResultsForRounds(ctx context.Context, userID int, roundIDs []int64) ([]model.WagerResult, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (id int, err error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)

	GetBalance(ctx context.Context, id int) (int, error)
	// AddBalance - атомарный инкремент баланса
	AddBalance(ctx context.Context, id int, amount int) error
	// DebitBalance - атомарное списание с проверкой достаточности средств.
	// Возвращает false, если средств не хватило.
	DebitBalance(ctx context.Context, id int, amount int) (bool, error)

	GetUsernames(ctx context.Context, ids []int) (map[int]string, error)
	GetTopUsers(ctx context.Context, limit int) ([]model.User, error)
	GetUserRank(ctx context.Context, id int) (rank int, total int, err error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetRefreshTokenBySessionID(ctx context.Context, sessionID string) (refreshToken string, err error)
	GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
