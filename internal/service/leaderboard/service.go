package leaderboard

import (
	"context"
	"errors"

	"zoo_roulette/internal/model"
	"zoo_roulette/internal/repository"
	"zoo_roulette/internal/service"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type serv struct {
	userRepo repository.UserRepository
}

func NewLeaderboardService(userRepo repository.UserRepository) service.LeaderboardService {
	return &serv{userRepo: userRepo}
}

// Top - пользователи с наибольшим балансом
func (s *serv) Top(ctx context.Context, limit int) ([]model.User, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return s.userRepo.GetTopUsers(ctx, limit)
}

// Rank - позиция пользователя в таблице лидеров
func (s *serv) Rank(ctx context.Context, userID int) (int, int, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	if user == nil {
		return 0, 0, errors.New("user not found")
	}

	return s.userRepo.GetUserRank(ctx, userID)
}
