package auth

import (
	"context"
	"errors"

	"zoo_roulette/internal/middleware"
	"zoo_roulette/internal/model"
)

func (s *serv) Profile(ctx context.Context) (*model.User, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user id not found")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	return user, nil
}
