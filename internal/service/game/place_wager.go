package game

import (
	"context"
	"errors"
	"time"

	"zoo_roulette/internal/metrics"
	"zoo_roulette/internal/middleware"
	"zoo_roulette/internal/model"
)

// PlaceWager - одиночная ставка на исход текущего раунда.
// Списание и вставка ставки выполняются в одной транзакции.
func (s *serv) PlaceWager(ctx context.Context, req model.PlaceWager) (*model.PlacedWager, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user id not found")
	}

	if req.Amount <= 0 {
		return nil, model.ErrInvalidAmount
	}
	if _, ok := s.gameCfg.OutcomeByID(req.Outcome); !ok {
		return nil, model.ErrInvalidOutcome
	}

	round, err := s.roundRepo.GetActiveRound(ctx)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, model.ErrNoActiveRound
	}

	// Одиночная ставка принимается еще секунду после закрытия раунда -
	// допуск на расхождение часов и сетевую задержку
	if time.Now().After(round.EndTime.Add(s.gameCfg.SingleWagerGrace())) {
		return nil, model.ErrRoundClosed
	}

	var placed *model.PlacedWager
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		debited, err := s.userRepo.DebitBalance(ctx, userID, req.Amount)
		if err != nil {
			return err
		}
		if !debited {
			return model.ErrInsufficientBalance
		}

		wager := &model.Wager{
			RoundID:   round.ID,
			UserID:    userID,
			Outcome:   req.Outcome,
			Amount:    req.Amount,
			CreatedAt: time.Now(),
		}
		wager.ID, err = s.wagerRepo.CreateWager(ctx, wager)
		if err != nil {
			return err
		}

		balance, err := s.userRepo.GetBalance(ctx, userID)
		if err != nil {
			return err
		}

		placed = &model.PlacedWager{
			Wager:   wager,
			Balance: balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.WagersPlaced.Inc()
	return placed, nil
}
