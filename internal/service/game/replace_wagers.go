package game

import (
	"context"
	"errors"
	"time"

	"zoo_roulette/internal/metrics"
	"zoo_roulette/internal/middleware"
	"zoo_roulette/internal/model"
)

// ReplaceWagers - замена всей аллокации ставок пользователя в текущем раунде.
// Клиент может пересобирать свои ставки до закрытия раунда сколько угодно раз:
// старые ставки удаляются, новые вставляются, с баланса списывается только
// разница между новой и старой суммами. Двойного списания не происходит.
func (s *serv) ReplaceWagers(ctx context.Context, betsByOutcome map[string]int) (*model.ReplacedWagers, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user id not found")
	}

	// Пакетные ставки принимаются только на обычные исходы
	newTotal := 0
	for outcome, amount := range betsByOutcome {
		o, found := s.gameCfg.OutcomeByID(outcome)
		if !found || o.Special {
			return nil, model.ErrInvalidOutcome
		}
		if amount < 0 {
			return nil, model.ErrInvalidAmount
		}
		newTotal += amount
	}
	if newTotal <= 0 {
		return nil, model.ErrInvalidAmount
	}

	round, err := s.roundRepo.GetActiveRound(ctx)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, model.ErrNoActiveRound
	}

	// У пакетной замены льготное окно шире, чем у одиночной ставки:
	// клиент отправляет финальную аллокацию в последний момент
	if time.Now().After(round.EndTime.Add(s.gameCfg.BatchWagerGrace())) {
		return nil, model.ErrRoundClosed
	}

	var replaced *model.ReplacedWagers
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.wagerRepo.GetUserWagers(ctx, round.ID, userID)
		if err != nil {
			return err
		}

		previousTotal := 0
		for _, w := range existing {
			previousTotal += w.Amount
		}

		net := newTotal - previousTotal
		switch {
		case net > 0:
			debited, err := s.userRepo.DebitBalance(ctx, userID, net)
			if err != nil {
				return err
			}
			if !debited {
				return model.ErrInsufficientBalance
			}
		case net < 0:
			if err := s.userRepo.AddBalance(ctx, userID, -net); err != nil {
				return err
			}
		}

		if err := s.wagerRepo.DeleteUserWagers(ctx, round.ID, userID); err != nil {
			return err
		}

		now := time.Now()
		wagers := make([]model.Wager, 0, len(betsByOutcome))
		for outcome, amount := range betsByOutcome {
			if amount == 0 {
				continue
			}
			wagers = append(wagers, model.Wager{
				RoundID:   round.ID,
				UserID:    userID,
				Outcome:   outcome,
				Amount:    amount,
				CreatedAt: now,
			})
		}
		if err := s.wagerRepo.CreateWagers(ctx, wagers); err != nil {
			return err
		}

		balance, err := s.userRepo.GetBalance(ctx, userID)
		if err != nil {
			return err
		}

		replaced = &model.ReplacedWagers{
			Wagers:       wagers,
			Balance:      balance,
			TotalAmount:  newTotal,
			RefundAmount: previousTotal,
			NetAmount:    net,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.WagersPlaced.Inc()
	return replaced, nil
}
