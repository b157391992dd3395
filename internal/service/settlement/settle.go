package settlement

import (
	"context"
	"fmt"
	"time"

	"zoo_roulette/internal/metrics"
	"zoo_roulette/internal/model"
	"zoo_roulette/internal/notify"

	"go.uber.org/zap"
)

// SettleRound - рассчитывает раунд ровно один раз.
//
// Точка сериализации - условное обновление статуса раунда: из конкурентных
// вызовов выплаты выполняет только тот, чей CloseRound обновил строку.
// Проигравший гонку читает сохраненный результат и возвращает его.
func (s *serv) SettleRound(ctx context.Context, roundID int64) (*model.Outcome, error) {
	round, err := s.roundRepo.GetRoundByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, fmt.Errorf("round %d not found", roundID)
	}
	if round.Status == model.RoundStatusSettled {
		return s.storedOutcome(round)
	}

	outcome := s.Draw()

	won, err := s.roundRepo.CloseRound(ctx, roundID, outcome.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if !won {
		// Раунд закрыл параллельный вызов - выплатами занимается он
		round, err = s.roundRepo.GetRoundByID(ctx, roundID)
		if err != nil {
			return nil, err
		}
		return s.storedOutcome(round)
	}

	s.logger.Info("round settled",
		zap.Int64("round_id", roundID),
		zap.String("result", outcome.ID),
	)

	wagers, err := s.wagerRepo.GetWagersByRound(ctx, roundID)
	if err != nil {
		// Раунд уже закрыт, повторный вызов выплат не сделает:
		// такие ставки закрывает внешняя сверка по wager_results
		s.logger.Error("failed to load wagers for settled round",
			zap.Int64("round_id", roundID),
			zap.Error(err),
		)
		return nil, err
	}

	for i := range wagers {
		wager := wagers[i]

		payout := 0
		if wager.Outcome == outcome.ID {
			payout = wager.Amount * outcome.Multiplier
		}

		// Неудача одной выплаты не блокирует остальные: частично
		// рассчитанный раунд восстановим сверкой, зависший - нет
		if err := s.settleWager(ctx, &wager, outcome.ID, payout); err != nil {
			metrics.PayoutFailures.Inc()
			s.logger.Error("wager settlement failed",
				zap.Int64("round_id", roundID),
				zap.Int64("wager_id", wager.ID),
				zap.Int("user_id", wager.UserID),
				zap.Int("payout", payout),
				zap.Error(err),
			)
			continue
		}
	}

	metrics.RoundsSettled.Inc()
	s.publishRoundEnd(ctx, roundID, outcome)

	return &outcome, nil
}

// settleWager - запись результата и зачисление выигрыша одной ставки,
// атомарно относительно друг друга
func (s *serv) settleWager(ctx context.Context, wager *model.Wager, result string, payout int) error {
	return s.txManager.Do(ctx, func(ctx context.Context) error {
		err := s.resultRepo.CreateResult(ctx, &model.WagerResult{
			WagerID:   wager.ID,
			RoundID:   wager.RoundID,
			UserID:    wager.UserID,
			Result:    result,
			Payout:    payout,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return err
		}

		if payout > 0 {
			return s.userRepo.AddBalance(ctx, wager.UserID, payout)
		}

		return nil
	})
}

// storedOutcome - исход уже рассчитанного раунда из его записи
func (s *serv) storedOutcome(round *model.Round) (*model.Outcome, error) {
	if round.Result == nil {
		return nil, fmt.Errorf("round %d is settled but has no result", round.ID)
	}

	outcome, ok := s.gameCfg.OutcomeByID(*round.Result)
	if !ok {
		return nil, fmt.Errorf("round %d has unknown result %q", round.ID, *round.Result)
	}

	return &outcome, nil
}

func (s *serv) publishRoundEnd(ctx context.Context, roundID int64, outcome model.Outcome) {
	err := s.publisher.Publish(ctx, notify.EventRoundEnd, map[string]interface{}{
		"round_id":     roundID,
		"result":       outcome.ID,
		"display_name": outcome.DisplayName,
		"multiplier":   outcome.Multiplier,
	})
	if err != nil {
		s.logger.Warn("failed to publish round_end event",
			zap.Int64("round_id", roundID),
			zap.Error(err),
		)
	}
}
