package scheduler

import (
	"context"
	"time"

	"zoo_roulette/internal/model"
	"zoo_roulette/internal/notify"

	"go.uber.org/zap"
)

// EnsureActiveRound - гарантирует наличие открытого не истекшего раунда.
// Истекший раунд сначала досчитывается, затем создается новый. Гонка
// конкурентных созданий разрешается уникальным индексом в БД, поэтому
// лишних раундов не появляется.
func (s *serv) EnsureActiveRound(ctx context.Context) (*model.Round, error) {
	round, err := s.roundRepo.GetActiveRound(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if round != nil && !round.Expired(now) {
		return round, nil
	}

	if round != nil {
		if _, err := s.settleServ.SettleRound(ctx, round.ID); err != nil {
			// Раунд не должен застрять открытым: следующий вызов повторит расчет
			s.logger.Error("failed to settle expired round",
				zap.Int64("round_id", round.ID),
				zap.Error(err),
			)
			return nil, err
		}
	}

	newRound, err := s.roundRepo.CreateRound(ctx, now, now.Add(s.gameCfg.RoundDuration()))
	if err != nil {
		return nil, err
	}

	// Дубликат round_start при гонке создания допустим:
	// подписчики обязаны переживать и пропуск, и повтор событий
	s.publishRoundStart(ctx, newRound)

	return newRound, nil
}

// ProcessCycle - один цикл планировщика: досчитать все истекшие раунды,
// затем обеспечить активный
func (s *serv) ProcessCycle(ctx context.Context) error {
	expired, err := s.roundRepo.ListExpiredRounds(ctx, time.Now())
	if err != nil {
		return err
	}

	for _, round := range expired {
		if _, err := s.settleServ.SettleRound(ctx, round.ID); err != nil {
			s.logger.Error("failed to settle expired round",
				zap.Int64("round_id", round.ID),
				zap.Error(err),
			)
		}
	}

	_, err = s.EnsureActiveRound(ctx)
	return err
}

// Run - фоновый цикл для долгоживущего процесса. Ошибки цикла только
// логируются: следующий тик и есть механизм повтора.
func (s *serv) Run(ctx context.Context) {
	s.logger.Info("round scheduler started",
		zap.Duration("tick_interval", s.gameCfg.TickInterval()),
		zap.Duration("round_duration", s.gameCfg.RoundDuration()),
	)

	if err := s.ProcessCycle(ctx); err != nil {
		s.logger.Error("game cycle failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.gameCfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("round scheduler stopped")
			return
		case <-ticker.C:
			if err := s.ProcessCycle(ctx); err != nil {
				s.logger.Error("game cycle failed", zap.Error(err))
			}
		}
	}
}

func (s *serv) publishRoundStart(ctx context.Context, round *model.Round) {
	err := s.publisher.Publish(ctx, notify.EventRoundStart, map[string]interface{}{
		"round_id": round.ID,
		"end_time": round.EndTime,
	})
	if err != nil {
		s.logger.Warn("failed to publish round_start event",
			zap.Int64("round_id", round.ID),
			zap.Error(err),
		)
	}
}
