package game

import (
	"context"
	"time"

	"zoo_roulette/internal/model"
)

// State - текущее состояние игры. Анонимный доступ разрешен.
// Если активный раунд уже истек, он досчитывается здесь же через движок
// расчета - клиент сразу видит результат, не дожидаясь тика планировщика.
func (s *serv) State(ctx context.Context) (*model.RoundState, error) {
	round, err := s.roundRepo.GetActiveRound(ctx)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return &model.RoundState{
			Status:    model.RoundStateWaiting,
			Countdown: int(s.gameCfg.RoundDuration().Seconds()),
			Bets:      []model.BetInfo{},
		}, nil
	}

	now := time.Now()
	if round.Expired(now) {
		outcome, err := s.settleServ.SettleRound(ctx, round.ID)
		if err != nil {
			return nil, err
		}
		return &model.RoundState{
			Round:     round,
			Status:    model.RoundStateEnded,
			Countdown: 0,
			Bets:      []model.BetInfo{},
			Result:    outcome,
		}, nil
	}

	wagers, err := s.wagerRepo.GetWagersByRound(ctx, round.ID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]int, 0, len(wagers))
	seen := make(map[int]bool, len(wagers))
	for _, w := range wagers {
		if !seen[w.UserID] {
			seen[w.UserID] = true
			userIDs = append(userIDs, w.UserID)
		}
	}

	usernames, err := s.userRepo.GetUsernames(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	bets := make([]model.BetInfo, 0, len(wagers))
	for _, w := range wagers {
		bets = append(bets, model.BetInfo{
			Username: usernames[w.UserID],
			Outcome:  w.Outcome,
			Amount:   w.Amount,
		})
	}

	return &model.RoundState{
		Round:     round,
		Status:    model.RoundStateActive,
		Countdown: int(round.EndTime.Sub(now).Seconds()),
		Bets:      bets,
	}, nil
}
