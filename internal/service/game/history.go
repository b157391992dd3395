package game

import (
	"context"

	"zoo_roulette/internal/middleware"
	"zoo_roulette/internal/model"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// History - прошедшие раунды с результатами. Для авторизованного
// пользователя к каждому раунду добавляются его ставки и выплаты.
func (s *serv) History(ctx context.Context, limit, page int) ([]model.RoundHistory, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if page < 0 {
		page = 0
	}

	rounds, err := s.roundRepo.ListRecentRounds(ctx, limit, page*limit)
	if err != nil {
		return nil, err
	}

	history := make([]model.RoundHistory, len(rounds))
	for i, r := range rounds {
		history[i] = model.RoundHistory{Round: r}
	}

	userID, authed := middleware.UserIDFromContext(ctx)
	if !authed || len(rounds) == 0 {
		return history, nil
	}

	roundIDs := make([]int64, len(rounds))
	for i, r := range rounds {
		roundIDs[i] = r.ID
	}

	wagers, err := s.wagerRepo.GetUserWagersForRounds(ctx, userID, roundIDs)
	if err != nil {
		return nil, err
	}

	results, err := s.resultRepo.GetUserResultsForRounds(ctx, userID, roundIDs)
	if err != nil {
		return nil, err
	}

	byRound := make(map[int64]*model.RoundHistory, len(history))
	for i := range history {
		byRound[history[i].Round.ID] = &history[i]
	}

	for _, w := range wagers {
		h := byRound[w.RoundID]
		if h == nil {
			continue
		}
		h.UserWagers = append(h.UserWagers, w)
		h.TotalBet += w.Amount
	}

	for _, res := range results {
		h := byRound[res.RoundID]
		if h == nil {
			continue
		}
		h.UserResults = append(h.UserResults, res)
		h.TotalWinnings += res.Payout
	}

	return history, nil
}
