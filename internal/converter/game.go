package converter

import (
	"time"

	gamedto "zoo_roulette/internal/api/dto/game"
	"zoo_roulette/internal/config"
	"zoo_roulette/internal/model"
)

func ToPlaceWagerResponse(placed *model.PlacedWager) gamedto.PlaceWagerResponse {
	return gamedto.PlaceWagerResponse{
		Message: "bet placed",
		Balance: placed.Balance,
		Bet: gamedto.Bet{
			Animal: placed.Wager.Outcome,
			Amount: placed.Wager.Amount,
		},
	}
}

func ToReplaceWagersResponse(replaced *model.ReplacedWagers) gamedto.ReplaceWagersResponse {
	bets := make([]gamedto.Bet, 0, len(replaced.Wagers))
	for _, w := range replaced.Wagers {
		bets = append(bets, gamedto.Bet{
			Animal: w.Outcome,
			Amount: w.Amount,
		})
	}

	return gamedto.ReplaceWagersResponse{
		Message:      "bets placed",
		Balance:      replaced.Balance,
		TotalAmount:  replaced.TotalAmount,
		RefundAmount: replaced.RefundAmount,
		NetAmount:    replaced.NetAmount,
		Bets:         bets,
	}
}

func ToStateResponse(state *model.RoundState) gamedto.StateResponse {
	res := gamedto.StateResponse{
		Status:    state.Status,
		Countdown: state.Countdown,
		Bets:      make(map[string][]gamedto.BetInfo),
	}

	if state.Round != nil {
		res.Game = &gamedto.GameInfo{
			ID:      state.Round.ID,
			StartAt: state.Round.StartTime.Format(time.RFC3339),
			EndAt:   state.Round.EndTime.Format(time.RFC3339),
		}
	}

	if state.Result != nil {
		res.Result = &gamedto.ResultInfo{
			Animal:      state.Result.ID,
			DisplayName: state.Result.DisplayName,
			Multiplier:  state.Result.Multiplier,
		}
	}

	// Ставки группируются по исходам для отображения стола
	for _, bet := range state.Bets {
		res.Bets[bet.Outcome] = append(res.Bets[bet.Outcome], gamedto.BetInfo{
			Username: bet.Username,
			Amount:   bet.Amount,
		})
	}

	return res
}

func ToHistoryResponse(rounds []model.RoundHistory, gameCfg config.GameConfig) gamedto.HistoryResponse {
	res := gamedto.HistoryResponse{
		Rounds: make([]gamedto.HistoryRound, 0, len(rounds)),
	}

	for _, rh := range rounds {
		hr := gamedto.HistoryRound{
			ID:            rh.Round.ID,
			TotalBet:      rh.TotalBet,
			TotalWinnings: rh.TotalWinnings,
		}

		if rh.Round.Result != nil {
			hr.Result = *rh.Round.Result
			if outcome, ok := gameCfg.OutcomeByID(*rh.Round.Result); ok {
				hr.DisplayName = outcome.DisplayName
				hr.Multiplier = outcome.Multiplier
			}
		}
		if rh.Round.SettledAt != nil {
			hr.SettledAt = rh.Round.SettledAt.Format(time.RFC3339)
		}

		for _, w := range rh.UserWagers {
			hr.Bets = append(hr.Bets, gamedto.Bet{
				Animal: w.Outcome,
				Amount: w.Amount,
			})
		}

		res.Rounds = append(res.Rounds, hr)
	}

	return res
}

func ToCreateRoundResponse(round *model.Round) gamedto.CreateRoundResponse {
	return gamedto.CreateRoundResponse{
		Message: "round active",
		Game: gamedto.GameInfo{
			ID:      round.ID,
			StartAt: round.StartTime.Format(time.RFC3339),
			EndAt:   round.EndTime.Format(time.RFC3339),
		},
	}
}
