package converter

import (
	lbdto "zoo_roulette/internal/api/dto/leaderboard"
	"zoo_roulette/internal/model"
)

func ToTopResponse(users []model.User) lbdto.TopResponse {
	res := lbdto.TopResponse{
		Users: make([]lbdto.Entry, 0, len(users)),
	}

	for _, u := range users {
		res.Users = append(res.Users, lbdto.Entry{
			Login:   u.Login,
			Balance: u.Balance,
		})
	}

	return res
}
