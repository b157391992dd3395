package converter

import (
	authdto "zoo_roulette/internal/api/dto/auth"
	"zoo_roulette/internal/model"
)

func ToAuthResponse(data *model.AuthData) authdto.AuthResponse {
	return authdto.AuthResponse{
		AccessToken: data.AccessToken,
		User:        ToUserFromModel(data.User),
	}
}

func ToUserFromModel(user *model.User) authdto.User {
	return authdto.User{
		ID:      user.ID,
		Login:   user.Login,
		Balance: user.Balance,
	}
}
