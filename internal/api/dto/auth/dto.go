package auth

type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

type User struct {
	ID      int    `json:"id"`
	Login   string `json:"login"`
	Balance int    `json:"balance"`
}
