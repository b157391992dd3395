package leaderboard

type TopResponse struct {
	Users []Entry `json:"users"`
}

type Entry struct {
	Login   string `json:"login"`
	Balance int    `json:"balance"`
}

type RankResponse struct {
	Rank  int `json:"rank"`
	Total int `json:"total"`
}
