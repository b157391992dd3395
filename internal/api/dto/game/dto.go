package game

// PlaceWagerRequest - одиночная ставка на исход
type PlaceWagerRequest struct {
	Animal string `json:"animal"`
	Amount int    `json:"amount"`
}

type PlaceWagerResponse struct {
	Message string `json:"message"`
	Balance int    `json:"balance"`
	Bet     Bet    `json:"bet"`
}

type Bet struct {
	Animal string `json:"animal"`
	Amount int    `json:"amount"`
}

// ReplaceWagersRequest - полный набор ставок пользователя на раунд
type ReplaceWagersRequest struct {
	Bets map[string]int `json:"bets"`
}

type ReplaceWagersResponse struct {
	Message      string `json:"message"`
	Balance      int    `json:"balance"`
	TotalAmount  int    `json:"total_amount"`
	RefundAmount int    `json:"refund_amount"`
	NetAmount    int    `json:"net_amount"`
	Bets         []Bet  `json:"bets"`
}

type StateResponse struct {
	Status    string               `json:"status"`
	Game      *GameInfo            `json:"game,omitempty"`
	Countdown int                  `json:"countdown"`
	Result    *ResultInfo          `json:"result,omitempty"`
	Bets      map[string][]BetInfo `json:"bets"`
}

type GameInfo struct {
	ID      int64  `json:"id"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

type BetInfo struct {
	Username string `json:"username"`
	Amount   int    `json:"amount"`
}

type ResultInfo struct {
	Animal      string `json:"animal"`
	DisplayName string `json:"display_name"`
	Multiplier  int    `json:"multiplier"`
}

type HistoryResponse struct {
	Rounds []HistoryRound `json:"rounds"`
}

type HistoryRound struct {
	ID            int64  `json:"id"`
	Result        string `json:"result"`
	DisplayName   string `json:"display_name"`
	Multiplier    int    `json:"multiplier"`
	SettledAt     string `json:"settled_at"`
	Bets          []Bet  `json:"bets,omitempty"`
	TotalBet      int    `json:"total_bet,omitempty"`
	TotalWinnings int    `json:"total_winnings,omitempty"`
}

// HeartbeatResponse - результат обслуживающего цикла планировщика
type HeartbeatResponse struct {
	Message string `json:"message"`
}

type CreateRoundResponse struct {
	Message string   `json:"message"`
	Game    GameInfo `json:"game"`
}
