package model

import "time"

// Wager - ставка пользователя на исход в рамках раунда
type Wager struct {
	ID        int64
	RoundID   int64
	UserID    int
	Outcome   string
	Amount    int
	CreatedAt time.Time
}

// WagerResult - запись о расчете ставки. Создается ровно один раз на ставку,
// в том числе с нулевой выплатой - для аудита.
type WagerResult struct {
	ID        int64
	WagerID   int64
	RoundID   int64
	UserID    int
	Result    string // ID выигравшего исхода раунда
	Payout    int
	CreatedAt time.Time
}

type PlaceWager struct {
	Outcome string
	Amount  int
}

type PlacedWager struct {
	Wager   *Wager
	Balance int
}

// ReplacedWagers - результат пакетной замены ставок
type ReplacedWagers struct {
	Wagers       []Wager
	Balance      int
	TotalAmount  int
	RefundAmount int // Сумма предыдущих ставок, возвращенная при замене
	NetAmount    int
}

type BetInfo struct {
	Username string
	Outcome  string
	Amount   int
}

const (
	RoundStateWaiting = "waiting"
	RoundStateActive  = "active"
	RoundStateEnded   = "ended"
)

// RoundState - текущее состояние игры для клиентов
type RoundState struct {
	Round     *Round
	Status    string
	Countdown int // Секунд до закрытия раунда
	Bets      []BetInfo
	Result    *Outcome
}

// RoundHistory - прошедший раунд вместе со ставками запросившего пользователя
type RoundHistory struct {
	Round         Round
	UserWagers    []Wager
	UserResults   []WagerResult
	TotalBet      int
	TotalWinnings int
}
