package model

import "time"

const (
	RoundStatusOpen    = "open"
	RoundStatusSettled = "settled"
)

// Round - один игровой раунд. Переход open -> settled выполняется ровно один раз.
type Round struct {
	ID        int64
	Status    string
	StartTime time.Time
	EndTime   time.Time
	Result    *string // ID выигравшего исхода, nil пока раунд открыт
	SettledAt *time.Time
}

// Expired - истекло ли время приема ставок (без учета льготного окна)
func (r *Round) Expired(now time.Time) bool {
	return !now.Before(r.EndTime)
}
