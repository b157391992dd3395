package model

// Outcome - один из возможных исходов розыгрыша.
// Таблица исходов фиксируется на старте из config.yaml и не меняется.
type Outcome struct {
	ID          string
	DisplayName string
	Weight      float64 // Относительный вес, не процент
	Multiplier  int
	Special     bool // Фестивальные комбо-исходы
}
