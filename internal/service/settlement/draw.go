package settlement

import (
	"zoo_roulette/internal/model"
)

// Draw - выбирает исход по кумулятивным весам: обычные исходы идут первыми,
// фестивальные после них, в порядке таблицы. Сэмпл равномерный в [0, totalWeight).
func (s *serv) Draw() model.Outcome {
	outcomes := s.gameCfg.Outcomes()

	var totalWeight float64
	for _, o := range outcomes {
		totalWeight += o.Weight
	}

	sample := s.randFn() * totalWeight

	var cumulative float64
	for _, o := range outcomes {
		cumulative += o.Weight
		if sample < cumulative {
			return o
		}
	}

	// Из-за ошибки округления сэмпл может оказаться >= суммы весов.
	// В этом случае отдаем первый исход таблицы.
	return outcomes[0]
}
