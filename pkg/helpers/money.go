package helpers

import "math"

// RoundMoney rounds to cents, half away from zero on value*100.
// Applied to every amount before it is persisted.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
