package calculations

import (
	"math"

	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
)

// PeriodicPayment рассчитывает ежемесячный аннуитетный платеж
func PeriodicPayment(principal, annualRatePercent, termYears float64) (float64, error) {
	if err := checkNonNegative("principal", principal); err != nil {
		return 0, err
	}
	if err := checkNonNegative("annual_rate_percent", annualRatePercent); err != nil {
		return 0, err
	}
	if !utils.IsFinite(termYears) || termYears <= 0 {
		return 0, invalid("term_years", "срок должен быть > 0")
	}

	return annuityPayment(principal, annualRatePercent/100.0/12.0, termYears*12.0), nil
}

// annuityPayment считает платеж по месячной ставке r на n периодов без проверок
func annuityPayment(principal, r, n float64) float64 {
	if r == 0.0 {
		return principal / n
	}
	return principal * r / (1.0 - math.Pow(1.0+r, -n))
}
