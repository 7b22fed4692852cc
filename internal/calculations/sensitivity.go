package calculations

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RateSensitivity пересчитывает расходы и сравнение для набора плавающих ставок.
// Каждая ставка считается независимо на собственной копии параметров, порядок
// результата совпадает с порядком ставок.
func RateSensitivity(ctx context.Context, loan LoanParameters, fees FeeSchedule, rates RecurringCostRates,
	rent RentParameters, opts AdvancedOptions, floatingRates []float64) ([]SensitivityPoint, error) {

	if len(floatingRates) == 0 {
		return nil, invalid("floating_rates", "нужна хотя бы одна ставка")
	}
	for _, rate := range floatingRates {
		if err := checkNonNegative("floating_rates", rate); err != nil {
			return nil, err
		}
	}

	points := make([]SensitivityPoint, len(floatingRates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, rate := range floatingRates {
		i, rate := i, rate
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			scenario := loan
			scenario.ReferenceRatePct = rate
			scenario.BankMarginPct = 0

			costs, err := ComputeMortgageCosts(scenario, rates)
			if err != nil {
				return err
			}
			cmp, err := RunComparison(scenario, fees, rates, rent, opts)
			if err != nil {
				return err
			}

			points[i] = SensitivityPoint{
				FloatingRatePct:  rate,
				MonthlyFloating:  costs.MonthlyFloating,
				TotalInterest:    costs.TotalInterest,
				TotalPayment:     costs.TotalPayment,
				FinalNetPosition: cmp.FinalNetPosition,
				BreakEvenYear:    cmp.BreakEvenYear,
				BreakEvenFound:   cmp.BreakEvenFound,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
