package calculations

import (
	"math"

	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
)

// MaxBreakEvenYear ограничивает поиск точки безубыточности
const MaxBreakEvenYear = 100

// RunComparison моделирует покупку и аренду год за годом и ищет точку безубыточности.
//
// Каждый год зависит только от остатка долга предыдущего года, поэтому цикл
// строго последовательный.
func RunComparison(loan LoanParameters, fees FeeSchedule, rates RecurringCostRates,
	rent RentParameters, opts AdvancedOptions) (*ComparisonResult, error) {

	if err := validateLoan(loan); err != nil {
		return nil, err
	}
	if err := validateRates(rates); err != nil {
		return nil, err
	}
	if err := validateRent(rent); err != nil {
		return nil, err
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	loanAmount := loan.LoanAmount()
	downPayment := loan.DownPayment()

	upfront, err := ComputeUpfrontCosts(loan.PropertyPrice, loanAmount, downPayment, fees)
	if err != nil {
		return nil, err
	}

	schedule, err := BuildAmortizationSchedule(loanAmount, loan.FixedYears, loan.MortgageYears,
		loan.FixedRatePct, loan.FloatingRatePct())
	if err != nil {
		return nil, err
	}
	costs := AggregateCosts(schedule, loan, rates)

	appreciation := 1.0 + rent.AppreciationPct/100.0
	rentGrowth := 1.0 + rent.RentGrowthPct/100.0
	annualServiceCharge := rates.AnnualServiceCharge()
	annualHomeInsurance := rates.HomeInsurancePct / 100.0 * loan.PropertyPrice

	opportunityCost := func(year int) float64 {
		if !opts.IncludeOpportunityCost {
			return 0.0
		}
		return downPayment * (math.Pow(1.0+opts.InvestmentReturnPct/100.0, float64(year)) - 1.0)
	}

	records := make([]ComparisonYearRecord, 0, rent.CompareYears)
	balance := loanAmount
	currentRent := rent.MonthlyRent
	cumRent := 0.0
	cumCost := upfront.Total

	for year := 1; year <= rent.CompareYears; year++ {
		propertyValue := loan.PropertyPrice * math.Pow(appreciation, float64(year))

		annualRent := currentRent * 12.0
		cumRent += annualRent
		currentRent *= rentGrowth

		annualCost := 0.0
		if year <= loan.MortgageYears && balance > 0 {
			payment, ratePct := schedule.FloatingPayment, loan.FloatingRatePct()
			if year <= loan.FixedYears {
				payment, ratePct = schedule.FixedPayment, loan.FixedRatePct
			}

			annualPayment := payment * 12.0
			annualInterest := balance * ratePct / 100.0 / 12.0 * 12.0
			annualPrincipal := annualPayment - annualInterest

			annualPayment -= annualInterest * (opts.TaxAdvantagePct / 100.0)
			balance = math.Max(0.0, balance-annualPrincipal)

			annualCost += annualPayment
		} else {
			balance = 0.0
		}

		annualCost += annualServiceCharge
		annualCost += annualHomeInsurance
		if balance > 0 {
			annualCost += rates.LifeInsurancePct / 100.0 * balance
		}
		annualCost += opts.AdditionalCostPct / 100.0 * propertyValue

		cumCost += annualCost

		equity := propertyValue - balance
		oc := opportunityCost(year)
		net := equity - cumCost - oc

		records = append(records, ComparisonYearRecord{
			Year:                    year,
			PropertyValue:           propertyValue,
			RemainingBalance:        balance,
			AnnualRent:              annualRent,
			CumulativeRent:          cumRent,
			AnnualOwnershipCost:     annualCost,
			CumulativeOwnershipCost: cumCost,
			Equity:                  equity,
			OpportunityCost:         oc,
			NetPosition:             net,
			Advantage:               net - (-cumRent),
		})
	}

	final := records[len(records)-1]
	result := &ComparisonResult{
		Years:              records,
		FinalRentCost:      final.CumulativeRent,
		FinalBuyCost:       final.CumulativeOwnershipCost,
		FinalPropertyValue: final.PropertyValue,
		FinalEquity:        final.Equity,
		FinalNetPosition:   final.NetPosition,
		UpfrontCost:        upfront.Total,
		TotalBuyingCost:    costs.TotalPayment + upfront.Total,
		BuyingBetter:       final.NetPosition > -final.CumulativeRent,
	}

	for _, rec := range records {
		if rec.Advantage > 0 {
			result.BreakEvenYear = rec.Year
			result.BreakEvenFound = true
			result.BreakEvenWithinHorizon = true
			return result, nil
		}
	}

	// Продлеваем сравнение после горизонта: стоимость растет, аренда растет,
	// расходы владельца больше не учитываются.
	for year := rent.CompareYears + 1; year <= MaxBreakEvenYear; year++ {
		propertyValue := loan.PropertyPrice * math.Pow(appreciation, float64(year))

		cumRent += currentRent * 12.0
		currentRent *= rentGrowth

		heldBalance := final.RemainingBalance
		if year > loan.MortgageYears {
			heldBalance = 0.0
		}

		advantage := propertyValue - heldBalance - final.CumulativeOwnershipCost - opportunityCost(year) + cumRent
		if advantage > 0 {
			result.BreakEvenYear = year
			result.BreakEvenFound = true
			return result, nil
		}
	}

	return result, nil
}

func validateRent(r RentParameters) error {
	if err := checkNonNegative("monthly_rent", r.MonthlyRent); err != nil {
		return err
	}
	if !utils.IsFinite(r.RentGrowthPct) || r.RentGrowthPct <= -100 {
		return invalid("rent_growth_pct", "значение должно быть > -100")
	}
	if !utils.IsFinite(r.AppreciationPct) || r.AppreciationPct <= -100 {
		return invalid("appreciation_pct", "значение должно быть > -100")
	}
	if r.CompareYears <= 0 || r.CompareYears > MaxBreakEvenYear {
		return invalid("compare_years", "значение должно быть в диапазоне [1; %d]", MaxBreakEvenYear)
	}
	return nil
}

func validateOptions(o AdvancedOptions) error {
	if err := checkNonNegative("tax_advantage_pct", o.TaxAdvantagePct); err != nil {
		return err
	}
	if o.TaxAdvantagePct > 100 {
		return invalid("tax_advantage_pct", "значение должно быть ≤ 100")
	}
	if err := checkNonNegative("additional_cost_pct", o.AdditionalCostPct); err != nil {
		return err
	}
	if !utils.IsFinite(o.InvestmentReturnPct) || o.InvestmentReturnPct <= -100 {
		return invalid("investment_return_pct", "значение должно быть > -100")
	}
	return nil
}
