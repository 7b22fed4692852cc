package calculations

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func defaultRent() RentParameters {
	return RentParameters{
		MonthlyRent:     8000,
		RentGrowthPct:   5,
		AppreciationPct: 3,
		CompareYears:    20,
	}
}

func TestRunComparisonBreakEven(t *testing.T) {
	result, err := RunComparison(defaultLoan(), defaultFees(), defaultRates(), defaultRent(), AdvancedOptions{})
	if err != nil {
		t.Fatalf("RunComparison() error = %v", err)
	}

	if len(result.Years) != 20 {
		t.Fatalf("expected 20 years, got %d", len(result.Years))
	}
	if !result.BreakEvenFound || !result.BreakEvenWithinHorizon || result.BreakEvenYear != 3 {
		t.Errorf("expected break-even at year 3, got %d (found=%v)", result.BreakEvenYear, result.BreakEvenFound)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"final net position", result.FinalNetPosition, -296443.82175189117},
		{"final rent cost", result.FinalRentCost, 3174331.593877288},
		{"final buy cost", result.FinalBuyCost, 3380541.262015782},
		{"final property value", result.FinalPropertyValue, 3612222.4693388296},
		{"upfront cost", result.UpfrontCost, 546200},
		{"total buying cost", result.TotalBuyingCost, 3529860.8947812836 + 546200},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-4 {
			t.Errorf("%s = %f, want %f", c.name, c.got, c.want)
		}
	}

	if !result.BuyingBetter {
		t.Error("expected buying to be better after 20 years")
	}
	if math.Abs(result.FinalEquity-(result.FinalPropertyValue-result.Years[19].RemainingBalance)) > epsilon {
		t.Errorf("equity %f is not value minus balance", result.FinalEquity)
	}
}

func TestRunComparisonYearRecords(t *testing.T) {
	result, err := RunComparison(defaultLoan(), defaultFees(), defaultRates(), defaultRent(), AdvancedOptions{})
	if err != nil {
		t.Fatal(err)
	}

	first := result.Years[0]
	if first.AnnualRent != 96000 || first.CumulativeRent != 96000 {
		t.Errorf("unexpected first year rent %+v", first)
	}
	if math.Abs(first.PropertyValue-2060000) > epsilon {
		t.Errorf("expected property value 2060000, got %f", first.PropertyValue)
	}
	if first.CumulativeOwnershipCost <= 546200 {
		t.Errorf("first year cost should include upfront cost, got %f", first.CumulativeOwnershipCost)
	}

	for i, rec := range result.Years {
		if rec.Year != i+1 {
			t.Fatalf("record %d has year %d", i, rec.Year)
		}
		if math.Abs(rec.NetPosition-(rec.Equity-rec.CumulativeOwnershipCost-rec.OpportunityCost)) > epsilon {
			t.Errorf("year %d: inconsistent net position", rec.Year)
		}
		if math.Abs(rec.Advantage-(rec.NetPosition+rec.CumulativeRent)) > epsilon {
			t.Errorf("year %d: inconsistent advantage", rec.Year)
		}
		if i > 0 {
			prev := result.Years[i-1]
			if rec.RemainingBalance > prev.RemainingBalance {
				t.Errorf("year %d: balance increased", rec.Year)
			}
			if math.Abs(rec.CumulativeOwnershipCost-prev.CumulativeOwnershipCost-rec.AnnualOwnershipCost) > 1e-6 {
				t.Errorf("year %d: cumulative cost does not accumulate", rec.Year)
			}
		}
	}
}

func TestRunComparisonAfterMortgageTerm(t *testing.T) {
	rent := defaultRent()
	rent.CompareYears = 30

	result, err := RunComparison(defaultLoan(), defaultFees(), defaultRates(), rent, AdvancedOptions{})
	if err != nil {
		t.Fatal(err)
	}

	for _, rec := range result.Years[25:] {
		if rec.RemainingBalance != 0 {
			t.Errorf("year %d: expected paid off loan, got %f", rec.Year, rec.RemainingBalance)
		}
		if math.Abs(rec.AnnualOwnershipCost-26500) > epsilon {
			t.Errorf("year %d: expected only service charge and home insurance, got %f", rec.Year, rec.AnnualOwnershipCost)
		}
		if rec.Equity != rec.PropertyValue {
			t.Errorf("year %d: equity should equal property value", rec.Year)
		}
	}
}

func TestRunComparisonAppreciationMonotonic(t *testing.T) {
	rates := []float64{0, 1, 2, 3, 4, 6}
	wantBreakEven := []int{9, 6, 4, 3, 2, 2}

	var previous *ComparisonResult
	for i, rate := range rates {
		rent := defaultRent()
		rent.AppreciationPct = rate

		result, err := RunComparison(defaultLoan(), defaultFees(), defaultRates(), rent, AdvancedOptions{})
		if err != nil {
			t.Fatalf("appreciation %v: %v", rate, err)
		}
		if result.BreakEvenYear != wantBreakEven[i] {
			t.Errorf("appreciation %v: break-even %d, want %d", rate, result.BreakEvenYear, wantBreakEven[i])
		}

		if previous != nil {
			if result.FinalPropertyValue < previous.FinalPropertyValue {
				t.Errorf("appreciation %v: final property value decreased", rate)
			}
			if result.FinalNetPosition < previous.FinalNetPosition {
				t.Errorf("appreciation %v: final net position decreased", rate)
			}
			for y := range result.Years {
				if result.Years[y].PropertyValue < previous.Years[y].PropertyValue ||
					result.Years[y].NetPosition < previous.Years[y].NetPosition {
					t.Errorf("appreciation %v: year %d decreased", rate, y+1)
				}
			}
		}
		previous = result
	}
}

func TestRunComparisonBreakEvenBeyondHorizon(t *testing.T) {
	tests := []struct {
		name         string
		appreciation float64
		years        int
		want         int
	}{
		{"short horizon", 3, 2, 3},
		{"flat market", 0, 5, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rent := defaultRent()
			rent.AppreciationPct = tt.appreciation
			rent.CompareYears = tt.years

			result, err := RunComparison(defaultLoan(), defaultFees(), defaultRates(), rent, AdvancedOptions{})
			if err != nil {
				t.Fatal(err)
			}
			if !result.BreakEvenFound || result.BreakEvenWithinHorizon {
				t.Fatalf("expected break-even beyond horizon, got %+v", result)
			}
			if result.BreakEvenYear != tt.want {
				t.Errorf("break-even = %d, want %d", result.BreakEvenYear, tt.want)
			}
		})
	}
}

func TestRunComparisonNoBreakEven(t *testing.T) {
	rent := RentParameters{MonthlyRent: 1000, RentGrowthPct: 0, AppreciationPct: 0, CompareYears: 20}

	result, err := RunComparison(defaultLoan(), defaultFees(), defaultRates(), rent, AdvancedOptions{})
	if err != nil {
		t.Fatalf("non-convergence must not be an error: %v", err)
	}
	if result.BreakEvenFound || result.BreakEvenYear != 0 {
		t.Errorf("expected undetermined break-even, got year %d", result.BreakEvenYear)
	}
	if result.BuyingBetter {
		t.Error("expected renting to be better")
	}
}

func TestRunComparisonOpportunityCost(t *testing.T) {
	opts := AdvancedOptions{IncludeOpportunityCost: true, InvestmentReturnPct: 6}

	result, err := RunComparison(defaultLoan(), defaultFees(), defaultRates(), defaultRent(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if result.BreakEvenYear != 4 {
		t.Errorf("expected break-even at year 4, got %d", result.BreakEvenYear)
	}
	last := result.Years[len(result.Years)-1]
	if math.Abs(last.OpportunityCost-882854.1888851392) > 1e-4 {
		t.Errorf("unexpected opportunity cost %f", last.OpportunityCost)
	}
	if math.Abs(result.FinalNetPosition-(-1179298.0106370305)) > 1e-4 {
		t.Errorf("unexpected final net position %f", result.FinalNetPosition)
	}
	if math.Abs(result.Years[0].OpportunityCost-24000) > epsilon {
		t.Errorf("expected first year opportunity cost 24000, got %f", result.Years[0].OpportunityCost)
	}
}

func TestRunComparisonAdvancedOptions(t *testing.T) {
	base, err := RunComparison(defaultLoan(), defaultFees(), defaultRates(), defaultRent(), AdvancedOptions{})
	if err != nil {
		t.Fatal(err)
	}

	withTax, err := RunComparison(defaultLoan(), defaultFees(), defaultRates(), defaultRent(),
		AdvancedOptions{TaxAdvantagePct: 20})
	if err != nil {
		t.Fatal(err)
	}
	if withTax.FinalBuyCost >= base.FinalBuyCost {
		t.Error("tax advantage should reduce ownership cost")
	}
	if withTax.Years[19].RemainingBalance != base.Years[19].RemainingBalance {
		t.Error("tax advantage must not change amortization")
	}

	withExtra, err := RunComparison(defaultLoan(), defaultFees(), defaultRates(), defaultRent(),
		AdvancedOptions{AdditionalCostPct: 1})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(withExtra.Years[0].AnnualOwnershipCost-base.Years[0].AnnualOwnershipCost-20600) > 1e-6 {
		t.Errorf("expected 1%% of property value as extra cost, got %f",
			withExtra.Years[0].AnnualOwnershipCost-base.Years[0].AnnualOwnershipCost)
	}
}

func TestRunComparisonIsDeterministic(t *testing.T) {
	a, err := RunComparison(defaultLoan(), defaultFees(), defaultRates(), defaultRent(), AdvancedOptions{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunComparison(defaultLoan(), defaultFees(), defaultRates(), defaultRent(), AdvancedOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated runs produced different results")
	}
}

func TestRunComparisonInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		loan  func(*LoanParameters)
		rent  func(*RentParameters)
		opts  AdvancedOptions
		param string
	}{
		{
			name:  "zero compare years",
			rent:  func(r *RentParameters) { r.CompareYears = 0 },
			param: "compare_years",
		},
		{
			name:  "negative rent",
			rent:  func(r *RentParameters) { r.MonthlyRent = -1 },
			param: "monthly_rent",
		},
		{
			name:  "fixed period longer than term",
			loan:  func(l *LoanParameters) { l.FixedYears = 26 },
			param: "fixed_years",
		},
		{
			name:  "tax advantage above 100",
			opts:  AdvancedOptions{TaxAdvantagePct: 150},
			param: "tax_advantage_pct",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := defaultLoan()
			rent := defaultRent()
			if tt.loan != nil {
				tt.loan(&loan)
			}
			if tt.rent != nil {
				tt.rent(&rent)
			}

			_, err := RunComparison(loan, defaultFees(), defaultRates(), rent, tt.opts)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var inputErr *InputError
			if errors.As(err, &inputErr) && inputErr.Param != tt.param {
				t.Errorf("expected param %s, got %s", tt.param, inputErr.Param)
			}
		})
	}
}
