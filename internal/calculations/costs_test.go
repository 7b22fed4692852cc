package calculations

import (
	"errors"
	"math"
	"testing"
)

func defaultLoan() LoanParameters {
	return LoanParameters{
		PropertyPrice:    2000000,
		DownPaymentPct:   20,
		MortgageYears:    25,
		FixedYears:       3,
		FixedRatePct:     3.99,
		ReferenceRatePct: 3.5,
		BankMarginPct:    1.5,
	}
}

func defaultRates() RecurringCostRates {
	return RecurringCostRates{
		BuiltUpArea:       1500,
		ServiceChargeRate: 15,
		HomeInsurancePct:  0.2,
		LifeInsurancePct:  0.5,
	}
}

func defaultFees() FeeSchedule {
	return FeeSchedule{
		TransferFeePct:   4,
		AgentFeePct:      2,
		TrusteeFee:       4200,
		ValuationFee:     3000,
		ConnectionFee:    2000,
		InspectionFee:    1000,
		ProcessingFeePct: 1,
	}
}

func TestLoanParameters(t *testing.T) {
	loan := defaultLoan()
	if loan.DownPayment() != 400000 {
		t.Errorf("expected down payment 400000, got %f", loan.DownPayment())
	}
	if loan.LoanAmount() != 1600000 {
		t.Errorf("expected loan amount 1600000, got %f", loan.LoanAmount())
	}
	if loan.FloatingRatePct() != 5 {
		t.Errorf("expected floating rate 5, got %f", loan.FloatingRatePct())
	}
}

func TestComputeMortgageCosts(t *testing.T) {
	costs, err := ComputeMortgageCosts(defaultLoan(), defaultRates())
	if err != nil {
		t.Fatalf("ComputeMortgageCosts() error = %v", err)
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"monthly fixed", costs.MonthlyFixed, 8436.557479597857},
		{"monthly floating", costs.MonthlyFloating, 9260.549389173773},
		{"annual service charge", costs.AnnualServiceCharge, 22500},
		{"total service charge", costs.TotalServiceCharge, 562500},
		{"total interest", costs.TotalInterest, 1148501.1080073894},
		{"total home insurance", costs.TotalHomeInsurance, 100000},
		{"total life insurance", costs.TotalLifeInsurance, 118859.78677389486},
		{"total payment", costs.TotalPayment, 3529860.8947812836},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-4 {
				t.Errorf("got %f, want %f", tt.got, tt.want)
			}
		})
	}
}

func TestAggregateCostsDoesNotMutateSchedule(t *testing.T) {
	loan := defaultLoan()
	schedule, err := BuildAmortizationSchedule(loan.LoanAmount(), loan.FixedYears, loan.MortgageYears,
		loan.FixedRatePct, loan.FloatingRatePct())
	if err != nil {
		t.Fatal(err)
	}
	before := append([]AmortizationRow(nil), schedule.Rows...)

	costs := AggregateCosts(schedule, loan, defaultRates())

	for i := range before {
		if before[i] != schedule.Rows[i] {
			t.Fatalf("row %d was modified", i)
		}
	}

	interest := 0.0
	for _, row := range schedule.Rows {
		interest += row.Interest
	}
	if costs.TotalInterest != interest {
		t.Errorf("total interest %f differs from rows %f", costs.TotalInterest, interest)
	}
}

func TestServiceChargeIgnoresEarlyPayoff(t *testing.T) {
	loan := defaultLoan()
	loan.DownPaymentPct = 100

	costs, err := ComputeMortgageCosts(loan, defaultRates())
	if err != nil {
		t.Fatalf("ComputeMortgageCosts() error = %v", err)
	}
	if costs.TotalServiceCharge != 562500 {
		t.Errorf("expected flat service charge projection, got %f", costs.TotalServiceCharge)
	}
	if costs.TotalInterest != 0 || costs.TotalLifeInsurance != 0 || costs.TotalHomeInsurance != 0 {
		t.Errorf("expected no schedule-driven costs, got %+v", costs)
	}
}

func TestLifeInsuranceDecreases(t *testing.T) {
	loan := defaultLoan()
	rates := defaultRates()
	schedule, err := BuildAmortizationSchedule(loan.LoanAmount(), loan.FixedYears, loan.MortgageYears,
		loan.FixedRatePct, loan.FloatingRatePct())
	if err != nil {
		t.Fatal(err)
	}

	rows := MonthlyCostRows(schedule, loan, rates)
	if len(rows) != len(schedule.Rows) {
		t.Fatalf("expected %d rows, got %d", len(schedule.Rows), len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].LifeInsurance > rows[i-1].LifeInsurance {
			t.Fatalf("life insurance grew at period %d", rows[i].Period)
		}
		if rows[i].HomeInsurance != rows[0].HomeInsurance {
			t.Fatalf("home insurance changed at period %d", rows[i].Period)
		}
	}
	if math.Abs(rows[0].ServiceCharge-1875) > epsilon {
		t.Errorf("expected monthly service charge 1875, got %f", rows[0].ServiceCharge)
	}
	if rows[len(rows)-1].LifeInsurance != 0 {
		t.Errorf("expected no life insurance after payoff, got %f", rows[len(rows)-1].LifeInsurance)
	}
}

func TestComputeMortgageCostsInvalidInput(t *testing.T) {
	loan := defaultLoan()
	loan.FixedYears = 30

	if _, err := ComputeMortgageCosts(loan, defaultRates()); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	rates := defaultRates()
	rates.LifeInsurancePct = -0.5
	if _, err := ComputeMortgageCosts(defaultLoan(), rates); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	loan = defaultLoan()
	loan.DownPaymentPct = 120
	if _, err := ComputeMortgageCosts(loan, defaultRates()); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestComputeUpfrontCosts(t *testing.T) {
	tests := []struct {
		name            string
		fees            FeeSchedule
		wantTotal       float64
		wantArrangement float64
	}{
		{
			name:            "default fees",
			fees:            defaultFees(),
			wantTotal:       546200,
			wantArrangement: 16000,
		},
		{
			name: "processing fee with VAT",
			fees: func() FeeSchedule {
				f := defaultFees()
				f.ProcessingVATPct = 5
				return f
			}(),
			wantTotal:       547000,
			wantArrangement: 16800,
		},
		{
			name:            "no fees",
			fees:            FeeSchedule{},
			wantTotal:       400000,
			wantArrangement: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeUpfrontCosts(2000000, 1600000, 400000, tt.fees)
			if err != nil {
				t.Fatalf("ComputeUpfrontCosts() error = %v", err)
			}
			if math.Abs(got.Total-tt.wantTotal) > epsilon {
				t.Errorf("total = %f, want %f", got.Total, tt.wantTotal)
			}
			if math.Abs(got.ArrangementFee-tt.wantArrangement) > epsilon {
				t.Errorf("arrangement fee = %f, want %f", got.ArrangementFee, tt.wantArrangement)
			}
			sum := got.DownPayment + got.TransferFee + got.AgentFee + got.ArrangementFee + got.FlatFees
			if math.Abs(sum-got.Total) > epsilon {
				t.Errorf("breakdown %f does not add up to total %f", sum, got.Total)
			}
		})
	}
}

func TestComputeUpfrontCostsRejectsNegativeFee(t *testing.T) {
	fees := defaultFees()
	fees.TrusteeFee = -4200

	_, err := ComputeUpfrontCosts(2000000, 1600000, 400000, fees)
	var inputErr *InputError
	if !errors.As(err, &inputErr) || inputErr.Param != "trustee_fee" {
		t.Fatalf("expected trustee_fee input error, got %v", err)
	}
}
