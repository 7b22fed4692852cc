package calculations

// ComputeMortgageCosts строит график и считает полные расходы по ипотеке
func ComputeMortgageCosts(loan LoanParameters, rates RecurringCostRates) (*MortgageCosts, error) {
	if err := validateLoan(loan); err != nil {
		return nil, err
	}
	if err := validateRates(rates); err != nil {
		return nil, err
	}

	schedule, err := BuildAmortizationSchedule(loan.LoanAmount(), loan.FixedYears, loan.MortgageYears,
		loan.FixedRatePct, loan.FloatingRatePct())
	if err != nil {
		return nil, err
	}

	costs := AggregateCosts(schedule, loan, rates)
	return &costs, nil
}

// AggregateCosts сводит график с регулярными расходами. График не изменяется.
func AggregateCosts(schedule *Schedule, loan LoanParameters, rates RecurringCostRates) MortgageCosts {
	annualServiceCharge := rates.AnnualServiceCharge()
	monthlyHome := rates.HomeInsurancePct / 100.0 * loan.PropertyPrice / 12.0

	totalInterest := 0.0
	totalHome := 0.0
	totalLife := 0.0

	for _, row := range schedule.Rows {
		totalInterest += row.Interest
		totalHome += monthlyHome
		totalLife += rates.LifeInsurancePct / 100.0 * row.RemainingBalance / 12.0
	}

	// сервисный сбор проецируется на весь срок, даже при досрочном погашении
	totalServiceCharge := annualServiceCharge * float64(loan.MortgageYears)

	return MortgageCosts{
		MonthlyFixed:        schedule.FixedPayment,
		MonthlyFloating:     schedule.FloatingPayment,
		AnnualServiceCharge: annualServiceCharge,
		TotalServiceCharge:  totalServiceCharge,
		TotalInterest:       totalInterest,
		TotalHomeInsurance:  totalHome,
		TotalLifeInsurance:  totalLife,
		TotalPayment:        loan.LoanAmount() + totalInterest + totalServiceCharge + totalHome + totalLife,
	}
}

// MonthlyCostRows дополняет строки графика помесячными страховками и сервисным сбором
func MonthlyCostRows(schedule *Schedule, loan LoanParameters, rates RecurringCostRates) []MonthlyCostRow {
	monthlyHome := rates.HomeInsurancePct / 100.0 * loan.PropertyPrice / 12.0
	monthlyService := rates.AnnualServiceCharge() / 12.0

	rows := make([]MonthlyCostRow, 0, len(schedule.Rows))
	for _, row := range schedule.Rows {
		rows = append(rows, MonthlyCostRow{
			AmortizationRow: row,
			HomeInsurance:   monthlyHome,
			LifeInsurance:   rates.LifeInsurancePct / 100.0 * row.RemainingBalance / 12.0,
			ServiceCharge:   monthlyService,
		})
	}
	return rows
}

// ComputeUpfrontCosts считает разовые расходы: взнос, сборы и комиссию банка
func ComputeUpfrontCosts(propertyPrice, loanAmount, downPayment float64, fees FeeSchedule) (*UpfrontCosts, error) {
	if err := checkNonNegative("property_price", propertyPrice); err != nil {
		return nil, err
	}
	if err := checkNonNegative("loan_amount", loanAmount); err != nil {
		return nil, err
	}
	if err := checkNonNegative("down_payment", downPayment); err != nil {
		return nil, err
	}
	if err := validateFees(fees); err != nil {
		return nil, err
	}

	transfer := fees.TransferFeePct / 100.0 * propertyPrice
	agent := fees.AgentFeePct / 100.0 * propertyPrice
	arrangement := fees.ProcessingFeePct / 100.0 * loanAmount * (1.0 + fees.ProcessingVATPct/100.0)
	flat := fees.FlatFees()

	return &UpfrontCosts{
		DownPayment:    downPayment,
		TransferFee:    transfer,
		AgentFee:       agent,
		ArrangementFee: arrangement,
		FlatFees:       flat,
		Total:          downPayment + transfer + agent + flat + arrangement,
	}, nil
}
