package calculations

// BuildAmortizationSchedule строит помесячный график: фиксированная ставка,
// затем плавающая с пересчетом платежа на остаток срока.
//
// Платеж фиксированного периода считается на весь срок ипотеки, поэтому к
// концу фиксированного периода остается долг, который заново
// амортизируется по плавающей ставке.
func BuildAmortizationSchedule(loanAmount float64, fixedYears, mortgageYears int,
	fixedRatePercent, floatingRatePercent float64) (*Schedule, error) {

	if err := checkNonNegative("loan_amount", loanAmount); err != nil {
		return nil, err
	}
	if err := checkNonNegative("fixed_rate_pct", fixedRatePercent); err != nil {
		return nil, err
	}
	if err := checkNonNegative("floating_rate_pct", floatingRatePercent); err != nil {
		return nil, err
	}
	if err := validateTerms(fixedYears, mortgageYears); err != nil {
		return nil, err
	}

	totalMonths := mortgageYears * 12
	fixedMonths := fixedYears * 12
	floatingMonths := totalMonths - fixedMonths

	schedule := &Schedule{
		Rows: make([]AmortizationRow, 0, totalMonths),
	}
	if loanAmount == 0 {
		return schedule, nil
	}

	rFixed := fixedRatePercent / 100.0 / 12.0
	rFloating := floatingRatePercent / 100.0 / 12.0

	schedule.FixedPayment = annuityPayment(loanAmount, rFixed, float64(totalMonths))
	balance := loanAmount

	// step добавляет строку за месяц m и возвращает true, когда долг погашен
	step := func(m int, payment, r float64) bool {
		interest := balance * r
		principal := payment - interest

		if principal > balance || m == totalMonths {
			principal = balance
			payment = principal + interest
		}

		balance -= principal
		if balance < 0 {
			balance = 0
		}

		schedule.Rows = append(schedule.Rows, AmortizationRow{
			Year:             (m-1)/12 + 1,
			Period:           m,
			Payment:          payment,
			Principal:        principal,
			Interest:         interest,
			RemainingBalance: balance,
		})
		return balance <= 0
	}

	for m := 1; m <= fixedMonths; m++ {
		if step(m, schedule.FixedPayment, rFixed) {
			schedule.Yearly = RollupByYear(schedule.Rows)
			return schedule, nil
		}
	}

	if floatingMonths > 0 {
		schedule.FloatingPayment = annuityPayment(balance, rFloating, float64(floatingMonths))
		for m := fixedMonths + 1; m <= totalMonths; m++ {
			if step(m, schedule.FloatingPayment, rFloating) {
				break
			}
		}
	}

	schedule.Yearly = RollupByYear(schedule.Rows)
	return schedule, nil
}

// RollupByYear суммирует основной долг и проценты по годам в порядке возрастания
func RollupByYear(rows []AmortizationRow) []YearlyRollup {
	yearly := make([]YearlyRollup, 0, len(rows)/12+1)
	cumP := 0.0
	cumI := 0.0

	for _, row := range rows {
		if len(yearly) == 0 || yearly[len(yearly)-1].Year != row.Year {
			yearly = append(yearly, YearlyRollup{Year: row.Year})
		}
		current := &yearly[len(yearly)-1]
		current.Principal += row.Principal
		current.Interest += row.Interest

		cumP += row.Principal
		cumI += row.Interest
		current.CumulativePrincipal = cumP
		current.CumulativeInterest = cumI
	}

	return yearly
}
