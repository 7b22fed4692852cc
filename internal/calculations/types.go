package calculations

// LoanParameters описывает покупку и ипотеку с фиксированной и плавающей ставкой
type LoanParameters struct {
	PropertyPrice    float64 `json:"property_price"`
	DownPaymentPct   float64 `json:"down_payment_pct"`
	MortgageYears    int     `json:"mortgage_years"`
	FixedYears       int     `json:"fixed_years"`
	FixedRatePct     float64 `json:"fixed_rate_pct"`
	ReferenceRatePct float64 `json:"reference_rate_pct"`
	BankMarginPct    float64 `json:"bank_margin_pct"`
}

// DownPayment возвращает первоначальный взнос
func (p LoanParameters) DownPayment() float64 {
	return p.DownPaymentPct / 100.0 * p.PropertyPrice
}

// LoanAmount возвращает сумму кредита
func (p LoanParameters) LoanAmount() float64 {
	return p.PropertyPrice - p.DownPayment()
}

// FloatingRatePct возвращает плавающую ставку: базовая ставка плюс маржа банка
func (p LoanParameters) FloatingRatePct() float64 {
	return p.ReferenceRatePct + p.BankMarginPct
}

// FeeSchedule содержит разовые расходы при покупке
type FeeSchedule struct {
	TransferFeePct   float64 `json:"transfer_fee_pct"`
	AgentFeePct      float64 `json:"agent_fee_pct"`
	TrusteeFee       float64 `json:"trustee_fee"`
	ValuationFee     float64 `json:"valuation_fee"`
	ConnectionFee    float64 `json:"connection_fee"`
	InspectionFee    float64 `json:"inspection_fee"`
	ProcessingFeePct float64 `json:"processing_fee_pct"`
	ProcessingVATPct float64 `json:"processing_vat_pct"`
}

// FlatFees возвращает сумму фиксированных сборов
func (f FeeSchedule) FlatFees() float64 {
	return f.TrusteeFee + f.ValuationFee + f.ConnectionFee + f.InspectionFee
}

// RecurringCostRates содержит регулярные расходы владельца
type RecurringCostRates struct {
	BuiltUpArea       float64 `json:"built_up_area"`
	ServiceChargeRate float64 `json:"service_charge_rate"`
	HomeInsurancePct  float64 `json:"home_insurance_pct"`
	LifeInsurancePct  float64 `json:"life_insurance_pct"`
}

// AnnualServiceCharge возвращает годовой сервисный сбор
func (r RecurringCostRates) AnnualServiceCharge() float64 {
	return r.BuiltUpArea * r.ServiceChargeRate
}

// AmortizationRow представляет один месяц графика платежей
type AmortizationRow struct {
	Year             int     `json:"year"`
	Period           int     `json:"period"`
	Payment          float64 `json:"payment"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// YearlyRollup представляет сумму платежей за год
type YearlyRollup struct {
	Year                int     `json:"year"`
	Principal           float64 `json:"principal"`
	Interest            float64 `json:"interest"`
	CumulativePrincipal float64 `json:"cumulative_principal"`
	CumulativeInterest  float64 `json:"cumulative_interest"`
}

// Schedule представляет полный график ипотеки
type Schedule struct {
	FixedPayment    float64           `json:"fixed_payment"`
	FloatingPayment float64           `json:"floating_payment"`
	Rows            []AmortizationRow `json:"rows"`
	Yearly          []YearlyRollup    `json:"yearly"`
}

// MonthlyCostRow представляет строку графика вместе со страховками и сервисным сбором
type MonthlyCostRow struct {
	AmortizationRow
	HomeInsurance float64 `json:"home_insurance"`
	LifeInsurance float64 `json:"life_insurance"`
	ServiceCharge float64 `json:"service_charge"`
}

// MortgageCosts представляет итоговые расходы по ипотеке
type MortgageCosts struct {
	MonthlyFixed        float64 `json:"monthly_fixed"`
	MonthlyFloating     float64 `json:"monthly_floating"`
	AnnualServiceCharge float64 `json:"annual_service_charge"`
	TotalServiceCharge  float64 `json:"total_service_charge"`
	TotalInterest       float64 `json:"total_interest"`
	TotalHomeInsurance  float64 `json:"total_home_insurance"`
	TotalLifeInsurance  float64 `json:"total_life_insurance"`
	TotalPayment        float64 `json:"total_payment"`
}

// UpfrontCosts представляет разовые расходы при покупке
type UpfrontCosts struct {
	DownPayment    float64 `json:"down_payment"`
	TransferFee    float64 `json:"transfer_fee"`
	AgentFee       float64 `json:"agent_fee"`
	ArrangementFee float64 `json:"arrangement_fee"`
	FlatFees       float64 `json:"flat_fees"`
	Total          float64 `json:"total"`
}

// RentParameters описывает сценарий аренды и горизонт сравнения
type RentParameters struct {
	MonthlyRent     float64 `json:"monthly_rent"`
	RentGrowthPct   float64 `json:"rent_growth_pct"`
	AppreciationPct float64 `json:"appreciation_pct"`
	CompareYears    int     `json:"compare_years"`
}

// AdvancedOptions содержит необязательные параметры сравнения
type AdvancedOptions struct {
	TaxAdvantagePct        float64 `json:"tax_advantage_pct"`
	AdditionalCostPct      float64 `json:"additional_cost_pct"`
	IncludeOpportunityCost bool    `json:"include_opportunity_cost"`
	InvestmentReturnPct    float64 `json:"investment_return_pct"`
}

// ComparisonYearRecord представляет один год сравнения покупки и аренды
type ComparisonYearRecord struct {
	Year                    int     `json:"year"`
	PropertyValue           float64 `json:"property_value"`
	RemainingBalance        float64 `json:"remaining_balance"`
	AnnualRent              float64 `json:"annual_rent"`
	CumulativeRent          float64 `json:"cumulative_rent"`
	AnnualOwnershipCost     float64 `json:"annual_ownership_cost"`
	CumulativeOwnershipCost float64 `json:"cumulative_ownership_cost"`
	Equity                  float64 `json:"equity"`
	OpportunityCost         float64 `json:"opportunity_cost"`
	NetPosition             float64 `json:"net_position"`
	Advantage               float64 `json:"advantage"`
}

// ComparisonResult представляет результат сравнения покупки и аренды
type ComparisonResult struct {
	Years                  []ComparisonYearRecord `json:"years"`
	BreakEvenYear          int                    `json:"break_even_year,omitempty"`
	BreakEvenFound         bool                   `json:"break_even_found"`
	BreakEvenWithinHorizon bool                   `json:"break_even_within_horizon"`
	FinalRentCost          float64                `json:"final_rent_cost"`
	FinalBuyCost           float64                `json:"final_buy_cost"`
	FinalPropertyValue     float64                `json:"final_property_value"`
	FinalEquity            float64                `json:"final_equity"`
	FinalNetPosition       float64                `json:"final_net_position"`
	UpfrontCost            float64                `json:"upfront_cost"`
	TotalBuyingCost        float64                `json:"total_buying_cost"`
	BuyingBetter           bool                   `json:"buying_better"`
}

// SensitivityPoint представляет результат пересчета при другой плавающей ставке
type SensitivityPoint struct {
	FloatingRatePct  float64 `json:"floating_rate_pct"`
	MonthlyFloating  float64 `json:"monthly_floating"`
	TotalInterest    float64 `json:"total_interest"`
	TotalPayment     float64 `json:"total_payment"`
	FinalNetPosition float64 `json:"final_net_position"`
	BreakEvenYear    int     `json:"break_even_year,omitempty"`
	BreakEvenFound   bool    `json:"break_even_found"`
}
