package validators

import (
	"fmt"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/config"
	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
)

// ValidateNumber проверяет, что число конечное и в допустимом диапазоне
func ValidateNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return &calculations.InputError{Param: name, Constraint: "значение не является конечным числом"}
	}
	if value < minInclusive {
		return &calculations.InputError{Param: name, Constraint: fmt.Sprintf("значение должно быть ≥ %g", minInclusive)}
	}
	if value > maxInclusive {
		return &calculations.InputError{Param: name, Constraint: fmt.Sprintf("значение слишком велико (>%g)", maxInclusive)}
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return &calculations.InputError{
			Param:      name,
			Constraint: fmt.Sprintf("значение должно быть в диапазоне [%d; %d]", minInclusive, maxInclusive),
		}
	}
	return nil
}

// CheckLoan проверяет параметры покупки и ипотеки против лимитов сервера
func CheckLoan(cfg *config.Config, loan calculations.LoanParameters) error {
	if err := ValidateNumber("property_price", loan.PropertyPrice, 0, cfg.MaxPrincipal); err != nil {
		return err
	}
	if err := ValidateNumber("down_payment_pct", loan.DownPaymentPct, 0, 100); err != nil {
		return err
	}
	if err := ValidateIntRange("mortgage_years", loan.MortgageYears, 1, cfg.MaxYears); err != nil {
		return err
	}
	fixedMax := cfg.MaxFixedYears
	if loan.MortgageYears < fixedMax {
		fixedMax = loan.MortgageYears
	}
	if err := ValidateIntRange("fixed_years", loan.FixedYears, 0, fixedMax); err != nil {
		return err
	}
	if err := CheckRate(cfg, "fixed_rate_pct", loan.FixedRatePct); err != nil {
		return err
	}
	if err := CheckRate(cfg, "reference_rate_pct", loan.ReferenceRatePct); err != nil {
		return err
	}
	return ValidateNumber("bank_margin_pct", loan.BankMarginPct, -loan.ReferenceRatePct, cfg.MaxRate)
}

// CheckRate проверяет процентную ставку
func CheckRate(cfg *config.Config, name string, rate float64) error {
	return ValidateNumber(name, rate, 0.0, cfg.MaxRate)
}

// CheckFees проверяет разовые сборы
func CheckFees(cfg *config.Config, fees calculations.FeeSchedule) error {
	for _, pct := range []struct {
		name  string
		value float64
	}{
		{"transfer_fee_pct", fees.TransferFeePct},
		{"agent_fee_pct", fees.AgentFeePct},
		{"processing_fee_pct", fees.ProcessingFeePct},
		{"processing_vat_pct", fees.ProcessingVATPct},
	} {
		if err := ValidateNumber(pct.name, pct.value, 0, 100); err != nil {
			return err
		}
	}
	for _, flat := range []struct {
		name  string
		value float64
	}{
		{"trustee_fee", fees.TrusteeFee},
		{"valuation_fee", fees.ValuationFee},
		{"connection_fee", fees.ConnectionFee},
		{"inspection_fee", fees.InspectionFee},
	} {
		if err := ValidateNumber(flat.name, flat.value, 0, cfg.MaxFee); err != nil {
			return err
		}
	}
	return nil
}

// CheckRecurring проверяет регулярные расходы владельца
func CheckRecurring(cfg *config.Config, rates calculations.RecurringCostRates) error {
	if err := ValidateNumber("built_up_area", rates.BuiltUpArea, 0, 1e6); err != nil {
		return err
	}
	if err := ValidateNumber("service_charge_rate", rates.ServiceChargeRate, 0, cfg.MaxFee); err != nil {
		return err
	}
	if err := ValidateNumber("home_insurance_pct", rates.HomeInsurancePct, 0, 100); err != nil {
		return err
	}
	return ValidateNumber("life_insurance_pct", rates.LifeInsurancePct, 0, 100)
}

// CheckRent проверяет параметры аренды и горизонт сравнения
func CheckRent(cfg *config.Config, rent calculations.RentParameters) error {
	if err := ValidateNumber("monthly_rent", rent.MonthlyRent, 0, cfg.MaxPrincipal); err != nil {
		return err
	}
	if err := ValidateNumber("rent_growth_pct", rent.RentGrowthPct, -99, cfg.MaxRate); err != nil {
		return err
	}
	if err := ValidateNumber("appreciation_pct", rent.AppreciationPct, -99, cfg.MaxRate); err != nil {
		return err
	}
	return ValidateIntRange("compare_years", rent.CompareYears, 1, cfg.MaxCompareYears)
}

// CheckOptions проверяет дополнительные параметры сравнения
func CheckOptions(cfg *config.Config, opts calculations.AdvancedOptions) error {
	if err := ValidateNumber("tax_advantage_pct", opts.TaxAdvantagePct, 0, 100); err != nil {
		return err
	}
	if err := ValidateNumber("additional_cost_pct", opts.AdditionalCostPct, 0, 100); err != nil {
		return err
	}
	return ValidateNumber("investment_return_pct", opts.InvestmentReturnPct, -99, cfg.MaxRate)
}
