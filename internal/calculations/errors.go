package calculations

import (
	"errors"
	"fmt"

	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
)

// ErrInvalidInput возвращается для параметров, нарушающих ограничения модели
var ErrInvalidInput = errors.New("invalid input")

// InputError указывает, какой параметр нарушает какое ограничение
type InputError struct {
	Param      string
	Constraint string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Constraint)
}

// Is позволяет сравнивать с ErrInvalidInput через errors.Is
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(param, format string, args ...interface{}) error {
	return &InputError{Param: param, Constraint: fmt.Sprintf(format, args...)}
}

func checkNonNegative(param string, value float64) error {
	if !utils.IsFinite(value) {
		return invalid(param, "значение не является конечным числом")
	}
	if value < 0 {
		return invalid(param, "значение должно быть ≥ 0")
	}
	return nil
}

// validateLoan проверяет параметры кредита до начала расчета
func validateLoan(p LoanParameters) error {
	if err := checkNonNegative("property_price", p.PropertyPrice); err != nil {
		return err
	}
	if err := checkNonNegative("down_payment_pct", p.DownPaymentPct); err != nil {
		return err
	}
	if p.DownPaymentPct > 100 {
		return invalid("down_payment_pct", "значение должно быть ≤ 100")
	}
	if err := checkNonNegative("fixed_rate_pct", p.FixedRatePct); err != nil {
		return err
	}
	if err := checkNonNegative("reference_rate_pct", p.ReferenceRatePct); err != nil {
		return err
	}
	if !utils.IsFinite(p.BankMarginPct) {
		return invalid("bank_margin_pct", "значение не является конечным числом")
	}
	if p.FloatingRatePct() < 0 {
		return invalid("bank_margin_pct", "плавающая ставка должна быть ≥ 0")
	}
	return validateTerms(p.FixedYears, p.MortgageYears)
}

func validateTerms(fixedYears, mortgageYears int) error {
	if mortgageYears <= 0 {
		return invalid("mortgage_years", "срок должен быть > 0")
	}
	if fixedYears < 0 {
		return invalid("fixed_years", "значение должно быть ≥ 0")
	}
	if fixedYears > mortgageYears {
		return invalid("fixed_years", "фиксированный период (%d) больше срока ипотеки (%d)", fixedYears, mortgageYears)
	}
	return nil
}

func validateRates(r RecurringCostRates) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"built_up_area", r.BuiltUpArea},
		{"service_charge_rate", r.ServiceChargeRate},
		{"home_insurance_pct", r.HomeInsurancePct},
		{"life_insurance_pct", r.LifeInsurancePct},
	} {
		if err := checkNonNegative(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

func validateFees(f FeeSchedule) error {
	for _, fee := range []struct {
		name  string
		value float64
	}{
		{"transfer_fee_pct", f.TransferFeePct},
		{"agent_fee_pct", f.AgentFeePct},
		{"trustee_fee", f.TrusteeFee},
		{"valuation_fee", f.ValuationFee},
		{"connection_fee", f.ConnectionFee},
		{"inspection_fee", f.InspectionFee},
		{"processing_fee_pct", f.ProcessingFeePct},
		{"processing_vat_pct", f.ProcessingVATPct},
	} {
		if err := checkNonNegative(fee.name, fee.value); err != nil {
			return err
		}
	}
	return nil
}
