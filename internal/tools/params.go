package tools

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/config"
)

// Отсутствующий параметр берется из значения по умолчанию, параметр
// неверного типа дает InputError.

func paramError(name, constraint string) error {
	return &calculations.InputError{Param: name, Constraint: constraint}
}

func floatParam(params map[string]interface{}, name string, def float64) (float64, error) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, paramError(name, fmt.Sprintf("ожидалось число, получено %T", raw))
	}
}

func intParam(params map[string]interface{}, name string, def int) (int, error) {
	v, err := floatParam(params, name, float64(def))
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, paramError(name, "ожидалось целое число")
	}
	return int(v), nil
}

func boolParam(params map[string]interface{}, name string, def bool) (bool, error) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return def, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, paramError(name, fmt.Sprintf("ожидалось логическое значение, получено %T", raw))
	}
	return v, nil
}

func floatListParam(params map[string]interface{}, name string, def []float64) ([]float64, error) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return def, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, paramError(name, fmt.Sprintf("ожидался массив чисел, получено %T", raw))
	}
	values := make([]float64, 0, len(items))
	for _, item := range items {
		v, ok := item.(float64)
		if !ok {
			return nil, paramError(name, fmt.Sprintf("ожидалось число, получено %T", item))
		}
		values = append(values, v)
	}
	return values, nil
}

type floatField struct {
	name string
	dst  *float64
}

type intField struct {
	name string
	dst  *int
}

func readFloats(params map[string]interface{}, fields ...floatField) error {
	for _, f := range fields {
		v, err := floatParam(params, f.name, *f.dst)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

func readInts(params map[string]interface{}, fields ...intField) error {
	for _, f := range fields {
		v, err := intParam(params, f.name, *f.dst)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

// scenarioFromParams накладывает параметры запроса на значения по умолчанию
func scenarioFromParams(params map[string]interface{}) (config.Scenario, error) {
	s := config.Defaults()

	if err := readFloats(params,
		floatField{"property_price", &s.Loan.PropertyPrice},
		floatField{"down_payment_pct", &s.Loan.DownPaymentPct},
		floatField{"fixed_rate_pct", &s.Loan.FixedRatePct},
		floatField{"reference_rate_pct", &s.Loan.ReferenceRatePct},
		floatField{"bank_margin_pct", &s.Loan.BankMarginPct},

		floatField{"transfer_fee_pct", &s.Fees.TransferFeePct},
		floatField{"agent_fee_pct", &s.Fees.AgentFeePct},
		floatField{"trustee_fee", &s.Fees.TrusteeFee},
		floatField{"valuation_fee", &s.Fees.ValuationFee},
		floatField{"connection_fee", &s.Fees.ConnectionFee},
		floatField{"inspection_fee", &s.Fees.InspectionFee},
		floatField{"processing_fee_pct", &s.Fees.ProcessingFeePct},
		floatField{"processing_vat_pct", &s.Fees.ProcessingVATPct},

		floatField{"built_up_area", &s.Rates.BuiltUpArea},
		floatField{"service_charge_rate", &s.Rates.ServiceChargeRate},
		floatField{"home_insurance_pct", &s.Rates.HomeInsurancePct},
		floatField{"life_insurance_pct", &s.Rates.LifeInsurancePct},

		floatField{"monthly_rent", &s.Rent.MonthlyRent},
		floatField{"rent_growth_pct", &s.Rent.RentGrowthPct},
		floatField{"appreciation_pct", &s.Rent.AppreciationPct},

		floatField{"tax_advantage_pct", &s.Options.TaxAdvantagePct},
		floatField{"additional_cost_pct", &s.Options.AdditionalCostPct},
		floatField{"investment_return_pct", &s.Options.InvestmentReturnPct},
	); err != nil {
		return s, err
	}

	if err := readInts(params,
		intField{"mortgage_years", &s.Loan.MortgageYears},
		intField{"fixed_years", &s.Loan.FixedYears},
		intField{"compare_years", &s.Rent.CompareYears},
	); err != nil {
		return s, err
	}

	include, err := boolParam(params, "include_opportunity_cost", s.Options.IncludeOpportunityCost)
	if err != nil {
		return s, err
	}
	s.Options.IncludeOpportunityCost = include

	return s, nil
}
