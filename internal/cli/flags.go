package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/cloud-ru/mcp-mortgage-go/internal/config"
)

type scenarioFlag struct {
	param string
	value float64
	usage string
}

func scenarioFlags() []scenarioFlag {
	d := config.Defaults()
	return []scenarioFlag{
		{"property_price", d.Loan.PropertyPrice, "Property price"},
		{"down_payment_pct", d.Loan.DownPaymentPct, "Down payment, % of price"},
		{"mortgage_years", float64(d.Loan.MortgageYears), "Mortgage term in years"},
		{"fixed_years", float64(d.Loan.FixedYears), "Fixed rate period in years"},
		{"fixed_rate_pct", d.Loan.FixedRatePct, "Fixed interest rate, %"},
		{"reference_rate_pct", d.Loan.ReferenceRatePct, "Reference rate (EIBOR), %"},
		{"bank_margin_pct", d.Loan.BankMarginPct, "Bank margin over the reference rate, %"},

		{"transfer_fee_pct", d.Fees.TransferFeePct, "Land department transfer fee, % of price"},
		{"agent_fee_pct", d.Fees.AgentFeePct, "Agent fee, % of price"},
		{"trustee_fee", d.Fees.TrusteeFee, "Trustee fee"},
		{"valuation_fee", d.Fees.ValuationFee, "Valuation fee"},
		{"connection_fee", d.Fees.ConnectionFee, "Utility connection fee"},
		{"inspection_fee", d.Fees.InspectionFee, "Snagging inspection fee"},
		{"processing_fee_pct", d.Fees.ProcessingFeePct, "Bank processing fee, % of loan"},
		{"processing_vat_pct", d.Fees.ProcessingVATPct, "VAT on the processing fee, %"},

		{"built_up_area", d.Rates.BuiltUpArea, "Built-up area, sq ft"},
		{"service_charge_rate", d.Rates.ServiceChargeRate, "Service charge per sq ft per year"},
		{"home_insurance_pct", d.Rates.HomeInsurancePct, "Home insurance, % of price per year"},
		{"life_insurance_pct", d.Rates.LifeInsurancePct, "Life insurance, % of balance per year"},

		{"monthly_rent", d.Rent.MonthlyRent, "Monthly rent"},
		{"rent_growth_pct", d.Rent.RentGrowthPct, "Annual rent growth, %"},
		{"appreciation_pct", d.Rent.AppreciationPct, "Annual property appreciation, %"},
		{"compare_years", float64(d.Rent.CompareYears), "Comparison horizon in years"},

		{"tax_advantage_pct", d.Options.TaxAdvantagePct, "Tax relief on interest, %"},
		{"additional_cost_pct", d.Options.AdditionalCostPct, "Additional ownership cost, % of property value"},
		{"investment_return_pct", d.Options.InvestmentReturnPct, "Return on the down payment if invested, %"},
	}
}

func flagName(param string) string {
	return strings.ReplaceAll(param, "_", "-")
}

// scenario связывает флаги сценария с параметрами инструментов
type scenario struct {
	flags                  *pflag.FlagSet
	includeOpportunityCost bool
}

func bindScenario(flags *pflag.FlagSet) *scenario {
	s := &scenario{flags: flags}
	for _, f := range scenarioFlags() {
		flags.Float64(flagName(f.param), f.value, f.usage)
	}
	flags.BoolVar(&s.includeOpportunityCost, "include-opportunity-cost", false,
		"Subtract the foregone return on the down payment")
	return s
}

// params возвращает только явно заданные флаги, остальное берется по умолчанию
func (s *scenario) params() map[string]interface{} {
	params := map[string]interface{}{}
	for _, f := range scenarioFlags() {
		flag := s.flags.Lookup(flagName(f.param))
		if flag == nil || !flag.Changed {
			continue
		}
		if v, err := s.flags.GetFloat64(flag.Name); err == nil {
			params[f.param] = v
		}
	}
	if s.flags.Changed("include-opportunity-cost") {
		params["include_opportunity_cost"] = s.includeOpportunityCost
	}
	return params
}
